// Package errdefs defines the error categories every command reports
// through: usage mistakes, unresolved names, failed external tools, and
// unparseable state files. Callers classify with the Is* helpers and the
// top level maps categories to exit codes.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// Subject kinds for NotFoundError.
const (
	KindApp      = "app"
	KindBackup   = "backup"
	KindTemplate = "template"
	KindFile     = "file"
)

// UsageError reports missing or invalid command line input.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a named subject (app, backup, template)
// did not resolve.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

// NotFound builds a NotFoundError for the given subject kind and name.
func NotFound(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// ExternalToolError reports a nonzero exit from an external command.
// Output carries the tool's own combined output verbatim so the user
// sees the underlying failure, not a paraphrase of it.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	cmd := e.Tool
	if len(e.Args) > 0 {
		cmd += " " + strings.Join(e.Args, " ")
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("'%s' exited with status %d", cmd, e.ExitCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("'%s' failed: %v", cmd, e.Err)
	}
	return fmt.Sprintf("'%s' failed", cmd)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// CorruptStateError reports a state file that exists but cannot be
// parsed. It is never recovered from automatically; the message tells
// the operator to repair or remove the file themselves.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("state file '%s' is not valid: %v (inspect and repair it manually, it will not be overwritten)", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// IsUsage reports whether err is a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsExternalTool reports whether err is an ExternalToolError.
func IsExternalTool(err error) bool {
	var et *ExternalToolError
	return errors.As(err, &et)
}

// IsCorruptState reports whether err is a CorruptStateError.
func IsCorruptState(err error) bool {
	var cs *CorruptStateError
	return errors.As(err, &cs)
}
