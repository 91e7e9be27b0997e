// Package docker is the boundary between dcm and the Docker tooling on
// the host. Compose verbs shell out to the docker CLI so their behavior
// matches what a user running the same command by hand would see, while
// read-only state queries go through the engine API (engine.go).
package docker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"dcm/internal/constants"
	"dcm/internal/errdefs"
	"dcm/internal/exec"
	"dcm/internal/logger"
)

// ComposeArgs builds the argv for a docker compose invocation. Every
// invocation pins both the project directory and the project name so
// the outcome never depends on the caller's working directory or on
// compose's directory-based name inference.
func ComposeArgs(projectDir, projectName string, verb ...string) []string {
	args := []string{"compose", "--project-directory", projectDir, "--project-name", projectName}
	return append(args, verb...)
}

// Compose runs a docker compose verb against a single project,
// streaming the tool's output to the terminal. A nonzero exit comes
// back as an ExternalToolError carrying whatever compose printed.
func Compose(ctx context.Context, projectDir, projectName string, verb ...string) error {
	if err := EnsureCompose(ctx); err != nil {
		return err
	}
	return exec.RunAndLog(ctx, "info", "", "error", "Failed to run compose.", "docker", ComposeArgs(projectDir, projectName, verb...)...)
}

// ComposeQuiet runs a compose verb with its output captured and logged
// at debug level instead of streamed. Used for verbs run as part of a
// larger operation where compose's own progress output would drown the
// surrounding messages.
func ComposeQuiet(ctx context.Context, projectDir, projectName string, verb ...string) error {
	if err := EnsureCompose(ctx); err != nil {
		return err
	}
	return exec.RunAndLog(ctx, "debug", "compose:debug", "error", "Failed to run compose.", "docker", ComposeArgs(projectDir, projectName, verb...)...)
}

// Run executes a plain docker command (not a compose verb), streaming
// output to the terminal.
func Run(ctx context.Context, args ...string) error {
	return exec.RunAndLog(ctx, "info", "", "error", "Failed to run docker.", "docker", args...)
}

// RunQuiet executes a plain docker command with output captured and
// logged at debug level.
func RunQuiet(ctx context.Context, args ...string) error {
	return exec.RunAndLog(ctx, "debug", "docker:debug", "error", "Failed to run docker.", "docker", args...)
}

var (
	composeCheckOnce sync.Once
	composeCheckErr  error

	// composeVersionOutput is swapped by tests so the gate can be
	// exercised without a docker binary on the host.
	composeVersionOutput = func(ctx context.Context) (string, error) {
		return exec.RunCommandOutput(ctx, "docker", "compose", "version", "--short")
	}
)

// EnsureCompose verifies once per process that the compose plugin is
// available and at least constants.MinComposeVersion. The result is
// cached: lifecycle fan-outs over many apps only pay for the probe a
// single time.
func EnsureCompose(ctx context.Context) error {
	composeCheckOnce.Do(func() {
		composeCheckErr = checkComposeVersion(ctx)
	})
	return composeCheckErr
}

func checkComposeVersion(ctx context.Context) error {
	output, err := composeVersionOutput(ctx)
	if err != nil {
		return fmt.Errorf("docker compose is not available (install the compose plugin for {{_Program_}}docker{{|-|}}): %w", err)
	}

	raw := strings.TrimSpace(output)
	current, perr := ParseComposeVersion(raw)
	if perr != nil {
		// An unparseable version string is not worth refusing to work
		// over. Log it and carry on.
		logger.Debug(ctx, "Could not parse compose version %q: %v", raw, perr)
		return nil
	}

	minimum := semver.MustParse(constants.MinComposeVersion)
	if current.LessThan(minimum) {
		return &errdefs.ExternalToolError{
			Tool: "docker",
			Args: []string{"compose", "version", "--short"},
			Err: fmt.Errorf("compose {{_Version_}}v%s{{|-|}} is older than the required {{_Version_}}v%s{{|-|}}, upgrade the compose plugin",
				current, minimum),
		}
	}

	logger.Trace(ctx, "docker compose version: {{_Version_}}v%s{{|-|}}", current)
	return nil
}

// ParseComposeVersion parses the output of `docker compose version
// --short`, tolerating a leading "v" and surrounding whitespace.
func ParseComposeVersion(raw string) (*semver.Version, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	return semver.NewVersion(raw)
}

// ResetComposeCheck clears the cached compose probe. Test helper.
func ResetComposeCheck() {
	composeCheckOnce = sync.Once{}
	composeCheckErr = nil
}
