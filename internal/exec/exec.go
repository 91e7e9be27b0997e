package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"dcm/internal/errdefs"
	"dcm/internal/logger"
)

// RunAndLog executes a command, captures its combined output, logs each
// line, and wraps a nonzero exit into an ExternalToolError carrying the
// tool's own output.
//
// Parameters:
//   - runningNoticeType: level for the "Running: ..." message ("notice",
//     "info", ...). Empty string to skip.
//   - outputNoticeType: level for logging output lines. May carry a
//     prefix like "docker:info". Empty string streams output directly to
//     the terminal instead of capturing it.
//   - errorNoticeType: level for logging errors. Empty string to skip.
//   - errorMessage: message to log on error.
func RunAndLog(ctx context.Context, runningNoticeType, outputNoticeType, errorNoticeType, errorMessage, command string, args ...string) error {
	cmdText := command
	if len(args) > 0 {
		cmdText = fmt.Sprintf("%s %s", command, strings.Join(args, " "))
	}

	if runningNoticeType != "" {
		logByType(ctx, runningNoticeType, "Running: {{_RunningCommand_}}%s{{|-|}}", cmdText)
	}

	cmd := exec.CommandContext(ctx, command, args...)
	var outputBuf bytes.Buffer

	// If outputNoticeType is set, capture output to log it line by line.
	// Otherwise, stream directly to the terminal (interactive verbs like
	// follow-mode logs).
	if outputNoticeType != "" {
		cmd.Stdout = &outputBuf
		cmd.Stderr = &outputBuf
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()

	if outputNoticeType != "" && outputBuf.Len() > 0 {
		// Parse prefix and notice type ("docker:notice" -> "docker:", "notice")
		prefix := ""
		noticeType := outputNoticeType
		if strings.Contains(outputNoticeType, ":") {
			parts := strings.SplitN(outputNoticeType, ":", 2)
			prefix = parts[0] + ":"
			noticeType = parts[1]
		}

		scanner := bufio.NewScanner(bytes.NewReader(outputBuf.Bytes()))
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if prefix != "" {
				logByType(ctx, noticeType, "{{_RunningCommand_}}%s{{|-|}} %s", prefix, line)
			} else {
				logByType(ctx, noticeType, "%s", line)
			}
		}
	}

	if err != nil {
		if errorNoticeType != "" && errorMessage != "" {
			logByType(ctx, errorNoticeType, errorMessage)
			logByType(ctx, errorNoticeType, "Failing command: {{_FailingCommand_}}%s{{|-|}}", cmdText)
		}
		return wrapRunError(command, args, outputBuf.String(), err)
	}

	return nil
}

// RunCommand executes a command without logging its output.
func RunCommand(ctx context.Context, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapRunError(command, args, string(output), err)
	}
	return nil
}

// RunCommandOutput executes a command and returns its combined output.
// On a nonzero exit the output so far is still returned alongside the
// ExternalToolError.
func RunCommandOutput(ctx context.Context, command string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), wrapRunError(command, args, string(output), err)
	}
	return string(output), nil
}

// wrapRunError turns an exec failure into an ExternalToolError with the
// exit code and whatever the tool printed.
func wrapRunError(command string, args []string, output string, err error) error {
	exitCode := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &errdefs.ExternalToolError{
		Tool:     command,
		Args:     args,
		ExitCode: exitCode,
		Output:   strings.TrimSpace(output),
		Err:      err,
	}
}

// logByType logs a message with the appropriate logger function based on type
func logByType(ctx context.Context, noticeType string, format string, args ...any) {
	switch strings.ToLower(noticeType) {
	case "notice":
		logger.Notice(ctx, format, args...)
	case "info":
		logger.Info(ctx, format, args...)
	case "warn", "warning":
		logger.Warn(ctx, format, args...)
	case "error":
		logger.Error(ctx, format, args...)
	case "debug":
		logger.Debug(ctx, format, args...)
	case "trace":
		logger.Trace(ctx, format, args...)
	default:
		logger.Notice(ctx, format, args...)
	}
}
