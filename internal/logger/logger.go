package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"dcm/internal/console"
	"dcm/internal/paths"
	"dcm/internal/version"
)

// Custom log levels. Notice is the default console level; the log file
// always records down to Trace.
const (
	LevelTrace  = slog.Level(-8)
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.Level(-2)
	LevelNotice = slog.LevelInfo
	LevelWarn   = slog.LevelWarn
	LevelError  = slog.LevelError
	LevelFatal  = slog.Level(12)
)

// LevelVar allows dynamic changing of the console log level
var LevelVar = new(slog.LevelVar)

// FileLevelVar allows dynamic changing of the file log level
var FileLevelVar = new(slog.LevelVar)

// logFile is the open handle to the current log file, closed by Cleanup.
var logFile *os.File

func init() {
	LevelVar.Set(LevelNotice)
	FileLevelVar.Set(LevelTrace)
}

// SetLevel sets the console log level.
func SetLevel(level slog.Level) {
	LevelVar.Set(level)
}

// ParseLevel maps a config or flag value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "notice", "":
		return LevelNotice, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelNotice, fmt.Errorf("unknown log level '%s'", s)
	}
}

// levelTag returns the fixed-width bracket label for a level.
func levelTag(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "[TRACE ]"
	case LevelDebug:
		return "[DEBUG ]"
	case LevelInfo:
		return "[INFO  ]"
	case LevelNotice:
		return "[NOTICE]"
	case LevelWarn:
		return "[WARN  ]"
	case LevelError:
		return "[ERROR ]"
	case LevelFatal:
		return "[FATAL ]"
	default:
		return "[" + level.String() + "]"
	}
}

// NewLogger builds the slog logger: a tint console handler on stderr and
// a plain appending file handler under the state logs directory, fanned
// out so every record reaches both.
func NewLogger() *slog.Logger {
	wStderr := os.Stderr

	stat, _ := wStderr.Stat()
	isTTY := (stat.Mode() & os.ModeCharDevice) != 0
	useColor := isTTY && console.ColorEnabled()

	levelColor := map[slog.Level]string{}
	if useColor {
		levelColor[LevelTrace] = console.CodeBlue
		levelColor[LevelDebug] = console.CodeBlue
		levelColor[LevelInfo] = console.CodeBlue
		levelColor[LevelNotice] = console.CodeGreen
		levelColor[LevelWarn] = console.CodeYellow
		levelColor[LevelError] = console.CodeRed
		levelColor[LevelFatal] = console.CodeRedBg + console.CodeWhite
	}

	replaceAttrConsole := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			level := a.Value.Any().(slog.Level)
			if c, ok := levelColor[level]; ok {
				a.Value = slog.StringValue(c + levelTag(level) + console.CodeReset + "  ")
			} else {
				a.Value = slog.StringValue(levelTag(level) + "  ")
			}
		}
		return a
	}

	consoleHandler := tint.NewHandler(wStderr, &tint.Options{
		Level:       LevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     !useColor,
		ReplaceAttr: replaceAttrConsole,
	})

	handlers := []slog.Handler{consoleHandler}

	if fh := newFileHandler(); fh != nil {
		handlers = append(handlers, fh)
	}

	return slog.New(&FanoutHandler{handlers: handlers})
}

// newFileHandler opens today's log file for appending. A failure to open
// is reported once on stderr and logging continues console-only.
func newFileHandler() slog.Handler {
	logsDir := paths.GetLogsDir()
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		return nil
	}

	name := fmt.Sprintf("%s_%s.log", strings.ToLower(version.ApplicationName), time.Now().Format("20060102"))
	logFilePath := filepath.Join(logsDir, name)
	wFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return nil
	}
	logFile = wFile

	replaceAttrFile := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			level := a.Value.Any().(slog.Level)
			a.Value = slog.StringValue(levelTag(level) + "  ")
		}
		if a.Key == slog.MessageKey {
			// Messages are rendered with ANSI codes for the console;
			// the file gets the stripped text.
			a.Value = slog.StringValue(console.Strip(a.Value.String()))
		}
		return a
	}

	return tint.NewHandler(wFile, &tint.Options{
		Level:       FileLevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     true,
		ReplaceAttr: replaceAttrFile,
	})
}

// Cleanup closes the log file. Called from main's deferred cleanup.
func Cleanup() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// PruneLogs removes log files older than retentionDays from the logs
// directory. retentionDays <= 0 disables pruning. Best effort: errors
// are returned for the caller to log at debug, never fatal.
func PruneLogs(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	logsDir := paths.GetLogsDir()
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	prefix := strings.ToLower(version.ApplicationName) + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".log")
		fileDate, parseErr := time.Parse("20060102", stamp)
		if parseErr != nil {
			continue
		}
		if fileDate.Before(cutoff) {
			if rmErr := os.Remove(filepath.Join(logsDir, name)); rmErr != nil {
				err = rmErr
			}
		}
	}
	return err
}

// FanoutHandler broadcasts records to multiple handlers
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: newHandlers}
}

// resolveMsg renders any message value to a string; slices become one
// line per element.
func resolveMsg(msg any) string {
	switch v := msg.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, resolveMsg(item))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}

func log(ctx context.Context, level slog.Level, msg any, args ...any) {
	logAt(ctx, time.Now(), level, msg, args...)
}

// logAt formats, colorizes, and hands the message to the handler, one
// record per line so multi-line output keeps its timestamp column.
func logAt(ctx context.Context, t time.Time, level slog.Level, msg any, args ...any) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}

	msgStr := resolveMsg(msg)
	if len(args) > 0 && strings.Contains(msgStr, "%") {
		msgStr = fmt.Sprintf(msgStr, args...)
		args = nil
	}
	msgStr = console.ToANSI(msgStr)

	reset := ""
	if console.ColorEnabled() {
		// Reset at the end of every line to prevent color bleed into the
		// next timestamp.
		reset = console.CodeReset
	}

	if !strings.Contains(msgStr, "\n") {
		r := slog.NewRecord(t, level, msgStr+reset, 0)
		r.Add(args...)
		_ = h.Handle(ctx, r)
		return
	}

	for i, line := range strings.Split(msgStr, "\n") {
		r := slog.NewRecord(t, level, line+reset, 0)
		if i == 0 {
			r.Add(args...)
		}
		_ = h.Handle(ctx, r)
	}
}

// Trace logs at trace level.
func Trace(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelTrace, msg, args...)
}

// Debug logs at debug level.
func Debug(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelDebug, msg, args...)
}

// Info logs at info level.
func Info(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelInfo, msg, args...)
}

// Notice logs at notice level, the default user-visible level.
func Notice(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelNotice, msg, args...)
}

// Warn logs at warn level.
func Warn(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelWarn, msg, args...)
}

// Error logs at error level.
func Error(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelError, msg, args...)
}

func getSystemInfo() []string {
	var info []string

	info = append(info, fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))
	info = append(info, "")

	executable, _ := os.Executable()
	info = append(info, fmt.Sprintf("Currently running as: %s (PID %d)", executable, os.Getpid()))
	info = append(info, "")

	info = append(info, fmt.Sprintf("ARCH:             %s", runtime.GOARCH))
	info = append(info, fmt.Sprintf("OS:               %s", runtime.GOOS))
	info = append(info, fmt.Sprintf("SCRIPTPATH:       %s", filepath.Dir(executable)))
	info = append(info, fmt.Sprintf("SCRIPTNAME:       %s", filepath.Base(executable)))
	info = append(info, "")

	currentUser, err := user.Current()
	if err == nil {
		info = append(info, fmt.Sprintf("DETECTED_PUID:    %s", currentUser.Uid))
		info = append(info, fmt.Sprintf("DETECTED_UNAME:   %s", currentUser.Username))
		info = append(info, fmt.Sprintf("DETECTED_GID:     %s", currentUser.Gid))
		info = append(info, fmt.Sprintf("DETECTED_HOMEDIR: %s", currentUser.HomeDir))
	} else {
		info = append(info, fmt.Sprintf("User Info Error: %v", err))
	}

	return info
}

// Fatal logs a message at Fatal level with system information and a
// stack trace, then panics with FatalError so main's run loop can
// recover, clean up, and exit nonzero.
func Fatal(ctx context.Context, msg any, args ...any) {
	fatalWithStackSkip(ctx, 2, msg, args...)
}

// FatalWithStackSkip behaves like Fatal but skips the given number of
// stack frames, for use inside recovery helpers.
func FatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	fatalWithStackSkip(ctx, skip+1, msg, args...)
}

func fatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	now := time.Now()

	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var infoLines []string
	for _, i := range getSystemInfo() {
		if i != "" {
			infoLines = append(infoLines, "  "+i)
		} else {
			infoLines = append(infoLines, "")
		}
	}

	var allFrames []runtime.Frame
	for {
		frame, more := frames.Next()
		allFrames = append(allFrames, frame)
		if !more {
			break
		}
	}

	var traceLines []string
	width := len(fmt.Sprintf("%d", len(allFrames)-1))
	wd, _ := os.Getwd()

	// Iterate in reverse: outermost frame first
	indent := ""
	for i := len(allFrames) - 1; i >= 0; i-- {
		frame := allFrames[i]

		if wd != "" {
			if rel, err := filepath.Rel(wd, frame.File); err == nil {
				if !strings.HasPrefix(rel, "..") && !strings.HasPrefix(rel, string(filepath.Separator)) {
					frame.File = "./" + filepath.ToSlash(rel)
				}
			}
		}

		suffix := ""
		arrowIndent := indent
		if i < len(allFrames)-1 {
			suffix = "└>"
			if len(indent) >= 2 {
				arrowIndent = indent[:len(indent)-2]
			}
		}

		fmtStr := fmt.Sprintf("{{|red|}}%%%dd{{|-|}}:%%s{{|red|}}%%s{{|-|}}{{|cyan::B|}}%%s{{|-|}}:{{|yellow::B|}}%%d{{|-|}} ({{|green::B|}}%%s{{|-|}})", width)
		line := fmt.Sprintf(fmtStr, i, arrowIndent, suffix, frame.File, frame.Line, filepath.Base(frame.Function))

		traceLines = append(traceLines, "  "+line)
		indent += "  "
	}

	output := []any{
		"{{|red|}}### BEGIN SYSTEM INFORMATION AND STACK TRACE ###{{|-|}}",
		infoLines,
		"",
		traceLines,
		"{{|red|}}### END SYSTEM INFORMATION AND STACK TRACE ###{{|-|}}",
		"",
		msg,
	}

	logAt(ctx, now, LevelFatal, output, args...)

	panic(FatalError{})
}

// FatalError is the sentinel panic payload used by Fatal calls. The main
// run loop recovers it and turns it into a nonzero exit after cleanup.
type FatalError struct{}
