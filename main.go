package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dcm/cmd"
	"dcm/internal/console"
	"dcm/internal/logger"
	"dcm/internal/version"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	slog.SetDefault(logger.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cleanup must run even when we return early or panic.
	defer cleanup(ctx)

	// logger.Fatal panics with a sentinel so cleanup still runs.
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(logger.FatalError); ok {
				exitCode = 1
			} else {
				panic(r)
			}
		}
		if exitCode != 0 {
			fmt.Fprintln(os.Stderr, console.ToANSI(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} did not finish running successfully.", version.ApplicationName)))
		}
	}()

	// Runs before the recover above: raw panics become FatalError panics
	// carrying a logged stack trace.
	defer logger.Recover(ctx)

	return cmd.Execute(ctx)
}

func cleanup(ctx context.Context) {
	logger.Info(ctx, "Cleaning up...")
	logger.Cleanup()
}
