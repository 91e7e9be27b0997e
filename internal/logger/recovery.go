package logger

import (
	"context"
)

// Recover traps panics and reports them as fatal errors with a stack
// trace. A FatalError panic is re-raised untouched; any other panic is
// logged and re-raised as FatalError. Pair it with an outer recover
// that maps FatalError to an exit code.
// Usage: defer logger.Recover(ctx)
func Recover(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}

	if _, ok := r.(FatalError); ok {
		panic(r)
	}

	// Skip 2 frames: Recover + runtime.gopanic
	FatalWithStackSkip(ctx, 2, "panic: %v", r)
}
