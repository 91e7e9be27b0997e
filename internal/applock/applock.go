// Package applock serializes mutating operations per application with
// advisory file locks. Two dcm invocations racing on the same app (say
// backup and restore in two terminals) would corrupt the staging
// directory or the archive; the lock turns that race into a fast,
// clearly reported failure. Read-only operations do not lock.
package applock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"dcm/internal/paths"
	"dcm/internal/version"
)

var (
	// AcquireTimeout is how long Acquire waits for a held lock before
	// giving up. Tests shorten it.
	AcquireTimeout = 5 * time.Second

	// retryInterval is the poll interval while waiting.
	retryInterval = 100 * time.Millisecond
)

// Lock holds an acquired per-app advisory lock until Release.
type Lock struct {
	fl  *flock.Flock
	app string
}

// Acquire takes the advisory lock for app, waiting up to AcquireTimeout
// for a holder to release it. A lock still held after the timeout fails
// with a message naming the app.
func Acquire(ctx context.Context, app string) (*Lock, error) {
	locksDir := paths.GetLocksDir()
	if err := os.MkdirAll(locksDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(filepath.Join(locksDir, app+".lock"))

	lockCtx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, retryInterval)
	if err != nil && lockCtx.Err() == nil {
		return nil, fmt.Errorf("locking app '%s': %w", app, err)
	}
	if !ok {
		return nil, fmt.Errorf("another %s operation is already running for app '%s'", version.CommandName, app)
	}

	return &Lock{fl: fl, app: app}, nil
}

// Release unlocks the app lock. Safe to call once per acquired lock.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	_ = l.fl.Unlock()
	l.fl = nil
}
