// Package lifecycle drives compose verbs against registered
// applications, either one app at a time or fanned out across the
// whole registry. The driver owns resolution and fan-out only; every
// container state transition is delegated to the compose runtime.
package lifecycle

import (
	"context"
	"fmt"
	"strconv"

	"dcm/internal/applock"
	"dcm/internal/docker"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/registry"
	"dcm/internal/version"
)

// Action is a lifecycle verb applied to an app.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionStatus  Action = "status"
	ActionUpdate  Action = "update"
)

// DefaultLogTail bounds `dcm logs` output when --tail is not given.
const DefaultLogTail = 100

// composeRun is swapped by tests so lifecycle semantics can be
// exercised without a docker binary.
var composeRun = docker.Compose

// Mutating reports whether the action changes container state and must
// hold the app's advisory lock.
func (a Action) Mutating() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart, ActionUpdate:
		return true
	}
	return false
}

func (a Action) notice(name string) string {
	switch a {
	case ActionStart:
		return fmt.Sprintf("Starting: {{_App_}}%s{{|-|}}.", name)
	case ActionStop:
		return fmt.Sprintf("Stopping and removing: {{_App_}}%s{{|-|}}.", name)
	case ActionRestart:
		return fmt.Sprintf("Restarting: {{_App_}}%s{{|-|}}.", name)
	case ActionStatus:
		return fmt.Sprintf("Status of: {{_App_}}%s{{|-|}}.", name)
	case ActionUpdate:
		return fmt.Sprintf("Updating and starting: {{_App_}}%s{{|-|}}.", name)
	}
	return ""
}

// Apply runs action against a single registered app. An unknown name
// comes back as a NotFoundError the command layer treats as fatal.
func Apply(ctx context.Context, store *registry.Store, action Action, name string) error {
	entry, err := store.Resolve(ctx, name)
	if err != nil {
		return err
	}
	return applyEntry(ctx, action, name, entry.Path)
}

// ApplyAll fans action out over every registered app, best effort: each
// failing app gets its own error message, processing continues, and the
// returned error carries only the failure count.
func ApplyAll(ctx context.Context, store *registry.Store, action Action) error {
	apps, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		logger.Notice(ctx, "No applications registered. Add one with '{{_UserCommand_}}%s add{{|-|}}'.", version.CommandName)
		return nil
	}

	failed := 0
	for _, app := range apps {
		if err := applyEntry(ctx, action, app.Name, app.Path); err != nil {
			logger.Error(ctx, "Failed to %s '{{_App_}}%s{{|-|}}': %v", action, app.Name, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s failed for %d of %d apps", action, failed, len(apps))
	}
	return nil
}

func applyEntry(ctx context.Context, action Action, name, dir string) error {
	if action.Mutating() {
		lock, err := applock.Acquire(ctx, name)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	logger.Notice(ctx, action.notice(name))

	switch action {
	case ActionStart:
		return composeRun(ctx, dir, name, "up", "--detach", "--remove-orphans")
	case ActionStop:
		return composeRun(ctx, dir, name, "down", "--remove-orphans")
	case ActionRestart:
		return composeRun(ctx, dir, name, "restart")
	case ActionStatus:
		return composeRun(ctx, dir, name, "ps")
	case ActionUpdate:
		// Pull first so a registry failure leaves the running app
		// untouched. After the down, failures are reported as they come.
		if err := composeRun(ctx, dir, name, "pull"); err != nil {
			return err
		}
		if err := composeRun(ctx, dir, name, "down", "--remove-orphans"); err != nil {
			return err
		}
		return composeRun(ctx, dir, name, "up", "--detach", "--remove-orphans")
	}
	return errdefs.Usagef("unknown action '%s'", action)
}

// LogsOptions tune the logs verb.
type LogsOptions struct {
	Follow bool
	Tail   int
}

// Logs streams container logs for one app. Always single-target:
// interleaving follow output from every registered app at once helps
// nobody.
func Logs(ctx context.Context, store *registry.Store, name string, opts LogsOptions) error {
	entry, err := store.Resolve(ctx, name)
	if err != nil {
		return err
	}

	tail := opts.Tail
	if tail <= 0 {
		tail = DefaultLogTail
	}

	verb := []string{"logs", "--tail", strconv.Itoa(tail)}
	if opts.Follow {
		verb = append(verb, "--follow")
	}
	return composeRun(ctx, entry.Path, name, verb...)
}
