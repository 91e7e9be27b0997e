package apps

import (
	"context"
	"fmt"

	"dcm/internal/applock"
	"dcm/internal/composefile"
	"dcm/internal/docker"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// composeRun is swapped by tests.
var composeRun = docker.Compose

// Remove stops an app and deletes its registry entry. The entry is a
// pointer, so the app's files are left exactly where they are. A
// failing stop aborts the removal unless force is set; force also
// covers dangling entries whose compose file is already gone.
func Remove(ctx context.Context, store *registry.Store, name string, force bool) error {
	entry, err := store.Resolve(ctx, name)
	if err != nil {
		return err
	}

	lock, err := applock.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer lock.Release()

	if _, err := composefile.Find(entry.Path); err != nil {
		if !force {
			return fmt.Errorf("no compose file at '%s' to stop the app with (use --force to deregister anyway)", entry.Path)
		}
		logger.Warn(ctx, "No compose file at '{{_Folder_}}%s{{|-|}}', skipping the stop.", entry.Path)
	} else {
		logger.Notice(ctx, "Stopping and removing: {{_App_}}%s{{|-|}}.", name)
		if err := composeRun(ctx, entry.Path, name, "down", "--remove-orphans"); err != nil {
			if !force {
				return fmt.Errorf("failed to stop '%s' before removal (use --force to deregister anyway): %w", name, err)
			}
			logger.Warn(ctx, "Continuing removal of '{{_App_}}%s{{|-|}}' despite the stop failure.", name)
		}
	}

	if err := store.Remove(ctx, name); err != nil {
		return err
	}

	logger.Notice(ctx, "Removed '{{_App_}}%s{{|-|}}'. Files remain at '{{_Folder_}}%s{{|-|}}'.", name, entry.Path)
	return nil
}
