package apps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dcm/internal/composefile"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// Add registers an existing compose project directory under name. The
// directory must exist and contain a compose file; a file that is
// present but looks syntactically off only warns, since it is resolved
// fresh at every later operation anyway.
func Add(ctx context.Context, store *registry.Store, name, dir string) error {
	if err := registry.ValidateName(name); err != nil {
		return err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving '%s': %w", dir, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return errdefs.NotFound(errdefs.KindFile, abs)
	}
	if err != nil {
		return fmt.Errorf("reading '%s': %w", abs, err)
	}
	if !info.IsDir() {
		return errdefs.Usagef("'%s' is not a directory", abs)
	}

	composePath, err := composefile.Find(abs)
	if err != nil {
		return err
	}
	if checkErr := composefile.LooseCheck(composePath); checkErr != nil {
		logger.Warn(ctx, "'{{_File_}}%s{{|-|}}' may not be a valid compose file: %v", composePath, checkErr)
	}

	if err := store.Upsert(ctx, name, abs); err != nil {
		return err
	}

	logger.Notice(ctx, "Added '{{_App_}}%s{{|-|}}' from '{{_Folder_}}%s{{|-|}}'.", name, abs)
	return nil
}
