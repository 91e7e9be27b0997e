package apps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"dcm/internal/composefile"
	"dcm/internal/config"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// gitClone is swapped by tests so cloning can be exercised without a
// network.
var gitClone = func(ctx context.Context, dir, repoURL string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL: repoURL,
	})
	return err
}

// Clone fetches a git repository into the apps directory and registers
// it. The cloned tree must contain a compose file; when it does not,
// the clone is removed again rather than leaving an unmanageable
// directory behind.
func Clone(ctx context.Context, store *registry.Store, conf config.AppConfig, repoURL, name string) error {
	if err := registry.ValidateName(name); err != nil {
		return err
	}

	destDir := filepath.Join(conf.AppsDirectory, name)
	if _, err := os.Stat(destDir); err == nil {
		return fmt.Errorf("directory '%s' already exists", destDir)
	}
	if err := os.MkdirAll(conf.AppsDirectory, 0o755); err != nil {
		return fmt.Errorf("creating apps directory: %w", err)
	}

	logger.Notice(ctx, "Cloning '{{_URL_}}%s{{|-|}}' into '{{_Folder_}}%s{{|-|}}'.", repoURL, destDir)
	if err := gitClone(ctx, destDir, repoURL); err != nil {
		os.RemoveAll(destDir)
		return fmt.Errorf("cloning '%s': %w", repoURL, err)
	}

	composePath, err := composefile.Find(destDir)
	if err != nil {
		os.RemoveAll(destDir)
		return fmt.Errorf("'%s' contains no compose file, removed the clone again", repoURL)
	}
	if checkErr := composefile.LooseCheck(composePath); checkErr != nil {
		logger.Warn(ctx, "'{{_File_}}%s{{|-|}}' may not be a valid compose file: %v", composePath, checkErr)
	}

	if err := store.Upsert(ctx, name, destDir); err != nil {
		return err
	}

	logger.Notice(ctx, "Added '{{_App_}}%s{{|-|}}' from '{{_URL_}}%s{{|-|}}'.", name, repoURL)
	return nil
}
