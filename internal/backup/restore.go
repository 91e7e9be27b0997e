package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dcm/internal/applock"
	"dcm/internal/composefile"
	"dcm/internal/config"
	"dcm/internal/constants"
	"dcm/internal/docker"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// Restore rebuilds an app from an archive: compose and env files are
// copied back into the app directory and every volume snapshot in the
// archive is loaded into its docker volume. Any failure aborts the
// remaining restore. On success the app is (re)registered; the app is
// never started.
func Restore(ctx context.Context, store *registry.Store, conf config.AppConfig, name, archivePath string) error {
	lock, err := applock.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer lock.Release()

	archivePath, err = resolveArchivePath(conf, archivePath)
	if err != nil {
		return err
	}

	// Extract to scratch first. Nothing touches the app directory until
	// the archive is known to be readable and to contain a compose file.
	scratch, err := os.MkdirTemp(conf.BackupsDir, ".restore-"+name+"-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	logger.Info(ctx, "Extracting '{{_File_}}%s{{|-|}}'.", archivePath)
	if err := unpackArchive(archivePath, scratch); err != nil {
		return err
	}

	composePath, err := composefile.Find(scratch)
	if err != nil {
		return fmt.Errorf("archive '%s' does not contain a compose file", archivePath)
	}

	// Destination: the registered path when the name is still known,
	// otherwise a fresh directory under the apps root. Archives stay
	// restorable after their registry entry is gone.
	dest := ""
	entry, rerr := store.Resolve(ctx, name)
	switch {
	case rerr == nil:
		dest = entry.Path
	case errdefs.IsNotFound(rerr):
		dest = filepath.Join(conf.AppsDirectory, name)
	default:
		return rerr
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating app directory: %w", err)
	}

	logger.Notice(ctx, "Restoring '{{_App_}}%s{{|-|}}' to '{{_Folder_}}%s{{|-|}}'.", name, dest)

	if err := CopyFile(composePath, filepath.Join(dest, filepath.Base(composePath))); err != nil {
		return fmt.Errorf("restoring compose file: %w", err)
	}
	envPath := filepath.Join(scratch, constants.EnvFileName)
	if _, serr := os.Stat(envPath); serr == nil {
		if err := CopyFile(envPath, filepath.Join(dest, constants.EnvFileName)); err != nil {
			return fmt.Errorf("restoring env file: %w", err)
		}
	}

	if err := restoreVolumes(ctx, scratch, dest, name); err != nil {
		return err
	}

	if err := store.Upsert(ctx, name, dest); err != nil {
		return err
	}

	logger.Notice(ctx, "Restored '{{_App_}}%s{{|-|}}'. It was not started.", name)
	return nil
}

// resolveArchivePath accepts either a path to an archive or a bare file
// name resolved against the backups directory.
func resolveArchivePath(conf config.AppConfig, archivePath string) (string, error) {
	if _, err := os.Stat(archivePath); err == nil {
		return archivePath, nil
	}
	if !filepath.IsAbs(archivePath) && !strings.ContainsRune(archivePath, os.PathSeparator) {
		candidate := filepath.Join(conf.BackupsDir, archivePath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errdefs.NotFound(errdefs.KindBackup, archivePath)
}

// restoreVolumes loads every *.tar.gz snapshot in the scratch dir into
// its docker volume, creating missing volumes first. The archive is
// the authority for what gets restored; the current include_volumes
// setting plays no part.
func restoreVolumes(ctx context.Context, scratch, dest, name string) error {
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return err
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".tar.gz"))
	}
	if len(keys) == 0 {
		return nil
	}

	// Map compose keys to engine-side volume names through the restored
	// compose file. Keys the file no longer declares fall back to
	// compose's default naming.
	volumeNames := map[string]string{}
	if project, perr := composefile.Load(ctx, dest, name); perr == nil {
		for _, vol := range project.Volumes {
			volumeNames[vol.Key] = vol.Name
		}
	}

	for _, key := range keys {
		volName, ok := volumeNames[key]
		if !ok {
			volName = fmt.Sprintf("%s_%s", name, key)
		}

		logger.Notice(ctx, "Restoring volume '{{_Volume_}}%s{{|-|}}'.", volName)
		if err := dockerRun(ctx, docker.VolumeCreateArgs(volName)...); err != nil {
			return fmt.Errorf("creating volume '%s': %w", volName, err)
		}
		if err := dockerRun(ctx, docker.VolumeRestoreArgs(volName, scratch, key)...); err != nil {
			return fmt.Errorf("restoring volume '%s': %w", volName, err)
		}
	}
	return nil
}
