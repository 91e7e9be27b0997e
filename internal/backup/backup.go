// Package backup archives an application's compose file, env file and
// optionally its named volumes into a self-contained timestamped
// tarball, and restores apps from such tarballs. An archive must stay
// restorable with nothing but the archive itself: no registry entry, no
// manifest, no surviving source directory.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dcm/internal/applock"
	"dcm/internal/composefile"
	"dcm/internal/config"
	"dcm/internal/constants"
	"dcm/internal/docker"
	"dcm/internal/logger"
	"dcm/internal/registry"
	"dcm/internal/version"
)

// dockerRun is swapped by tests so volume snapshots can be exercised
// without a docker binary.
var dockerRun = docker.RunQuiet

// Create archives one registered app into the backups directory and
// returns the archive path. The staging directory is removed no matter
// how the backup ends; a failed backup leaves no partial archive.
func Create(ctx context.Context, store *registry.Store, conf config.AppConfig, name string) (string, error) {
	lock, err := applock.Acquire(ctx, name)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	// Resolving.
	entry, err := store.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	composePath, err := composefile.Find(entry.Path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(conf.BackupsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backups directory: %w", err)
	}

	// Staging. The temp directory lives next to the final archive so
	// the later rename stays on one filesystem.
	staging, err := os.MkdirTemp(conf.BackupsDir, ".staging-"+name+"-")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	manifest := &Manifest{
		Version:        ManifestVersion,
		App:            name,
		CreatedAt:      time.Now().UTC(),
		ToolVersion:    version.Version,
		IncludeVolumes: conf.Backup.IncludeVolumes,
	}

	logger.Info(ctx, "Copying '{{_File_}}%s{{|-|}}' to staging.", filepath.Base(composePath))
	if err := CopyFile(composePath, filepath.Join(staging, filepath.Base(composePath))); err != nil {
		return "", fmt.Errorf("staging compose file: %w", err)
	}
	manifest.Files = append(manifest.Files, filepath.Base(composePath))

	envPath := filepath.Join(entry.Path, constants.EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		logger.Info(ctx, "Copying '{{_File_}}%s{{|-|}}' to staging.", constants.EnvFileName)
		if err := CopyFile(envPath, filepath.Join(staging, constants.EnvFileName)); err != nil {
			return "", fmt.Errorf("staging env file: %w", err)
		}
		manifest.Files = append(manifest.Files, constants.EnvFileName)
	}

	// VolumeSnapshotting.
	if conf.Backup.IncludeVolumes {
		if err := snapshotVolumes(ctx, entry.Path, name, staging, manifest); err != nil {
			return "", err
		}
	}

	if err := writeManifest(filepath.Join(staging, constants.ManifestFileName), manifest); err != nil {
		return "", err
	}

	// Archiving.
	archivePath := filepath.Join(conf.BackupsDir, ArchiveName(name, time.Now().Format(constants.BackupTimestampLayout)))
	logger.Notice(ctx, "Creating backup '{{_File_}}%s{{|-|}}'.", archivePath)
	if err := packDir(staging, archivePath); err != nil {
		return "", err
	}

	pruneOldArchives(ctx, conf.BackupsDir, name, conf.Backup.RetentionDays)

	return archivePath, nil
}

// snapshotVolumes archives every declared top-level volume of the app
// into the staging directory via a disposable helper container. A
// single snapshot failure fails the whole backup.
func snapshotVolumes(ctx context.Context, dir, name, staging string, manifest *Manifest) error {
	project, err := composefile.Load(ctx, dir, name)
	if err != nil {
		return err
	}

	for _, vol := range project.Volumes {
		logger.Notice(ctx, "Snapshotting volume '{{_Volume_}}%s{{|-|}}'.", vol.Name)
		if err := dockerRun(ctx, docker.VolumeSnapshotArgs(vol.Name, staging, vol.Key)...); err != nil {
			return fmt.Errorf("snapshotting volume '%s': %w", vol.Name, err)
		}
		manifest.Volumes = append(manifest.Volumes, VolumeSnapshot{
			Key:  vol.Key,
			Name: vol.Name,
			File: vol.Key + ".tar.gz",
		})
	}
	return nil
}

// pruneOldArchives removes this app's archives older than the
// retention window. Best effort: pruning failures are logged, never
// escalated, and retentionDays <= 0 keeps everything forever.
func pruneOldArchives(ctx context.Context, backupsDir, name string, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		return
	}

	threshold := time.Now().AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		app, created, ok := parseArchiveName(e.Name())
		if !ok || app != name {
			continue
		}
		createdAt, perr := time.ParseInLocation(constants.BackupTimestampLayout, created, time.Local)
		if perr != nil {
			continue
		}
		if createdAt.Before(threshold) {
			logger.Info(ctx, "Removing old backup '{{_File_}}%s{{|-|}}'.", e.Name())
			if rerr := os.Remove(filepath.Join(backupsDir, e.Name())); rerr != nil {
				logger.Warn(ctx, "Failed to remove old backup '{{_File_}}%s{{|-|}}': %v", e.Name(), rerr)
			}
		}
	}
}
