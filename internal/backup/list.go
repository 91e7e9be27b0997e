package backup

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dcm/internal/config"
	"dcm/internal/constants"
	"dcm/internal/logger"
)

// ArchiveInfo describes one archive in the backups directory.
type ArchiveInfo struct {
	// App the archive belongs to, parsed from the file name.
	App string
	// Path is the archive location on disk.
	Path string
	// CreatedAt is parsed from the file name timestamp.
	CreatedAt time.Time
	// Size in bytes.
	Size int64
	// Volumes is the snapshot count from the manifest, -1 when the
	// archive carries no readable manifest.
	Volumes int
}

// List returns the archives in the backups directory, newest first,
// optionally filtered to one app. A missing backups directory is an
// empty listing, not an error.
func List(ctx context.Context, conf config.AppConfig, name string) ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(conf.BackupsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var archives []ArchiveInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		app, created, ok := parseArchiveName(e.Name())
		if !ok {
			continue
		}
		if name != "" && app != name {
			continue
		}
		createdAt, perr := time.ParseInLocation(constants.BackupTimestampLayout, created, time.Local)
		if perr != nil {
			continue
		}

		info, ierr := e.Info()
		if ierr != nil {
			continue
		}

		archivePath := filepath.Join(conf.BackupsDir, e.Name())
		volumes := -1
		if m, merr := ReadManifest(archivePath, constants.ManifestFileName); merr == nil && m != nil {
			volumes = len(m.Volumes)
		} else if merr != nil {
			logger.Debug(ctx, "Skipping manifest of '{{_File_}}%s{{|-|}}': %v", e.Name(), merr)
		}

		archives = append(archives, ArchiveInfo{
			App:       app,
			Path:      archivePath,
			CreatedAt: createdAt,
			Size:      info.Size(),
			Volumes:   volumes,
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		if archives[i].CreatedAt.Equal(archives[j].CreatedAt) {
			return archives[i].App < archives[j].App
		}
		return archives[i].CreatedAt.After(archives[j].CreatedAt)
	})
	return archives, nil
}
