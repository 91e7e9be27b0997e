package backup

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is written to every backup.yml.
const ManifestVersion = 1

// Manifest describes an archive's contents. It is informational:
// restores are driven by the archive contents themselves, so a manifest
// that is missing or unreadable never blocks a restore.
type Manifest struct {
	// Version of the manifest format.
	Version int `yaml:"version"`
	// App the archive was taken from.
	App string `yaml:"app"`
	// CreatedAt is the backup creation time.
	CreatedAt time.Time `yaml:"created_at"`
	// ToolVersion records which dcm wrote the archive.
	ToolVersion string `yaml:"tool_version"`
	// IncludeVolumes records the setting the backup ran under.
	IncludeVolumes bool `yaml:"include_volumes"`
	// Files are the staged file names (compose file, env file).
	Files []string `yaml:"files,omitempty"`
	// Volumes are the snapshotted volumes.
	Volumes []VolumeSnapshot `yaml:"volumes,omitempty"`
}

// VolumeSnapshot records one snapshotted volume.
type VolumeSnapshot struct {
	// Key is the top-level key in the compose file.
	Key string `yaml:"key"`
	// Name is the engine-side volume name at backup time.
	Name string `yaml:"name"`
	// File is the snapshot file inside the archive.
	File string `yaml:"file"`
}

// writeManifest writes m as yaml to path.
func writeManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest pulls the manifest out of an archive without extracting
// it. A missing or unreadable manifest yields (nil, nil): old or
// foreign archives stay listable and restorable.
func ReadManifest(archivePath string, manifestName string) (*Manifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading archive '%s': %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive '%s': %w", archivePath, err)
		}
		if path.Clean(hdr.Name) != manifestName {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("reading manifest from '%s': %w", archivePath, err)
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			// Not fatal, the archive stands on its own.
			return nil, nil
		}
		return &m, nil
	}
}
