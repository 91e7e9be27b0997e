// Package registry persists the mapping from application name to its
// source directory in apps.json. The registry stores pointers only: the
// compose file is resolved live from the recorded path at every
// operation, never mirrored elsewhere.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"dcm/internal/errdefs"
	"dcm/internal/paths"
	"dcm/internal/system"
)

// CurrentVersion is written to the registry's version field.
const CurrentVersion = 1

// nameRegex is the compose project name charset. App names are passed
// to 'docker compose --project-name' so they must satisfy it.
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Entry is one registered application.
type Entry struct {
	Path    string    `json:"path"`
	AddedAt time.Time `json:"added_at,omitzero"`
}

// App couples an entry with its name for listing.
type App struct {
	Name string
	Entry
}

// Registry is the persisted document shape of apps.json.
type Registry struct {
	Version     int              `json:"version"`
	LastUpdated time.Time        `json:"last_updated"`
	Apps        map[string]Entry `json:"apps"`
}

// Store reads and writes a registry file. The zero value is not usable;
// construct with NewStore or NewStoreAt.
type Store struct {
	filePath string
}

// NewStore returns a Store backed by the default registry location.
func NewStore() *Store {
	return &Store{filePath: paths.GetRegistryFilePath()}
}

// NewStoreAt returns a Store backed by an explicit file path (tests).
func NewStoreAt(filePath string) *Store {
	return &Store{filePath: filePath}
}

// FilePath returns the backing file location.
func (s *Store) FilePath() string {
	return s.filePath
}

// ValidateName checks that an app name is usable as a compose project
// name and a directory name.
func ValidateName(name string) error {
	if name == "" {
		return errdefs.Usagef("app name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return errdefs.Usagef("invalid app name '%s': must start with a lowercase letter or digit and contain only lowercase letters, digits, '-' and '_'", name)
	}
	return nil
}

// load reads the registry file. A missing file yields an empty registry
// (first-run tolerance). A present but unparseable file yields a
// CorruptStateError and is never recreated over. A permission failure
// is fixed and retried once before giving up.
func (s *Store) load(ctx context.Context) (*Registry, error) {
	data, err := os.ReadFile(s.filePath)
	if os.IsPermission(err) {
		if fixErr := system.FixStateFilePermissions(ctx, s.filePath); fixErr == nil {
			data, err = os.ReadFile(s.filePath)
		}
	}
	if os.IsNotExist(err) {
		return &Registry{Version: CurrentVersion, Apps: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var reg Registry
	if jsonErr := json.Unmarshal(data, &reg); jsonErr != nil {
		return nil, &errdefs.CorruptStateError{Path: s.filePath, Err: jsonErr}
	}
	if reg.Apps == nil {
		reg.Apps = map[string]Entry{}
	}
	return &reg, nil
}

// save rewrites the whole registry file atomically.
func (s *Store) save(ctx context.Context, reg *Registry) error {
	reg.Version = CurrentVersion
	reg.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	err = system.WriteFileAtomic(s.filePath, data, 0o644)
	if os.IsPermission(err) {
		if fixErr := system.FixStateFilePermissions(ctx, s.filePath); fixErr == nil {
			err = system.WriteFileAtomic(s.filePath, data, 0o644)
		}
	}
	if err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// Resolve returns the entry for name, or a NotFoundError.
func (s *Store) Resolve(ctx context.Context, name string) (Entry, error) {
	reg, err := s.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := reg.Apps[name]
	if !ok {
		return Entry{}, errdefs.NotFound(errdefs.KindApp, name)
	}
	return entry, nil
}

// Upsert registers name at path, overwriting an existing entry with the
// same name (last write wins).
func (s *Store) Upsert(ctx context.Context, name, path string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	reg, err := s.load(ctx)
	if err != nil {
		return err
	}

	existing, existed := reg.Apps[name]
	addedAt := time.Now().UTC()
	if existed && !existing.AddedAt.IsZero() {
		addedAt = existing.AddedAt
	}
	reg.Apps[name] = Entry{Path: path, AddedAt: addedAt}

	return s.save(ctx, reg)
}

// Remove deletes the entry for name. On NotFound the registry file is
// left completely untouched.
func (s *Store) Remove(ctx context.Context, name string) error {
	reg, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := reg.Apps[name]; !ok {
		return errdefs.NotFound(errdefs.KindApp, name)
	}
	delete(reg.Apps, name)
	return s.save(ctx, reg)
}

// List returns all registered apps sorted by name.
func (s *Store) List(ctx context.Context) ([]App, error) {
	reg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(reg.Apps))
	for name := range reg.Apps {
		names = append(names, name)
	}
	sort.Strings(names)

	apps := make([]App, 0, len(names))
	for _, name := range names {
		apps = append(apps, App{Name: name, Entry: reg.Apps[name]})
	}
	return apps, nil
}
