// Package composefile resolves and parses an application's compose
// file. Parsing serves enumeration only (service names, named volumes);
// every container state transition still goes through the external
// compose runtime.
package composefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"

	"dcm/internal/constants"
	"dcm/internal/errdefs"
)

// Project is the subset of a parsed compose file the rest of the tool
// consumes.
type Project struct {
	// Path is the compose file the project was loaded from.
	Path string
	// Name is the compose project name (the app name).
	Name string
	// Services are the declared service names, sorted.
	Services []string
	// Volumes are the declared top-level named volumes.
	Volumes []Volume
}

// Volume is one declared top-level volume with its engine-side name
// resolved.
type Volume struct {
	// Key is the top-level key in the compose file.
	Key string
	// Name is the engine-side volume name.
	Name string
	// External marks volumes managed outside this project.
	External bool
}

// Find returns the compose file inside dir, trying the standard names
// in preference order.
func Find(dir string) (string, error) {
	for _, name := range constants.ComposeFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errdefs.NotFound(errdefs.KindFile, filepath.Join(dir, constants.ComposeFileName))
}

// Load parses the compose file in dir under the given project name.
// Interpolation and schema validation are skipped: enumeration must
// work even for compose files that lean on environment variables the
// runtime resolves later.
func Load(ctx context.Context, dir, projectName string) (*Project, error) {
	composePath, err := Find(dir)
	if err != nil {
		return nil, err
	}

	configDetails := types.ConfigDetails{
		WorkingDir: dir,
		ConfigFiles: []types.ConfigFile{
			{Filename: composePath},
		},
	}

	proj, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName(projectName, true)
		options.SkipInterpolation = true
		options.SkipValidation = true
		options.SkipConsistencyCheck = true
	})
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", composePath, err)
	}

	out := &Project{
		Path: composePath,
		Name: projectName,
	}

	for name := range proj.Services {
		out.Services = append(out.Services, name)
	}
	sort.Strings(out.Services)

	keys := make([]string, 0, len(proj.Volumes))
	for key := range proj.Volumes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cfg := proj.Volumes[key]
		out.Volumes = append(out.Volumes, Volume{
			Key:      key,
			Name:     VolumeName(projectName, key, cfg),
			External: bool(cfg.External),
		})
	}

	return out, nil
}

// VolumeName resolves the engine-side name of a declared volume: an
// explicit name wins, external volumes use their key verbatim, and
// everything else gets the compose project prefix.
func VolumeName(projectName, key string, cfg types.VolumeConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	if bool(cfg.External) {
		return key
	}
	return projectName + "_" + key
}

// LooseCheck reports whether path is syntactically valid YAML with a
// top-level mapping. It is the registration-time sanity check: failures
// are surfaced as warnings by the caller, not hard errors, since the
// file is re-resolved at every operation anyway.
func LooseCheck(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var dst map[string]any
	if err := yaml.Unmarshal(content, &dst); err != nil {
		return fmt.Errorf("invalid compose syntax: %w", err)
	}
	if _, ok := dst["services"]; !ok {
		return fmt.Errorf("no services section declared")
	}
	return nil
}
