package apps

import (
	"context"
	"time"

	"dcm/internal/composefile"
	"dcm/internal/docker"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// Details is everything dcm knows about one app: the registry entry,
// the parsed compose file, and the live container states when the
// daemon answers.
type Details struct {
	Name            string
	Path            string
	AddedAt         time.Time
	ComposeFile     string
	Services        []string
	Volumes         []composefile.Volume
	Containers      []docker.ContainerState
	DaemonReachable bool
}

// Info aggregates the details for one registered app. A missing compose
// file or an unreachable daemon degrades the respective section instead
// of failing the whole lookup; an unknown app is still an error.
func Info(ctx context.Context, store *registry.Store, name string) (*Details, error) {
	entry, err := store.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	det := &Details{
		Name:    name,
		Path:    entry.Path,
		AddedAt: entry.AddedAt,
	}

	if composePath, cerr := composefile.Find(entry.Path); cerr != nil {
		logger.Warn(ctx, "No compose file under '{{_Folder_}}%s{{|-|}}'.", entry.Path)
	} else {
		det.ComposeFile = composePath
		if proj, perr := composefile.Load(ctx, entry.Path, name); perr != nil {
			logger.Warn(ctx, "Failed to parse '{{_File_}}%s{{|-|}}': %v", composePath, perr)
		} else {
			det.Services = proj.Services
			det.Volumes = proj.Volumes
		}
	}

	if det.DaemonReachable = daemonReachable(ctx); det.DaemonReachable {
		states, serr := liveStates(ctx, name)
		if serr != nil {
			logger.Debug(ctx, "Containers of '{{_App_}}%s{{|-|}}' unavailable: %v", name, serr)
		} else {
			det.Containers = states
		}
	} else {
		logger.Notice(ctx, "Docker daemon is not reachable, showing registry data only.")
	}

	return det, nil
}
