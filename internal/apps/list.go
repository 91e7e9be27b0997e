package apps

import (
	"context"
	"fmt"

	"dcm/internal/docker"
	"dcm/internal/logger"
	"dcm/internal/registry"
)

// liveStates fetches container states for one compose project. Swapped
// by tests; the default dials the engine API.
var liveStates = func(ctx context.Context, project string) ([]docker.ContainerState, error) {
	eng, err := docker.NewEngine()
	if err != nil {
		return nil, err
	}
	defer eng.Close()
	return eng.ProjectContainers(ctx, project)
}

// daemonReachable probes the docker daemon once per listing. Swapped by
// tests.
var daemonReachable = func(ctx context.Context) bool {
	eng, err := docker.NewEngine()
	if err != nil {
		return false
	}
	defer eng.Close()
	return eng.Ping(ctx) == nil
}

// Row is one line of the dcm list output.
type Row struct {
	Name   string
	Path   string
	Status string
}

// ListRows builds the listing of registered apps with a live status
// column. An unreachable daemon degrades every status to "unknown"
// with a single notice instead of failing the listing.
func ListRows(ctx context.Context, store *registry.Store) ([]Row, error) {
	apps, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, nil
	}

	reachable := daemonReachable(ctx)
	if !reachable {
		logger.Notice(ctx, "Docker daemon is not reachable, showing registry data only.")
	}

	rows := make([]Row, 0, len(apps))
	for _, app := range apps {
		status := "unknown"
		if reachable {
			states, serr := liveStates(ctx, app.Name)
			if serr != nil {
				logger.Debug(ctx, "Status of '{{_App_}}%s{{|-|}}' unavailable: %v", app.Name, serr)
			} else {
				status = summarizeStates(states)
			}
		}
		rows = append(rows, Row{Name: app.Name, Path: app.Path, Status: status})
	}
	return rows, nil
}

// summarizeStates reduces a project's containers to one status word.
func summarizeStates(states []docker.ContainerState) string {
	if len(states) == 0 {
		return "stopped"
	}
	running := 0
	for _, s := range states {
		if s.State == "running" {
			running++
		}
	}
	switch running {
	case len(states):
		return fmt.Sprintf("running (%d/%d)", running, len(states))
	case 0:
		return fmt.Sprintf("stopped (0/%d)", len(states))
	default:
		return fmt.Sprintf("partial (%d/%d)", running, len(states))
	}
}
