package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// Compose labels set by docker compose on everything it creates. The
// project label is how running containers are matched back to the app
// they belong to.
const (
	composeProjectLabel = "com.docker.compose.project"
	composeServiceLabel = "com.docker.compose.service"
)

// Engine is a thin handle on the Docker engine API, used for read-only
// state queries (container status, volume existence). Anything that
// mutates state goes through the docker CLI instead so the behavior
// matches a hand-run command.
type Engine struct {
	cli *client.Client
}

// NewEngine builds an engine handle from the environment (DOCKER_HOST
// and friends). Construction does not touch the daemon; call Ping to
// find out whether it is reachable.
func NewEngine() (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Engine{cli: cli}, nil
}

func (e *Engine) Close() error {
	return e.cli.Close()
}

// Ping reports whether the docker daemon is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon is not reachable: %w", err)
	}
	return nil
}

// ContainerState summarizes one container belonging to a compose
// project.
type ContainerState struct {
	Name    string
	Service string
	State   string
	Status  string
}

// ProjectContainers returns the containers (running or not) that
// compose created for the given project name.
func (e *Engine) ProjectContainers(ctx context.Context, project string) ([]ContainerState, error) {
	containers, err := e.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", composeProjectLabel+"="+project)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers for '%s': %w", project, err)
	}

	result := make([]ContainerState, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, ContainerState{
			Name:    name,
			Service: c.Labels[composeServiceLabel],
			State:   c.State,
			Status:  c.Status,
		})
	}
	return result, nil
}

// VolumeExists reports whether a named docker volume exists.
func (e *Engine) VolumeExists(ctx context.Context, name string) (bool, error) {
	_, err := e.cli.VolumeInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect volume '%s': %w", name, err)
	}
	return true, nil
}
