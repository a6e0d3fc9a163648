package defra

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

const (
	DefaultImage         = "sourcenetwork/defradb:latest"
	DefaultContainerName = "restyle-defra"
	DefaultPort          = "9181"
	ContainerPort        = "9181/tcp"
	DataDir              = "/data"
	Label                = "restyle-defra"

	readyTimeout = 30 * time.Second
)

// ContainerStatus represents the state of the DefraDB container.
type ContainerStatus string

const (
	StatusRunning  ContainerStatus = "running"
	StatusStopped  ContainerStatus = "stopped"
	StatusNotFound ContainerStatus = "not_found"
	StatusStarting ContainerStatus = "starting"
)

// DockerConfig holds configuration for the Docker manager.
type DockerConfig struct {
	ContainerName string
	Image         string
	DataPath      string // host directory bind-mounted at /data
	HostPort      string
	Labels        map[string]string
}

func (c DockerConfig) withDefaults() DockerConfig {
	if c.ContainerName == "" {
		c.ContainerName = DefaultContainerName
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.HostPort == "" {
		c.HostPort = DefaultPort
	}
	return c
}

// DockerManager runs DefraDB in a local container for the defra overlay backend.
type DockerManager struct {
	cli    *client.Client
	cfg    DockerConfig
	labels map[string]string
}

// NewDockerManager creates a Docker manager. The Docker daemon is not
// contacted until a lifecycle method is called.
func NewDockerManager(cfg DockerConfig) (*DockerManager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	labels := map[string]string{Label: "true"}
	maps.Copy(labels, cfg.Labels)

	return &DockerManager{cli: cli, cfg: cfg.withDefaults(), labels: labels}, nil
}

// Close closes the Docker client.
func (m *DockerManager) Close() error {
	return m.cli.Close()
}

// URL returns the DefraDB API URL on the host.
func (m *DockerManager) URL() string {
	return fmt.Sprintf("http://localhost:%s", m.cfg.HostPort)
}

// Start brings the container up, creating it if needed, and waits until
// DefraDB answers its health check. Starting a running container is a no-op.
func (m *DockerManager) Start(ctx context.Context) error {
	if _, err := m.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker is not running: %w", err)
	}

	status, id, err := m.inspect(ctx)
	if err != nil {
		return err
	}

	switch status {
	case StatusRunning:
		return nil
	case StatusStopped, StatusStarting:
		if err := m.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
			return fmt.Errorf("failed to start existing container: %w", err)
		}
	case StatusNotFound:
		if err := m.create(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("container in unexpected state: %s", status)
	}
	return m.WaitReady(ctx, readyTimeout)
}

// Stop stops the container if it exists.
func (m *DockerManager) Stop(ctx context.Context) error {
	status, id, err := m.inspect(ctx)
	if err != nil {
		return err
	}
	if status == StatusNotFound {
		return nil
	}

	timeout := 10
	if err := m.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Remove force-removes the container. The bind-mounted data directory is kept.
func (m *DockerManager) Remove(ctx context.Context) error {
	status, id, err := m.inspect(ctx)
	if err != nil {
		return err
	}
	if status == StatusNotFound {
		return nil
	}
	if err := m.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// Status returns the current status of the container.
func (m *DockerManager) Status(ctx context.Context) (ContainerStatus, error) {
	status, _, err := m.inspect(ctx)
	return status, err
}

// Logs returns the last tail lines of container output.
func (m *DockerManager) Logs(ctx context.Context, tail string) (string, error) {
	status, id, err := m.inspect(ctx)
	if err != nil {
		return "", err
	}
	if status == StatusNotFound {
		return "", fmt.Errorf("container %s not found", m.cfg.ContainerName)
	}

	rc, err := m.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get logs: %w", err)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read logs: %w", err)
	}
	return string(out), nil
}

// WaitReady polls the health endpoint once per second until it succeeds
// or timeout elapses.
func (m *DockerManager) WaitReady(ctx context.Context, timeout time.Duration) error {
	hc := &http.Client{Timeout: 2 * time.Second}
	url := m.URL() + "/health-check"

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := hc.Do(req)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(max(1, int(timeout.Seconds())))),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func (m *DockerManager) create(ctx context.Context) error {
	if err := m.pullIfMissing(ctx); err != nil {
		return err
	}

	cfg := &container.Config{
		Image: m.cfg.Image,
		Cmd: []string{
			"start",
			"--no-keyring",
			"--url", "0.0.0.0:9181",
			"--store", "badger",
			"--rootdir", DataDir,
		},
		Labels:       m.labels,
		ExposedPorts: nat.PortSet{ContainerPort: struct{}{}},
	}

	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			ContainerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: m.cfg.HostPort}},
		},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}
	if m.cfg.DataPath != "" {
		hostCfg.Mounts = []mount.Mount{{Type: mount.TypeBind, Source: m.cfg.DataPath, Target: DataDir}}
	}

	resp, err := m.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, m.cfg.ContainerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

func (m *DockerManager) inspect(ctx context.Context) (ContainerStatus, string, error) {
	args := filters.NewArgs()
	args.Add("name", m.cfg.ContainerName)

	list, err := m.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return "", "", fmt.Errorf("failed to list containers: %w", err)
	}
	if len(list) == 0 {
		return StatusNotFound, "", nil
	}
	return containerStatus(list[0].State), list[0].ID, nil
}

func containerStatus(state string) ContainerStatus {
	switch state {
	case "running":
		return StatusRunning
	case "exited", "dead":
		return StatusStopped
	case "created", "restarting":
		return StatusStarting
	default:
		return ContainerStatus(state)
	}
}

func (m *DockerManager) pullIfMissing(ctx context.Context) error {
	if _, err := m.cli.ImageInspect(ctx, m.cfg.Image); err == nil {
		return nil
	}

	rc, err := m.cli.ImagePull(ctx, m.cfg.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer rc.Close()

	_, err = io.Copy(io.Discard, rc)
	return err
}
