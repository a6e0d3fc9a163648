// Package testutil holds helpers for tests that need Docker or a live server.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// CleanupLabel marks containers created by tests.
const CleanupLabel = "restyle-test"

// TestingT is the subset of testing.T used for Docker setup.
type TestingT interface {
	Name() string
	Cleanup(func())
	Logf(format string, args ...any)
	Skipf(format string, args ...any)
	Helper()
}

// RequireDocker returns a Docker client, skipping the test when the daemon
// is unreachable. Containers labelled for this test are removed on cleanup.
func RequireDocker(t TestingT) *client.Client {
	t.Helper()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		t.Skipf("docker is not running: %v", err)
	}

	t.Cleanup(func() {
		cleanupTestContainers(t, cli)
		_ = cli.Close()
	})
	return cli
}

// UniqueContainerName returns restyle-test-<prefix>-<testname>-<random>.
func UniqueContainerName(t TestingT, prefix string) string {
	t.Helper()
	return fmt.Sprintf("restyle-test-%s-%s-%s", prefix, sanitizeName(t.Name()), randString(4))
}

// ContainerLabels returns labels that tie a container to the running test.
func ContainerLabels(t TestingT) map[string]string {
	return map[string]string{CleanupLabel: sanitizeName(t.Name())}
}

func cleanupTestContainers(t TestingT, cli *client.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := filters.NewArgs()
	args.Add("label", fmt.Sprintf("%s=%s", CleanupLabel, sanitizeName(t.Name())))

	list, err := cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		t.Logf("failed to list containers for cleanup: %v", err)
		return
	}

	for _, c := range list {
		if err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
			t.Logf("failed to remove container %s: %v", c.ID[:12], err)
			continue
		}
		t.Logf("cleaned up container %s", c.ID[:12])
	}
}

func randString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// sanitizeName converts a test name to a valid container name component.
func sanitizeName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		case c == '/' || c == '_' || c == '-':
			out = append(out, '-')
		}
	}
	if len(out) > 30 {
		out = out[:30]
	}
	return string(out)
}
