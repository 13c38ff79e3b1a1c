//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/meigma/classdata/registry"
	"github.com/meigma/classdata/source"
)

// --- Registry Container Setup ---

var (
	registryOnce sync.Once
	registryAddr string
	registryErr  error
)

// getRegistry returns the shared registry address, starting the container if needed.
func getRegistry(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	registryOnce.Do(func() {
		registryAddr, registryErr = startRegistryContainer(context.Background())
	})
	if registryErr != nil {
		tb.Fatalf("start registry container: %v", registryErr)
	}
	return registryAddr
}

// startRegistryContainer starts a registry:2 container and returns the host:port address.
func startRegistryContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "registry:2",
		ExposedPorts: []string{"5000/tcp"},
		WaitingFor:   wait.ForHTTP("/v2/").WithPort("5000/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start registry container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve registry host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve registry port: %w", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// newTestClient creates a client configured for the local test registry.
func newTestClient() *registry.Client {
	return registry.New(registry.WithPlainHTTP(true), registry.WithUserAgent("classdata-integration"))
}

// testRef generates a unique reference for a test to avoid collisions.
func testRef(addr, name, tag string) string {
	return fmt.Sprintf("%s/test/%s:%s", addr, name, tag)
}

// --- Dump Fixtures ---

const dumpTemplate = `{
  "Version": %q,
  "Classes": [
    {"Name": "Object", "TypeID": 0, "Base": ""},
    {
      "Name": "Transform", "TypeID": 4, "Base": "Object",
      "EditorRootNode": {
        "TypeName": "Transform", "Name": "Base", "Level": 0, "ByteSize": -1, "Version": 1,
        "SubNodes": [{"TypeName": "Vector3f", "Name": "m_LocalPosition", "Level": 1, "ByteSize": 12, "Version": 1, "SubNodes": []}]
      },
      "ReleaseRootNode": {
        "TypeName": "Transform", "Name": "Base", "Level": 0, "ByteSize": -1, "Version": 1, "SubNodes": []
      }
    }
  ]
}`

// createDumpRepo writes a dump repository holding one dump per version.
func createDumpRepo(tb testing.TB, versions ...string) string {
	tb.Helper()
	root := tb.TempDir()
	dir := source.DumpDir(root)
	require.NoError(tb, os.MkdirAll(dir, 0o755))
	for _, v := range versions {
		body := fmt.Sprintf(dumpTemplate, v)
		require.NoError(tb, os.WriteFile(filepath.Join(dir, v+".json"), []byte(body), 0o644))
	}
	return root
}
