package acceptance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestNodeContainer_ServesHealthAndStatus builds the node image from its
// Dockerfile and exercises the observer HTTP surface end to end,
// grounded in the teacher's Docker-build acceptance test but pared down
// to this node's own endpoints.
func TestNodeContainer_ServesHealthAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../..",
			Dockerfile: "build/package/Dockerfile",
		},
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ENV":             "development",
			"LOG_LEVEL":       "INFO",
			"NODE_ID":         "1",
			"NUM_FLOORS":      "4",
			"HTTP_PORT":       "8080",
			"METRICS_ENABLED": "true",
		},
		WaitingFor: wait.ForHTTP("/health").
			WithPort("8080/tcp").
			WithStartupTimeout(120 * time.Second).
			WithPollInterval(2 * time.Second),
	}

	node, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = node.Terminate(ctx) }()

	host, err := node.Host(ctx)
	require.NoError(t, err)
	port, err := node.MappedPort(ctx, "8080")
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, port.Port())
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])

	statusResp, err := client.Get(baseURL + "/status")
	require.NoError(t, err)
	defer statusResp.Body.Close()
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)

	var status map[string]interface{}
	require.NoError(t, json.NewDecoder(statusResp.Body).Decode(&status))
	assert.Equal(t, float64(1), status["node_id"])
}
