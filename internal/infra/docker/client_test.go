package docker

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/compose-network/fundme-deployer/internal/logger"
	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cli, err := client.NewClientWithOpts(
		client.WithHost("tcp://"+server.Listener.Addr().String()),
		client.WithVersion("1.47"),
	)
	require.NoError(t, err)

	c := &Client{cli: cli, logger: logger.Named("docker_client")}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestImageExists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/images/ghcr.io/foundry-rs/foundry") {
			writeJSON(w, http.StatusOK, `{"Id":"sha256:0123"}`)
			return
		}
		writeJSON(w, http.StatusNotFound, `{"message":"No such image"}`)
	})

	exists, err := c.ImageExists(t.Context(), "ghcr.io/foundry-rs/foundry:latest")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.ImageExists(t.Context(), "missing:latest")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestImageExists_DaemonError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"daemon exploded"}`)
	})

	exists, err := c.ImageExists(t.Context(), "ghcr.io/foundry-rs/foundry:latest")
	assert.False(t, exists)
	assert.ErrorContains(t, err, "daemon exploded")
}

func TestPullImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/images/create"))
		assert.Equal(t, "ghcr.io/foundry-rs/foundry", r.URL.Query().Get("fromImage"))
		writeJSON(w, http.StatusOK, "{\"status\":\"Pulling from foundry-rs/foundry\"}\n{\"status\":\"Download complete\"}\n")
	})

	require.NoError(t, c.PullImage(t.Context(), "ghcr.io/foundry-rs/foundry:latest"))
}

func TestPullImage_StreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "{\"status\":\"Pulling\"}\n{\"error\":\"manifest unknown\",\"errorDetail\":{\"message\":\"manifest unknown\"}}\n")
	})

	assert.EqualError(t, c.PullImage(t.Context(), "ghcr.io/foundry-rs/foundry:nope"), "pull failed: manifest unknown")
}

func TestPullImage_RequestError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"unauthorized"}`)
	})

	err := c.PullImage(t.Context(), "private/image:latest")
	assert.ErrorContains(t, err, "failed to pull image")
	assert.ErrorContains(t, err, "unauthorized")
}
