package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Contains(t, envelope.Data.Components, "database")
	assert.Contains(t, envelope.Data.Components, "search")
}

func TestGetInstance_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	// No Authorization header: the instance route is public.
	resp := ts.api.Get("/api/v1/instance")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[InstanceResponse](t, resp.Body.Bytes())
	assert.Equal(t, "YaNote Test", envelope.Data.Name)
	assert.Equal(t, "development", envelope.Data.Environment)
	assert.False(t, envelope.Data.StartedAt.IsZero())
}
