package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "author@test.com",
		"password":     "TestPassword123!",
		"display_name": "Автор",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "author@test.com", envelope.Data.User.Email)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "author@test.com",
		"password":     "AnotherPassword1!",
		"display_name": "Imposter",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRegister_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "not-an-email",
		"password":     "short",
		"display_name": "",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "author@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "author@test.com",
		"password": "WrongPassword123!",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "author@test.com")

	// The limiter allows a burst of 10 credential attempts per address;
	// registration consumed one.
	var lastCode int
	for range 12 {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "author@test.com",
			"password": "WrongPassword123!",
		})
		lastCode = resp.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "author@test.com",
		"password":     "TestPassword123!",
		"display_name": "Автор",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	registered := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	refreshed := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.NotEqual(t, registered.Data.RefreshToken, refreshed.Data.RefreshToken)

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"refresh_token": refreshed.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// The logged-out session cannot refresh again.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": refreshed.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
