package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refresh_token"])

	user, ok := body["user"].(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, "alice", user["username"])
		// Password hash must never be serialized
		_, hasPassword := user["password"]
		assert.False(t, hasPassword)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "alice", "alice@example.com", "pw123456")

	tests := []struct {
		name string
		body map[string]string
	}{
		{
			name: "same email",
			body: map[string]string{"username": "other", "email": "alice@example.com", "password": "pw123456"},
		},
		{
			name: "same username",
			body: map[string]string{"username": "alice", "email": "other@example.com", "password": "pw123456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "User already exists", body["error"])
		})
	}
}

func TestRegisterMissingFields(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username, email, and password are required", body["error"])
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "alice", "alice@example.com", "pw123456")

	statusUnknown, bodyUnknown := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "pw123456",
	})
	statusWrong, bodyWrong := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, statusUnknown)
	assert.Equal(t, http.StatusUnauthorized, statusWrong)
	assert.Equal(t, "Invalid credentials", bodyUnknown["error"])
	assert.Equal(t, bodyUnknown["error"], bodyWrong["error"])
}

func TestLoginSuccess(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "alice", "alice@example.com", "pw123456")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refresh_token"])
}

func TestGetCurrentUser(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "alice", "alice@example.com", "pw123456")

	status, body := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	status, body = doJSON(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Please authenticate", body["error"])

	status, body = doJSON(t, app, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Please authenticate", body["error"])
}

func TestRefreshToken(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusCreated, status)
	refreshToken, _ := body["refresh_token"].(string)
	accessToken, _ := body["token"].(string)

	// A valid refresh token yields a working access token.
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, http.StatusOK, status)
	newToken, _ := body["token"].(string)
	assert.NotEmpty(t, newToken)

	status, _ = doJSON(t, app, http.MethodGet, "/api/auth/me", newToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// An access token is not accepted in place of a refresh token.
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refresh_token": accessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid refresh token", body["error"])

	// Missing token
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Refresh token is required", body["error"])
}
