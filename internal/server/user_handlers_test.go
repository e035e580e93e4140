package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUserProfile(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "alice", "alice@example.com", "pw123456")

	status, body := doJSON(t, app, http.MethodGet, "/api/users/1", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)

	status, body = doJSON(t, app, http.MethodGet, "/api/users/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["error"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", body["error"])
}

func TestUpdateUserOwnership(t *testing.T) {
	app, _ := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice", "alice@example.com", "pw123456")
	bobToken, _ := registerUser(t, app, "bob", "bob@example.com", "pw123456")

	// Profile ownership failures answer 401, not 403.
	status, body := doJSON(t, app, http.MethodPatch, "/api/users/1", bobToken, map[string]string{
		"bio": "not yours",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized to update this profile", body["error"])

	status, body = doJSON(t, app, http.MethodPatch, "/api/users/1", aliceToken, map[string]string{
		"bio":    "seen 30 countries",
		"avatar": "https://example.com/a.png",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "seen 30 countries", body["bio"])
	assert.Equal(t, "https://example.com/a.png", body["avatar"])
	// Username untouched when omitted.
	assert.Equal(t, "alice", body["username"])
}

func TestUpdateUserValidatesUsername(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "alice", "alice@example.com", "pw123456")

	status, _ := doJSON(t, app, http.MethodPatch, "/api/users/1", token, map[string]string{
		"username": "x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
