package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfarer/internal/config"
	"wayfarer/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp builds a full application instance backed by an in-memory
// sqlite database and no Redis. Each call gets its own database.
func setupTestApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		Port:             "0",
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		UploadDir:        t.TempDir(),
		Env:              "test",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv
}

// doJSON performs a JSON request against the app and decodes the response
// body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints that answer with a JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded []map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// doJSONStrings is doJSON for endpoints that answer with a string array.
func doJSONStrings(t *testing.T, app *fiber.App, path string) (int, []string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded []string
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// registerUser creates an account through the public API and returns its
// access token and user ID.
func registerUser(t *testing.T, app *fiber.App, username, email, password string) (string, uint) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", username, status, body)
	}

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", username)
	}
	user, _ := body["user"].(map[string]any)
	id, _ := user["id"].(float64)
	return token, uint(id)
}

// createPost creates a post through the public API and returns its ID.
func createPost(t *testing.T, app *fiber.App, token string, payload map[string]any) uint {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, payload)
	if status != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d (%v)", status, body)
	}
	id, _ := body["id"].(float64)
	if id == 0 {
		t.Fatalf("create post: no id in response")
	}
	return uint(id)
}
