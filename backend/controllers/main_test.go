package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"minilms/backend/config"
	"minilms/backend/routes"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp builds a Fiber app wired to a fresh in-memory sqlite database.
// Each test gets its own database, keyed by the test name.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive for the
	// whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, utils.Migrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app, db
}

// doRequest performs a JSON request against the test app and decodes the
// response body.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return resp.StatusCode, result
}

// registerUser registers a user and returns its id and token.
func registerUser(t *testing.T, app *fiber.App, email, password, fullName, role string) (uint, string) {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"role":      role,
	})
	require.Equal(t, fiber.StatusCreated, status)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	return uint(user["id"].(float64)), token
}

// createCourse creates a course as the given instructor and returns its id.
func createCourse(t *testing.T, app *fiber.App, token, title, description string) uint {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/courses", token, map[string]string{
		"title":       title,
		"description": description,
	})
	require.Equal(t, fiber.StatusCreated, status)
	course := body["course"].(map[string]interface{})
	return uint(course["id"].(float64))
}

// createLesson creates a lesson in the given course and returns its id.
func createLesson(t *testing.T, app *fiber.App, token string, courseID uint, title string, orderIndex int) uint {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/lessons", token, map[string]interface{}{
		"course_id":   courseID,
		"title":       title,
		"content":     "Lesson content for " + title,
		"order_index": orderIndex,
	})
	require.Equal(t, fiber.StatusCreated, status)
	lesson := body["lesson"].(map[string]interface{})
	return uint(lesson["id"].(float64))
}
