package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"minilms/backend/config"
	"minilms/backend/routes"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHealthEndpoint(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:routes_health?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, &config.Config{JWTSecret: "testsecret"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

// Every protected route rejects anonymous requests outright.
func TestProtectedRoutesRequireToken(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:routes_auth?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, &config.Config{JWTSecret: "testsecret"})

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/auth/verify"},
		{http.MethodPost, "/api/courses"},
		{http.MethodGet, "/api/courses"},
		{http.MethodGet, "/api/courses/my-courses"},
		{http.MethodGet, "/api/courses/1"},
		{http.MethodPost, "/api/courses/1/enroll"},
		{http.MethodPost, "/api/lessons"},
		{http.MethodGet, "/api/lessons/1"},
		{http.MethodPost, "/api/lessons/1/complete"},
		{http.MethodPost, "/api/assignments"},
		{http.MethodPut, "/api/submissions/1/grade"},
	}
	for _, route := range protected {
		resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
		resp.Body.Close()
	}
}
