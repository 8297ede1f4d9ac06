package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	authRoutes "lms/routers/authRoutes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var authDBCounter int64

func setupAuthTest(t *testing.T) (*gorm.DB, *fiber.App) {
	t.Helper()

	config.LoadConfig()

	n := atomic.AddInt64(&authDBCounter, 1)
	dsn := fmt.Sprintf("file:authdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return db, app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	envelope := make(map[string]interface{})
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return resp, envelope
}

func TestSignupAndLogin(t *testing.T) {
	_, app := setupAuthTest(t)

	resp, envelope := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "STUDENT", data["role"])
	assert.NotContains(t, data, "password")

	resp, envelope = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, app := setupAuthTest(t)

	body := fiber.Map{"name": "Jane Doe", "email": "jane@example.com", "password": "supersecret"}

	resp, _ := postJSON(t, app, "/auth/signup", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/auth/signup", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errObj := envelope["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errObj["code"])
}

func TestLoginWrongPassword(t *testing.T) {
	_, app := setupAuthTest(t)

	resp, _ := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Jane Doe", "email": "jane@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "jane@example.com", "password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errObj := envelope["error"].(map[string]interface{})
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestSignupValidation(t *testing.T) {
	_, app := setupAuthTest(t)

	resp, envelope := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "J", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := envelope["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}
