package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ignitron2k25/ignitron-api/internal/handler"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
	"github.com/ignitron2k25/ignitron-api/internal/service"
)

func newAuthTestApp(t *testing.T) (*fiber.App, service.AuthService) {
	t.Helper()

	db := setupHandlerDB(t, &models.User{})
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewAuthService(repository.NewUserRepository(db), validate, "test-secret", time.Hour, zerolog.Nop())
	h := handler.NewAuthHandler(svc, zerolog.Nop())

	app := fiber.New()
	auth := app.Group("/api/auth")
	h.RegisterPublic(auth)
	adminID := uuid.NewString()
	h.RegisterAdmin(auth.Group("", fakeAuth(adminID, models.RoleAdmin)))
	h.RegisterProtected(auth.Group("", fakeAuth(adminID, models.RoleAdmin)))

	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthHandlerRegisterAndLogin(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]interface{}{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "festival-2025",
		"role":     models.RoleCoordinator,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "festival-2025",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp := postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	app, _ := newAuthTestApp(t)

	payload := map[string]interface{}{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "festival-2025",
	}
	resp := postJSON(t, app, "/api/auth/register", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/register", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerRegisterInvalidRole(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]interface{}{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "festival-2025",
		"role":     "superuser",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
