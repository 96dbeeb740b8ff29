package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/config"
	"github.com/simplylearn/api/internal/handler"
	"github.com/simplylearn/api/internal/middleware"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
	"github.com/simplylearn/api/internal/router"
	"github.com/simplylearn/api/internal/service"
	"github.com/simplylearn/api/pkg/mail"
)

type capturingMailer struct {
	messages []mail.Message
}

func (m *capturingMailer) Send(_ context.Context, msg mail.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func setupAuthApp(t *testing.T, dsn string) (*fiber.App, *capturingMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	mailer := &capturingMailer{}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, mailer, validate, service.AuthConfig{
		JWTSecret:        "integration-secret",
		TokenTTL:         time.Hour,
		OTPTTL:           10 * time.Minute,
		LockoutThreshold: 3,
		LockoutWindow:    5 * time.Minute,
		AppName:          "SimplyLearn Test",
	}, logger)

	authHandler := handler.NewAuthHandler(authService, time.Hour, false, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "integration-secret", UploadDir: t.TempDir()}, router.Dependencies{
		AuthHandler: authHandler,
		Protect:     middleware.Protect("integration-secret", userRepo),
	})

	return app, mailer
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, decorate func(*http.Request)) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		decorate(req)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestAuthEndpointsFullFlow(t *testing.T) {
	app, mailer := setupAuthApp(t, "file:authflow?mode=memory&cache=shared")

	resp := postJSON(t, app, "/api/v1/auth/register", fiber.Map{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse",
		"role":     "Tutor",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, mailer.messages, 1)

	// Pull the code straight out of the captured verification mail.
	otp := regexp.MustCompile(`\d{6}`).FindString(mailer.messages[0].TextBody)
	require.NotEmpty(t, otp)

	// Login is refused until the email is verified.
	resp = postJSON(t, app, "/api/v1/auth/login", fiber.Map{
		"email":    "ada@example.com",
		"password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/auth/verify-email", fiber.Map{
		"email": "ada@example.com",
		"otp":   otp,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verifiedCookie := sessionCookie(resp)
	require.NotNil(t, verifiedCookie)
	require.True(t, verifiedCookie.HttpOnly)
	require.NotEmpty(t, verifiedCookie.Value)

	resp = postJSON(t, app, "/api/v1/auth/login", fiber.Map{
		"email":    "ada@example.com",
		"password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginCookie := sessionCookie(resp)
	require.NotNil(t, loginCookie)

	// The cookie alone authenticates /me; no Authorization header needed.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(loginCookie)
	meResp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.Equal(t, "ada@example.com", envelope.Data.Email)
	require.Equal(t, "Tutor", envelope.Data.Role)

	// Bearer fallback works too.
	var loginEnvelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	resp = postJSON(t, app, "/api/v1/auth/login", fiber.Map{
		"email":    "ada@example.com",
		"password": "correct-horse",
	}, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginEnvelope))
	require.NotEmpty(t, loginEnvelope.Data.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginEnvelope.Data.Token)
	bearerResp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, bearerResp.StatusCode)

	// Logout clears the cookie.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(loginCookie)
	logoutResp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)
	cleared := sessionCookie(logoutResp)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)

	// Without a token the protected route refuses.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	anonResp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, anonResp.StatusCode)
}

func TestAuthEndpointsLockoutResponses(t *testing.T) {
	app, mailer := setupAuthApp(t, "file:authlock?mode=memory&cache=shared")

	resp := postJSON(t, app, "/api/v1/auth/register", fiber.Map{
		"name":     "Grace",
		"email":    "grace@example.com",
		"password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, mailer.messages, 1)

	for i := 0; i < 3; i++ {
		resp = postJSON(t, app, "/api/v1/auth/login", fiber.Map{
			"email":    "grace@example.com",
			"password": "wrong",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// Locked: even the right password is rejected with a lockout message.
	resp = postJSON(t, app, "/api/v1/auth/login", fiber.Map{
		"email":    "grace@example.com",
		"password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.Success)
	require.Contains(t, envelope.Message, "locked")
}
