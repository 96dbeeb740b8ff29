package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/middleware"
	"github.com/simplylearn/api/internal/service"
	"github.com/simplylearn/api/internal/utils"
)

// AuthHandler manages registration, email verification, and session
// endpoints. Session tokens are delivered both as an httpOnly cookie and in
// the response body.
type AuthHandler struct {
	service      service.AuthService
	cookieTTL    time.Duration
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, cookieTTL time.Duration, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated routes.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/verify-email", h.verifyEmail)
	router.Post("/resend-otp", h.resendOTP)
	router.Post("/login", h.login)
}

// RegisterProtected attaches the routes requiring a session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.profile)
	router.Put("/me", h.updateProfile)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered, check your email for the verification code", user)
}

func (h *AuthHandler) verifyEmail(c *fiber.Ctx) error {
	var payload dto.VerifyEmailRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.VerifyEmail(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setSessionCookie(c, auth.Token)

	return utils.SendSuccess(c, "email verified", auth)
}

func (h *AuthHandler) resendOTP(c *fiber.Ctx) error {
	var payload dto.ResendOTPRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResendOTP(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification code sent", nil)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setSessionCookie(c, auth.Token)

	return utils.SendSuccess(c, "logged in", auth)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.service.Profile(c.Context(), user.ID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.UpdateProfile(c.Context(), user.ID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	// Email or password changes rotate the token, so refresh the cookie too.
	h.setSessionCookie(c, auth.Token)

	return utils.SendSuccess(c, "profile updated", auth)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var locked *service.AccountLockedError
	switch {
	case errors.As(err, &locked):
		return utils.SendError(c, fiber.StatusForbidden, locked.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrInvalidEmail):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid email format")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrNotVerified):
		return utils.SendError(c, fiber.StatusForbidden, "please verify your email before logging in")
	case errors.Is(err, service.ErrInvalidOTP):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid verification code")
	case errors.Is(err, service.ErrOTPExpired):
		return utils.SendError(c, fiber.StatusBadRequest, "verification code has expired")
	case errors.Is(err, service.ErrAlreadyVerified):
		return utils.SendError(c, fiber.StatusConflict, "email is already verified")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
