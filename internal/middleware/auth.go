package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/utils"
)

// SessionCookieName is the httpOnly cookie carrying the session token.
const SessionCookieName = "token"

// AccountResolver loads the account identified by a token subject.
type AccountResolver interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
}

// Protect returns a middleware that validates the session token and resolves
// it to an account. The token is read from the `token` cookie first, with an
// `Authorization: Bearer` header fallback for non-browser clients.
func Protect(secret string, accounts AccountResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "not authorized, no token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "not authorized, token failed")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID := extractUserIDFromClaims(claims)
		if userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		user, err := accounts.GetByID(c.Context(), *userID)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "not authorized")
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))

		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := strings.TrimSpace(c.Cookies(SessionCookieName)); cookie != "" {
		return cookie
	}

	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if len(authorization) > len(bearer) && strings.EqualFold(authorization[:len(bearer)], bearer) {
		return strings.TrimSpace(authorization[len(bearer):])
	}

	return ""
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}
