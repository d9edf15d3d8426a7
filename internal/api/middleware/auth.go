package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

const (
	// UserIDKey is the echo context key holding the authenticated user id.
	UserIDKey = "user_id"
	// TokenCookie is the cookie that carries the token for browser clients.
	TokenCookie = "token"
)

// OptionalAuth resolves the caller when the request carries a credential.
// Requests without one, or with an invalid one, continue anonymously. A caller
// already resolved earlier in the chain is not authenticated twice.
func OptionalAuth(gate ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) != "" {
				return next(c)
			}
			if token := TokenFromRequest(c); token != "" {
				if userID, err := gate.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(UserIDKey, userID)
				}
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests OptionalAuth could not attach a caller to.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// Auth is OptionalAuth followed by RequireAuth.
func Auth(gate ports.Authenticator) echo.MiddlewareFunc {
	optional, required := OptionalAuth(gate), RequireAuth()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return optional(required(next))
	}
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

// TokenFromRequest reads the bearer token from the Authorization header,
// falling back to the token cookie.
func TokenFromRequest(c echo.Context) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
