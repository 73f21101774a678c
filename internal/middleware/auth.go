package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
)

// identityKey is the echo context key the verified claims are stored under.
const identityKey = "identity"

// RequireAuth verifies the bearer token on protected routes and attaches the
// decoded identity to the request context. A missing token is a 401; a token
// that fails verification is a 403. No store lookup happens here: the claims
// are trusted for the token's lifetime.
func RequireAuth(jwt *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := bearerToken(header)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: "Access token required",
				})
			}

			claims, err := jwt.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Message: "Invalid or expired token",
				})
			}

			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the authenticated identity attached by RequireAuth.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(identityKey).(*auth.Claims)
	return claims, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
