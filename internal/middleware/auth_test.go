package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/auth"
)

func invoke(t *testing.T, authorization string, next echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	jwtService := auth.NewJWTService("test-secret")
	return RequireAuth(jwtService)(next)(c)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Basic abc123"} {
		t.Run("header "+header, func(t *testing.T) {
			err := invoke(t, header, func(c echo.Context) error {
				t.Fatal("next handler must not run")
				return nil
			})

			var herr *echo.HTTPError
			require.ErrorAs(t, err, &herr)
			assert.Equal(t, http.StatusUnauthorized, herr.Code)
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	badTokens := []string{
		"Bearer garbage",
		// signed with a different secret
		"Bearer " + mustToken(t, "other-secret"),
	}

	for _, header := range badTokens {
		err := invoke(t, header, func(c echo.Context) error {
			t.Fatal("next handler must not run")
			return nil
		})

		var herr *echo.HTTPError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, http.StatusForbidden, herr.Code)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	called := false
	err := invoke(t, "Bearer "+mustToken(t, "test-secret"), func(c echo.Context) error {
		called = true
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "a@x.com", claims.Email)
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.NewJWTService(secret).GenerateToken(uuid.New(), "alice", "a@x.com")
	require.NoError(t, err)
	return token
}
