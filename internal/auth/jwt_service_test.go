package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "alice", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New(), "alice", "a@x.com")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	secret := []byte("test-secret")
	claims := &Claims{
		UserID:   uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTService("test-secret").ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
