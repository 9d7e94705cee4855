package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 0)

	tests := []struct {
		name     string
		id       int64
		username string
		role     string
	}{
		{name: "admin user", id: 1, username: "admin", role: "admin"},
		{name: "regular user", id: 2, username: "user1", role: "user"},
		{name: "user with email username", id: 42, username: "farmer@domain.com", role: "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.id, tt.username, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.id, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.NotEmpty(t, claims.RegisteredClaims.ID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ExpiryIsExactly24Hours(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewJWTMaker("secret", DefaultTTL, WithClock(fixedClock(issued)))

	token, err := issuer.GenerateToken(7, "user1", "user")
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	beforeExpiry := NewJWTMaker("secret", DefaultTTL, WithClock(fixedClock(issued.Add(DefaultTTL-time.Second))))
	_, err = beforeExpiry.ParseToken(token)
	assert.NoError(t, err)

	atExpiry := NewJWTMaker("secret", DefaultTTL, WithClock(fixedClock(issued.Add(DefaultTTL))))
	_, err = atExpiry.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	afterExpiry := NewJWTMaker("secret", DefaultTTL, WithClock(fixedClock(issued.Add(DefaultTTL+time.Minute))))
	_, err = afterExpiry.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, DefaultTTL)

	validToken, err := maker.GenerateToken(1, "testuser", "user")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createExpiredToken(t, secretKey)},
		{name: "wrong secret key", token: createTokenWithWrongSecret(t)},
		{name: "tampered signature", token: validToken + "tampered"},
		{name: "tampered payload", token: tamperPayload(t, validToken)},
		{name: "unsigned token", token: createUnsignedToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", DefaultTTL)
	maker2 := NewJWTMaker("different_secret_key", DefaultTTL)

	token, err := maker1.GenerateToken(1, "testuser", "admin")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestJWTMaker_UniqueTokenIDs(t *testing.T) {
	maker := NewJWTMaker("secret", DefaultTTL)

	first, err := maker.GenerateToken(1, "admin", "admin")
	require.NoError(t, err)
	second, err := maker.GenerateToken(1, "admin", "admin")
	require.NoError(t, err)

	c1, err := maker.ParseToken(first)
	require.NoError(t, err)
	c2, err := maker.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.RegisteredClaims.ID, c2.RegisteredClaims.ID)
}

func createExpiredToken(t *testing.T, secretKey string) string {
	t.Helper()
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.GenerateToken(1, "testuser", "user")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	t.Helper()
	wrongMaker := NewJWTMaker("wrong_secret_key", DefaultTTL)
	token, err := wrongMaker.GenerateToken(1, "testuser", "user")
	require.NoError(t, err)
	return token
}

// tamperPayload подменяет payload, сохраняя исходную подпись.
func tamperPayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	forged := NewJWTMaker("other", DefaultTTL)
	forgedToken, err := forged.GenerateToken(1, "testuser", "admin")
	require.NoError(t, err)
	forgedParts := strings.Split(forgedToken, ".")

	return parts[0] + "." + forgedParts[1] + "." + parts[2]
}

func createUnsignedToken(t *testing.T) string {
	t.Helper()
	claims := CustomClaims{
		UserID:   1,
		Username: "testuser",
		Role:     "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}
