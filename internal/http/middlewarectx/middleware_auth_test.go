package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/farm-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/farm-manager/internal/lib/jwt"
)

// Mock for TokenValidator
type ValidatorMock struct {
	mock.Mock
}

func (m *ValidatorMock) ValidateToken(token string) (*jwt.CustomClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Error", body.Status)
	return body.Error
}

func TestJWTMiddleware(t *testing.T) {
	validClaims := &jwt.CustomClaims{UserID: 5, Username: "testuser", Role: "user"}

	tests := []struct {
		name           string
		authHeader     string
		token          string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    middlewarectx.MsgTokenRequired,
		},
		{
			name:           "scheme without token",
			authHeader:     "Bearer",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    middlewarectx.MsgTokenRequired,
		},
		{
			name:           "token rejected",
			authHeader:     "Bearer expired.token.value",
			token:          "expired.token.value",
			mockErr:        jwt.ErrInvalidToken,
			wantStatusCode: http.StatusForbidden,
			wantMessage:    middlewarectx.MsgTokenInvalid,
		},
		{
			name:           "other scheme is checked as a token",
			authHeader:     "Basic c29tZXRva2Vu",
			token:          "c29tZXRva2Vu",
			mockErr:        errors.New("token is malformed"),
			wantStatusCode: http.StatusForbidden,
			wantMessage:    middlewarectx.MsgTokenInvalid,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			token:          "validtoken",
			mockClaims:     validClaims,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(ValidatorMock)
			if tt.token != "" {
				validator.On("ValidateToken", tt.token).Return(tt.mockClaims, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				username, ok := middlewarectx.UsernameFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "testuser", username)
				role, _ := middlewarectx.RoleFromContext(r.Context())
				assert.Equal(t, "user", role)
				assert.Equal(t, int64(5), r.Context().Value(middlewarectx.UserID))
				w.WriteHeader(http.StatusOK)
			})
			h := middlewarectx.JWTMiddleware(validator, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/income", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id"))
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, decodeError(t, rec))
			}
			validator.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_LogsOnlyTokenPrefix(t *testing.T) {
	var buf safeBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

	validator := new(ValidatorMock)
	secret := "abcdefghijKLMNOPQRSTUVWXYZ"
	validator.On("ValidateToken", secret).Return(nil, jwt.ErrInvalidToken).Once()

	h := middlewarectx.JWTMiddleware(validator, logger)(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Authorization", "Bearer "+secret)
	req.RemoteAddr = "198.51.100.7:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"token_prefix":"abcdefghij"`)
	assert.Contains(t, out, `"ip":"198.51.100.7"`)
	assert.NotContains(t, out, secret)
}
