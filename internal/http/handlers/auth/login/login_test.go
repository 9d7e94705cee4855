package login

import (
	"bytes"
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
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/farm-manager/internal/activity"
	"github.com/magabrotheeeer/farm-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/farm-manager/internal/lib/password"
	"github.com/magabrotheeeer/farm-manager/internal/models"
	authservice "github.com/magabrotheeeer/farm-manager/internal/services/auth"
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (*authservice.LoginResult, error) {
	args := m.Called(ctx, username, password)
	resp, _ := args.Get(0).(*authservice.LoginResult)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, h http.Handler, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(body)))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return rec.Code, got
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockUser       string
		mockPass       string
		mockResp       *authservice.LoginResult
		mockErr        error
		wantStatusCode int
		wantBody       map[string]any
		wantError      string
	}{
		{
			name:     "valid login",
			body:     `{"username":" admin ","password":"adminpass"}`,
			mockUser: "admin",
			mockPass: "adminpass",
			mockResp: &authservice.LoginResult{
				User:  &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin},
				TwoFA: true,
				Token: "tok",
			},
			wantStatusCode: http.StatusOK,
			wantBody: map[string]any{
				"id":       float64(1),
				"username": "admin",
				"role":     "admin",
				"twoFA":    true,
				"token":    "tok",
			},
		},
		{
			name:           "wrong credentials",
			body:           `{"username":"admin","password":"bad"}`,
			mockUser:       "admin",
			mockPass:       "bad",
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      MsgInvalidCredentials,
		},
		{
			name:           "service failure",
			body:           `{"username":"admin","password":"adminpass"}`,
			mockUser:       "admin",
			mockPass:       "adminpass",
			mockErr:        errors.New("db closed"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "Internal server error",
		},
		{
			name:           "malformed json",
			body:           `{username}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Malformed JSON data. Please check your request format.",
		},
		{
			name:           "empty body",
			body:           ``,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Empty request body",
		},
		{
			name:           "missing password",
			body:           `{"username":"admin"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.mockUser != "" {
				svc.On("Login", mock.Anything, tt.mockUser, tt.mockPass).Return(tt.mockResp, tt.mockErr).Once()
			}

			code, got := doRequest(t, New(newNoopLogger(), svc), tt.body)

			assert.Equal(t, tt.wantStatusCode, code)
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, tt.wantBody, got)
			}
			svc.AssertExpectations(t)
		})
	}
}

// Неизвестный пользователь и неверный пароль неразличимы для клиента.
func TestLoginHandler_UnknownUserAndWrongPasswordMatch(t *testing.T) {
	db, err := storage.New("file:login_handler?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hash, err := password.Hasher{Cost: bcrypt.MinCost}.Hash("adminpass")
	require.NoError(t, err)
	_, err = db.CreateUser(context.Background(), models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin})
	require.NoError(t, err)

	log := activity.New(10)
	svc := authservice.NewAuthService(db, jwt.NewJWTMaker("secret", 0), log, nil)
	h := New(newNoopLogger(), svc)

	codeUnknown, bodyUnknown := doRequest(t, h, `{"username":"nobody","password":"adminpass"}`)
	codeWrong, bodyWrong := doRequest(t, h, `{"username":"admin","password":"wrongpass"}`)

	assert.Equal(t, http.StatusUnauthorized, codeUnknown)
	assert.Equal(t, codeUnknown, codeWrong)
	assert.Equal(t, bodyUnknown, bodyWrong)

	recent := log.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, models.LoginFail, recent[0].Status)
	assert.Equal(t, models.LoginFail, recent[1].Status)

	code, body := doRequest(t, h, `{"username":"admin","password":"adminpass"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, models.LoginSuccess, log.Recent()[0].Status)
}
