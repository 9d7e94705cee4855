// Package middlewarectx содержит HTTP middleware сервиса: проверку JWT,
// ограничение частоты запросов, перехват паник и заголовки безопасности.
//
// JWTMiddleware проверяет токен из заголовка Authorization и в случае успеха
// добавляет в контекст ID, имя и роль пользователя.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для ID пользователя в контексте
	UserID Key = "user_id"
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// Сообщения об ошибках аутентификации.
const (
	MsgTokenRequired = "Access token required"
	MsgTokenInvalid  = "Invalid or expired token"
)

// tokenLogPrefix — сколько символов токена попадает в лог.
const tokenLogPrefix = 10

// TokenValidator описывает проверку JWT токена.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Отсутствующий токен даёт 401, недействительный или просроченный — 403.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				log.Info("access token missing", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(MsgTokenRequired))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				log.Warn("invalid token attempt",
					slog.String("ip", request.ClientIP(r)),
					slog.String("token_prefix", prefix(token, tokenLogPrefix)),
					sl.Err(err),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(MsgTokenInvalid))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			ctx = context.WithValue(ctx, User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken берёт второе слово заголовка, как делают большинство клиентов "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// UsernameFromContext возвращает имя пользователя, установленное JWTMiddleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(User).(string)
	return v, ok && v != ""
}

// RoleFromContext возвращает роль пользователя, установленную JWTMiddleware.
func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(Role).(string)
	return v, ok && v != ""
}
