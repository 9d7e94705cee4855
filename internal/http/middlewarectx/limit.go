package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/http/request"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/ratelimit"
)

// Limiter решает, пропускать ли запрос клиента.
type Limiter interface {
	Allow(ctx context.Context, clientKey string, bucket ratelimit.Bucket) (bool, error)
	Message(bucket ratelimit.Bucket) string
}

// RateLimitCounter учитывает отклонённые запросы.
type RateLimitCounter interface {
	RateLimited(bucket string)
}

// RateLimitMiddleware ограничивает частоту запросов клиента в группе bucket.
// Клиент определяется по IP. Превышение лимита даёт 429, а обработчик не вызывается.
// При недоступности хранилища счётчиков запрос пропускается.
func RateLimitMiddleware(log *slog.Logger, limiter Limiter, bucket ratelimit.Bucket, counter RateLimitCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RateLimitMiddleware"

			ip := request.ClientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip, bucket)
			if err != nil {
				log.Warn("rate limiter unavailable, request allowed",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("bucket", string(bucket)),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Warn("too many requests",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("bucket", string(bucket)),
					slog.String("ip", ip),
				)
				if counter != nil {
					counter.RateLimited(string(bucket))
				}
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(limiter.Message(bucket)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
