// Package farm собирает HTTP-приложение фермерского учёта: маршруты, middleware и сервер.
package farm

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/activity"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/admin/reset"
	activityhandler "github.com/magabrotheeeer/farm-manager/internal/http/handlers/auth/activity"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/auth/twofa"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance/catalog"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance/expenses"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance/income"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance/projects"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/finance/reports"
	"github.com/magabrotheeeer/farm-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/farm-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/farm-manager/internal/http/response"
	"github.com/magabrotheeeer/farm-manager/internal/metrics"
	"github.com/magabrotheeeer/farm-manager/internal/ratelimit"
	authservice "github.com/magabrotheeeer/farm-manager/internal/services/auth"
	financeservice "github.com/magabrotheeeer/farm-manager/internal/services/finance"
)

// Сообщения для неизвестных маршрутов и методов.
const (
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.AuthService,
	financeService *financeservice.FinanceService,
	limiter *ratelimit.Limiter,
	activityLog *activity.Log,
	m *metrics.Metrics,
	allowedOrigins []string,
	trustedProxies []netip.Prefix,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middlewarectx.RealIP(trustedProxies),
		middleware.Logger,
		middlewarectx.Recoverer(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}),
		middlewarectx.SecureHeaders,
		m.Middleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(MsgNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error(MsgMethodNotAllowed))
	})

	authLimit := middlewarectx.RateLimitMiddleware(logger, limiter, ratelimit.BucketAuth, m)
	generalLimit := middlewarectx.RateLimitMiddleware(logger, limiter, ratelimit.BucketGeneral, m)

	r.Route("/api", func(r chi.Router) {
		// Вход и регистрация ограничены только строгим лимитом
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/signup", signup.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(generalLimit)

			// Открытые конечные точки
			twoFA := twofa.New(logger, authService)
			r.Post("/2fa/setup", twoFA.Setup)
			r.Post("/2fa/verify", twoFA.Verify)
			r.Get("/login-activity", activityhandler.New(logger, activityLog).ServeHTTP)
			r.Get("/health", health.New().ServeHTTP)
			r.Post("/reset", reset.New(logger, authService).ServeHTTP)

			// Группа с JWT аутентификацией
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(authService, logger))

				incomeHandler := income.New(logger, financeService)
				r.Get("/income", incomeHandler.List)
				r.Post("/income", incomeHandler.Create)

				expensesHandler := expenses.New(logger, financeService)
				r.Get("/expenses", expensesHandler.List)
				r.Post("/expenses", expensesHandler.Create)

				projectsHandler := projects.New(logger, financeService)
				r.Get("/projects", projectsHandler.List)
				r.Post("/projects", projectsHandler.Create)

				catalogHandler := catalog.New(logger, financeService)
				r.Get("/crops", catalogHandler.Crops)
				r.Get("/inventory", catalogHandler.Inventory)

				reportsHandler := reports.New(logger, financeService)
				r.Get("/summary", reportsHandler.Summary)
				r.Get("/revenue-by-crop", reportsHandler.RevenueByCrop)
				r.Get("/monthly-financials", reportsHandler.MonthlyFinancials)
			})
		})
	})

	r.Handle("/metrics", m.Handler())
}
