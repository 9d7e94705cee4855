package farm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/farm-manager/internal/activity"
	"github.com/magabrotheeeer/farm-manager/internal/cache"
	"github.com/magabrotheeeer/farm-manager/internal/config"
	"github.com/magabrotheeeer/farm-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/farm-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/farm-manager/internal/lib/sl"
	"github.com/magabrotheeeer/farm-manager/internal/metrics"
	"github.com/magabrotheeeer/farm-manager/internal/ratelimit"
	authservice "github.com/magabrotheeeer/farm-manager/internal/services/auth"
	financeservice "github.com/magabrotheeeer/farm-manager/internal/services/finance"
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	trustedProxies, err := middlewarectx.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	db, err := storage.New(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	var (
		store      ratelimit.Store
		cacheRedis *cache.Cache
	)
	switch cfg.Backend {
	case config.RateLimitRedis:
		cacheRedis, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		store = ratelimit.NewRedisStore(cacheRedis)
	default:
		store = ratelimit.NewMemoryStore(time.Now)
	}
	limiter := ratelimit.New(store, cfg.Window, ratelimit.DefaultRules(cfg.AuthMax, cfg.GeneralMax))

	activityLog := activity.New(cfg.ActivityCapacity)
	m := metrics.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, activityLog, m)
	financeService := financeservice.NewFinanceService(db, logger)

	seeded, err := authService.EnsureDefaultUsers(ctx)
	if err != nil {
		logger.Error("failed to create default users", sl.Err(err))
	} else if seeded {
		logger.Info("empty database, default users created")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, financeService, limiter, activityLog, m, cfg.AllowedOrigins, trustedProxies)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
}
