package entitlementengine

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/insuracademy/entitlement-engine/internal/cache"
	"github.com/insuracademy/entitlement-engine/internal/config"
	"github.com/insuracademy/entitlement-engine/internal/lib/jwt"
	"github.com/insuracademy/entitlement-engine/internal/migrations"
	accessservice "github.com/insuracademy/entitlement-engine/internal/services/access"
	authservice "github.com/insuracademy/entitlement-engine/internal/services/auth"
	contentservice "github.com/insuracademy/entitlement-engine/internal/services/content"
	rolesservice "github.com/insuracademy/entitlement-engine/internal/services/roles"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

// App — собранное HTTP-приложение движка доступа.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New подключает хранилище и кеш, применяет миграции, собирает сервисы
// и маршруты и возвращает готовое приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	accessService := accessservice.New(db, cacheRedis, DefaultRouteRules(), logger)
	authService := authservice.New(db, jwtMaker)
	contentService := contentservice.New(db, accessService, logger)
	rolesService := rolesservice.New(db, accessService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, accessService, authService, contentService, rolesService)

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

// Run запускает HTTP сервер и корректно останавливает его при отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
