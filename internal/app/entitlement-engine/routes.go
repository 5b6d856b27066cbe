// Package entitlementengine собирает HTTP-приложение движка доступа:
// маршруты, middleware и зависимости сервисного слоя.
package entitlementengine

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/insuracademy/entitlement-engine/internal/http/handlers/access/check"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/access/route"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/auth/login"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/auth/register"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/content/readlesson"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/content/readpost"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/health"
	"github.com/insuracademy/entitlement-engine/internal/http/handlers/roles/assign"
	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/lib/jwt"
	"github.com/insuracademy/entitlement-engine/internal/models"
	accessservice "github.com/insuracademy/entitlement-engine/internal/services/access"
	authservice "github.com/insuracademy/entitlement-engine/internal/services/auth"
	contentservice "github.com/insuracademy/entitlement-engine/internal/services/content"
	rolesservice "github.com/insuracademy/entitlement-engine/internal/services/roles"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

// DefaultRouteRules возвращает статическую таблицу маршрутов платформы.
// Требования маршрута комбинируются через логическое И.
func DefaultRouteRules() map[string][]models.Requirement {
	return map[string][]models.Requirement{
		"home": {
			{Kind: models.RequirePublic},
		},
		"dashboard": {
			{Kind: models.RequireAuthenticated},
		},
		"library": {
			{Kind: models.RequireSubscription},
		},
		"webinars": {
			{Kind: models.RequireTier, MinTier: "core", Vocab: models.VocabSubscription},
		},
		"analytics": {
			{Kind: models.RequireTier, MinTier: "enhanced", Vocab: models.VocabSubscription},
			{Kind: models.RequireRole, Roles: []string{models.RoleAnalyst, models.RoleBusinessLeader}},
		},
		"authoring": {
			{Kind: models.RequireRole, Roles: []string{
				models.RoleAuthor, models.RoleInstructionalDesigner, models.RoleFacilitator,
			}},
		},
		"admin": {
			{Kind: models.RequireRole, Roles: []string{models.RoleAdmin}},
		},
	}
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	db *repository.Storage,
	jwtMaker jwt.Maker,
	accessService *accessservice.Service,
	authService *authservice.Service,
	contentService *contentservice.Service,
	rolesService *rolesservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с мягкой сессией: аноним допускается, решает резолвер
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/access/routes/{name}", route.New(logger, accessService).ServeHTTP)
			r.Post("/access/check", check.New(logger, accessService).ServeHTTP)
			r.Get("/content/posts/{id}", readpost.New(logger, accessService, contentService).ServeHTTP)
			r.Get("/content/lessons/{id}", readlesson.New(logger, accessService, contentService).ServeHTTP)
		})

		// Группа со строгой JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Post("/users/{uid}/role", assign.New(logger, accessService, rolesService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
