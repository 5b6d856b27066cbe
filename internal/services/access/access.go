// Package access содержит сервис проверки доступа: загрузку состояния
// пользователя из хранилища с кешированием и вызов резолвера для маршрутов
// и произвольных требований.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/insuracademy/entitlement-engine/internal/entitlement"
	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

// ErrStateUnavailable означает, что состояние пользователя не удалось
// загрузить. Это не решение об отказе: гард обязан показать ошибку
// с повтором, а не передавать в резолвер неполные данные.
var ErrStateUnavailable = errors.New("user state unavailable")

// ErrUnknownRoute означает, что маршрут не объявлен в таблице маршрутов.
var ErrUnknownRoute = errors.New("unknown route")

// userStateTTL — время жизни кешированного состояния пользователя.
const userStateTTL = 5 * time.Minute

// StateRepository определяет методы чтения состояния пользователя из хранилища.
type StateRepository interface {
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUserRoles возвращает роли пользователя.
	ListUserRoles(ctx context.Context, userUID string) ([]string, error)
	// GetSubscription возвращает запись о подписке пользователя.
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// cachedState — снимок состояния пользователя в кеше.
type cachedState struct {
	IsActive     bool                 `json:"is_active"`
	Roles        []string             `json:"roles"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

// Service реализует загрузку состояния пользователя и проверки доступа.
type Service struct {
	repo   StateRepository
	cache  Cache
	routes map[string][]models.Requirement
	log    *slog.Logger
}

// New создает новый экземпляр Service со статической таблицей маршрутов.
func New(repo StateRepository, cache Cache, routes map[string][]models.Requirement, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		routes: routes,
		log:    log,
	}
}

// StateCacheKey возвращает ключ кеша состояния пользователя.
func StateCacheKey(userUID string) string {
	return fmt.Sprintf("userstate:%s", userUID)
}

// LoadUserState загружает состояние пользователя: роли и подписку.
// Пустой uid означает анонимного посетителя. Любой сбой загрузки
// возвращается как ErrStateUnavailable — доступ закрывается,
// частичное состояние в резолвер не попадает.
func (s *Service) LoadUserState(ctx context.Context, userUID string) (models.UserState, error) {
	const op = "access.LoadUserState"

	if userUID == "" {
		return models.UserState{}, nil
	}

	cacheKey := StateCacheKey(userUID)
	var cached cachedState
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		// Сбой кеша не фатален, идем в хранилище.
		s.log.Warn("failed to read user state from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return models.UserState{
			IsAuthenticated: true,
			IsActive:        cached.IsActive,
			Roles:           cached.Roles,
			Subscription:    cached.Subscription,
		}, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return models.UserState{}, fmt.Errorf("%s: %w: %w", op, ErrStateUnavailable, err)
	}

	roles, err := s.repo.ListUserRoles(ctx, userUID)
	if err != nil {
		return models.UserState{}, fmt.Errorf("%s: %w: %w", op, ErrStateUnavailable, err)
	}

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil {
		if !errors.Is(err, repository.ErrSubscriptionNotFound) {
			return models.UserState{}, fmt.Errorf("%s: %w: %w", op, ErrStateUnavailable, err)
		}
		sub = nil
	}

	state := models.UserState{
		IsAuthenticated: true,
		IsActive:        user.IsActive,
		Roles:           roles,
		Subscription:    sub,
	}

	snapshot := cachedState{
		IsActive:     state.IsActive,
		Roles:        state.Roles,
		Subscription: state.Subscription,
	}
	if err := s.cache.Set(ctx, cacheKey, snapshot, userStateTTL); err != nil {
		s.log.Warn("failed to cache user state", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return state, nil
}

// CheckRequirements применяет резолвер к состоянию пользователя и набору
// требований, учитывая решение в метриках.
func (s *Service) CheckRequirements(_ context.Context, state models.UserState, requirements ...models.Requirement) models.Decision {
	decision := entitlement.Resolve(time.Now(), state, requirements...)
	entitlement.ObserveDecision(decision)
	return decision
}

// CheckRoute применяет требования объявленного маршрута к состоянию
// пользователя. Необъявленный маршрут — ошибка, а не отказ.
func (s *Service) CheckRoute(ctx context.Context, state models.UserState, routeName string) (models.Decision, error) {
	const op = "access.CheckRoute"

	requirements, ok := s.routes[routeName]
	if !ok {
		return models.Decision{}, fmt.Errorf("%s: %w", op, ErrUnknownRoute)
	}
	return s.CheckRequirements(ctx, state, requirements...), nil
}

// InvalidateUserState сбрасывает кешированное состояние пользователя.
// Вызывается после смены ролей и обновлений подписки из биллинга.
func (s *Service) InvalidateUserState(ctx context.Context, userUID string) error {
	return s.cache.Invalidate(ctx, StateCacheKey(userUID))
}
