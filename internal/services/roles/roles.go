// Package roles содержит бизнес-логику назначения ролей администратором.
// Назначение роли замещает существующий набор ролей пользователя,
// а не дополняет его.
package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/insuracademy/entitlement-engine/internal/entitlement"
	"github.com/insuracademy/entitlement-engine/internal/models"
)

// ErrNotAllowed означает, что действующий пользователь не вправе
// назначать роли.
var ErrNotAllowed = errors.New("actor is not allowed to assign roles")

// ErrUnknownRole означает, что роль не входит в закрытый набор ролей платформы.
var ErrUnknownRole = errors.New("unknown role")

// RoleRepository определяет методы изменения ролей в хранилище.
type RoleRepository interface {
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ReplaceUserRoles заменяет все роли пользователя одной указанной.
	ReplaceUserRoles(ctx context.Context, userUID, role string) error
}

// StateInvalidator сбрасывает кешированное состояние пользователя.
type StateInvalidator interface {
	InvalidateUserState(ctx context.Context, userUID string) error
}

// Service реализует назначение ролей.
type Service struct {
	repo        RoleRepository
	invalidator StateInvalidator
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo RoleRepository, invalidator StateInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		log:         log,
	}
}

// AssignRole заменяет набор ролей пользователя targetUID одной ролью role.
// Операция доступна только администратору; право проверяется тем же
// резолвером, что и остальные проверки доступа.
func (s *Service) AssignRole(ctx context.Context, actor models.UserState, targetUID, role string) error {
	const op = "roles.AssignRole"

	decision := entitlement.Resolve(time.Now(), actor, models.Requirement{
		Kind:  models.RequireRole,
		Roles: []string{models.RoleAdmin},
	})
	if !decision.Allowed {
		return fmt.Errorf("%s: %w", op, ErrNotAllowed)
	}

	if !models.IsKnownRole(role) {
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownRole, role)
	}

	if _, err := s.repo.GetUser(ctx, targetUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.ReplaceUserRoles(ctx, targetUID, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.invalidator.InvalidateUserState(ctx, targetUID); err != nil {
		s.log.Warn("failed to invalidate user state after role change",
			slog.String("user_uid", targetUID), slog.Any("err", err))
	}

	s.log.Info("user roles replaced", slog.String("user_uid", targetUID), slog.String("role", role))
	return nil
}
