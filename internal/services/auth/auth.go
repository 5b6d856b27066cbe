// Package auth содержит логику регистрации и входа пользователей.
// Сессия оформляется JWT токеном; резолвер доступа получает роли
// и подписку из хранилища, а не из токена.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/insuracademy/entitlement-engine/internal/lib/jwt"
	"github.com/insuracademy/entitlement-engine/internal/lib/password"
	"github.com/insuracademy/entitlement-engine/internal/models"
)

// ErrInvalidCredentials означает неверную пару логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountDeactivated означает попытку входа в деактивированную
// учётную запись.
var ErrAccountDeactivated = errors.New("account is deactivated")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя с ролью и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User, role string) (string, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListUserRoles возвращает роли пользователя.
	ListUserRoles(ctx context.Context, userUID string) ([]string, error)
}

// Service отвечает за регистрацию и вход пользователей.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля
// и дефолтной ролью user. Возвращает uid нового пользователя.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		IsActive:     true,
	}
	return s.users.RegisterUser(ctx, user, models.RoleUser)
}

// Login проверяет пароль пользователя и генерирует JWT токен сессии
// с uid и снимком ролей. Вход в деактивированную учётную запись закрыт.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token string, roles []string, err error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%s: %w", op, ErrAccountDeactivated)
	}

	roles, err = s.users.ListUserRoles(ctx, user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, user.UID, roles)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, roles, nil
}
