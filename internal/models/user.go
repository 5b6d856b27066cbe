// Package models содержит доменные структуры платформы обучения:
// пользователей, роли, подписки, ресурсы с требованиями доступа
// и решения о доступе. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import (
	"slices"
	"time"
)

// Закрытый набор ролей пользователей платформы.
// Роль admin действует как универсальный обход всех проверок доступа.
const (
	RoleAdmin                 = "admin"
	RoleModerator             = "moderator"
	RoleUser                  = "user"
	RoleInstructionalDesigner = "instructional_designer"
	RoleFacilitator           = "facilitator"
	RoleAgent                 = "agent"
	RoleProspect              = "prospect"
	RoleBusinessLeader        = "business_leader"
	RoleAuthor                = "author"
	RoleAnalyst               = "analyst"
)

var knownRoles = map[string]struct{}{
	RoleAdmin:                 {},
	RoleModerator:             {},
	RoleUser:                  {},
	RoleInstructionalDesigner: {},
	RoleFacilitator:           {},
	RoleAgent:                 {},
	RoleProspect:              {},
	RoleBusinessLeader:        {},
	RoleAuthor:                {},
	RoleAnalyst:               {},
}

// IsKnownRole сообщает, входит ли роль в закрытый набор ролей платформы.
func IsKnownRole(role string) bool {
	_, ok := knownRoles[role]
	return ok
}

// User представляет зарегистрированного пользователя платформы.
// Пользователи не удаляются: деактивация выполняется администратором
// через флаг IsActive.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	IsActive     bool      // Признак активной учётной записи
	CreatedAt    time.Time // Дата регистрации
}

// UserState содержит всё состояние пользователя, необходимое для принятия
// решения о доступе. Передаётся в резолвер явно, никогда не читается
// из глобального контекста внутри функции принятия решения.
type UserState struct {
	IsAuthenticated bool          // Есть ли подтверждённая сессия
	IsActive        bool          // Активна ли учётная запись
	Roles           []string      // Роли пользователя
	Subscription    *Subscription // Подписка; nil, если записи нет
}

// HasRole сообщает, есть ли у пользователя указанная роль.
func (s UserState) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}
