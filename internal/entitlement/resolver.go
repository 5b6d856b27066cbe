package entitlement

import (
	"time"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// Resolve принимает решение о доступе пользователя к ресурсу с набором
// требований. Требования комбинируются через логическое И: первый отказ
// становится итоговым решением. Пустой набор требований эквивалентен
// публичному ресурсу.
//
// Всё состояние передаётся параметрами, функция не обращается к хранилищу
// и не изменяет общие данные: повторный вызов с теми же аргументами даёт
// то же решение.
func Resolve(now time.Time, user models.UserState, requirements ...models.Requirement) models.Decision {
	for _, req := range requirements {
		if d := resolveOne(now, user, req); !d.Allowed {
			return d
		}
	}
	return models.Allow()
}

// Порядок проверок фиксирован: аутентификация, затем деактивация,
// затем обход для админа, затем вид требования. Деактивация перекрывает
// любые гранты, админ получает доступ и к подписочным ресурсам
// без действующей подписки.
func resolveOne(now time.Time, user models.UserState, req models.Requirement) models.Decision {
	if req.Kind == models.RequirePublic {
		return models.Allow()
	}
	if !user.IsAuthenticated {
		return models.Deny(models.ReasonNotAuthenticated)
	}
	if !user.IsActive {
		return models.Deny(models.ReasonAccountDeactivated)
	}
	if user.HasRole(models.RoleAdmin) {
		return models.Allow()
	}

	switch req.Kind {
	case models.RequireAuthenticated:
		return models.Allow()
	case models.RequireSubscription:
		if user.Subscription.ActiveAt(now) {
			return models.Allow()
		}
		return models.Deny(models.ReasonSubscriptionRequired)
	case models.RequireTier:
		if !user.Subscription.ActiveAt(now) {
			return models.Deny(models.ReasonSubscriptionRequired)
		}
		actual := user.Subscription.TierLabel()
		if TierRank(req.Vocab, actual) >= TierRank(req.Vocab, req.MinTier) {
			return models.Allow()
		}
		return models.DenyTierTooLow(req.MinTier, actual)
	case models.RequireRole:
		for _, role := range req.Roles {
			if user.HasRole(role) {
				return models.Allow()
			}
		}
		return models.Deny(models.ReasonRoleMissing)
	default:
		// Неизвестный вид требования трактуется как запрет.
		return models.Deny(models.ReasonRoleMissing)
	}
}
