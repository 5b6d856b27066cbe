// Package guard переводит решения резолвера в подсказки для клиента:
// что именно сделать пользователю, чтобы получить доступ. Сам отказ
// формирует резолвер, гард лишь подбирает действие по причине.
package guard

import (
	"net/http"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// Action перечисляет действия, которые клиент показывает пользователю
// при отказе в доступе.
type Action string

const (
	// ActionNone — доступ разрешён, действий не требуется.
	ActionNone Action = "none"
	// ActionSignIn — предложить вход с возвратом на исходную страницу.
	ActionSignIn Action = "sign_in"
	// ActionUpgrade — предложить оформление или апгрейд подписки.
	ActionUpgrade Action = "upgrade"
	// ActionContactSupport — направить в поддержку: учётная запись деактивирована.
	ActionContactSupport Action = "contact_support"
	// ActionGoHome — вернуть на главную: ресурс закрыт по ролям.
	ActionGoHome Action = "go_home"
)

// Remediation — подсказка клиенту: действие, адрес возврата после входа
// и требуемый уровень подписки для апгрейда.
type Remediation struct {
	Action       Action `json:"action"`
	ReturnTo     string `json:"return_to,omitempty"`
	RequiredTier string `json:"required_tier,omitempty"`
}

// ForDecision подбирает подсказку по решению резолвера. returnTo —
// адрес, на который пользователь вернётся после входа.
func ForDecision(decision models.Decision, returnTo string) Remediation {
	if decision.Allowed {
		return Remediation{Action: ActionNone}
	}

	switch decision.Reason {
	case models.ReasonNotAuthenticated:
		return Remediation{Action: ActionSignIn, ReturnTo: returnTo}
	case models.ReasonAccountDeactivated:
		return Remediation{Action: ActionContactSupport}
	case models.ReasonSubscriptionRequired:
		return Remediation{Action: ActionUpgrade}
	case models.ReasonTierTooLow:
		return Remediation{Action: ActionUpgrade, RequiredTier: decision.RequiredTier}
	default:
		// role_missing и всё нераспознанное уводит на главную.
		return Remediation{Action: ActionGoHome}
	}
}

// StatusCode возвращает HTTP статус для решения: 200 при разрешении,
// 401 при отсутствии сессии, 403 для остальных отказов.
func StatusCode(decision models.Decision) int {
	switch {
	case decision.Allowed:
		return http.StatusOK
	case decision.Reason == models.ReasonNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}
