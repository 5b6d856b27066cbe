package guard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

func TestForDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision models.Decision
		returnTo string
		want     Remediation
	}{
		{
			name:     "разрешение не требует действий",
			decision: models.Allow(),
			returnTo: "/library",
			want:     Remediation{Action: ActionNone},
		},
		{
			name:     "без сессии предлагается вход с возвратом",
			decision: models.Deny(models.ReasonNotAuthenticated),
			returnTo: "/library",
			want:     Remediation{Action: ActionSignIn, ReturnTo: "/library"},
		},
		{
			name:     "деактивированная учётная запись идёт в поддержку",
			decision: models.Deny(models.ReasonAccountDeactivated),
			want:     Remediation{Action: ActionContactSupport},
		},
		{
			name:     "без подписки предлагается апгрейд",
			decision: models.Deny(models.ReasonSubscriptionRequired),
			want:     Remediation{Action: ActionUpgrade},
		},
		{
			name:     "низкий уровень предлагает апгрейд до требуемого",
			decision: models.DenyTierTooLow("enhanced", "core"),
			want:     Remediation{Action: ActionUpgrade, RequiredTier: "enhanced"},
		},
		{
			name:     "отказ по ролям уводит на главную",
			decision: models.Deny(models.ReasonRoleMissing),
			want:     Remediation{Action: ActionGoHome},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForDecision(tt.decision, tt.returnTo))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusCode(models.Allow()))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(models.Deny(models.ReasonNotAuthenticated)))
	assert.Equal(t, http.StatusForbidden, StatusCode(models.Deny(models.ReasonAccountDeactivated)))
	assert.Equal(t, http.StatusForbidden, StatusCode(models.DenyTierTooLow("premium", "free")))
	assert.Equal(t, http.StatusForbidden, StatusCode(models.Deny(models.ReasonRoleMissing)))
}
