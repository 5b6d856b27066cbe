package models

// DenyReason перечисляет причины отказа в доступе. Каждая причина
// видима пользователю и отображается в конкретное действие по исправлению:
// вход, апгрейд подписки, обращение в поддержку или возврат на главную.
type DenyReason string

const (
	// ReasonNotAuthenticated — нет подтверждённой сессии.
	ReasonNotAuthenticated DenyReason = "not_authenticated"
	// ReasonAccountDeactivated — учётная запись деактивирована администратором.
	ReasonAccountDeactivated DenyReason = "account_deactivated"
	// ReasonSubscriptionRequired — нужна действующая подписка.
	ReasonSubscriptionRequired DenyReason = "subscription_required"
	// ReasonTierTooLow — уровень подписки ниже требуемого.
	ReasonTierTooLow DenyReason = "tier_too_low"
	// ReasonRoleMissing — нет ни одной из требуемых ролей.
	ReasonRoleMissing DenyReason = "role_missing"
)

// Decision — результат одной проверки доступа: разрешение либо отказ
// с причиной. Для ReasonTierTooLow дополнительно заполняются требуемый
// и фактический уровни.
type Decision struct {
	Allowed      bool       `json:"allowed"`
	Reason       DenyReason `json:"reason,omitempty"`
	RequiredTier string     `json:"required_tier,omitempty"`
	ActualTier   string     `json:"actual_tier,omitempty"`
}

// Allow возвращает разрешающее решение.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny возвращает отказ с указанной причиной.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// DenyTierTooLow возвращает отказ из-за недостаточного уровня подписки
// с требуемым и фактическим уровнями.
func DenyTierTooLow(required, actual string) Decision {
	return Decision{
		Reason:       ReasonTierTooLow,
		RequiredTier: required,
		ActualTier:   actual,
	}
}
