// Package entitlement реализует ядро принятия решений о доступе:
// порядок уровней подписки, классификатор ресурсов и резолвер.
// Все функции пакета чистые, детерминированные и не выполняют I/O.
package entitlement

import "github.com/insuracademy/entitlement-engine/internal/models"

// Уровни подписки, от младшего к старшему.
const (
	TierFree     = "free"
	TierCore     = "core"
	TierEnhanced = "enhanced"
	TierPremium  = "premium"
	TierBusiness = "business"
)

// Уровни контента. Словарь исторически расходится со словарём подписок
// и сохраняется отдельным порядком.
const (
	ContentTierBasic      = "basic"
	ContentTierPremium    = "premium"
	ContentTierEnterprise = "enterprise"
)

var subscriptionTierRanks = map[string]int{
	TierFree:     0,
	TierCore:     1,
	TierEnhanced: 2,
	TierPremium:  3,
	TierBusiness: 4,
}

var contentTierRanks = map[string]int{
	ContentTierBasic:      1,
	ContentTierPremium:    2,
	ContentTierEnterprise: 3,
}

// TierRank возвращает ранг уровня в указанном словаре.
// Неизвестный или пустой уровень получает ранг 0: испорченная запись
// понижает доступ, а не роняет проверку.
func TierRank(vocab models.TierVocab, tier string) int {
	switch vocab {
	case models.VocabContent:
		return contentTierRanks[tier]
	default:
		return subscriptionTierRanks[tier]
	}
}
