package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeSub(tier string) *models.Subscription {
	return &models.Subscription{Subscribed: true, Tier: tier}
}

func memberState(sub *models.Subscription, roles ...string) models.UserState {
	return models.UserState{
		IsAuthenticated: true,
		IsActive:        true,
		Roles:           roles,
		Subscription:    sub,
	}
}

func TestResolve_Public(t *testing.T) {
	req := models.Requirement{Kind: models.RequirePublic}

	tests := []struct {
		name string
		user models.UserState
	}{
		{name: "анонимный посетитель", user: models.UserState{}},
		{name: "вошедший пользователь", user: memberState(nil, models.RoleUser)},
		{name: "деактивированная учётная запись", user: models.UserState{IsAuthenticated: true, IsActive: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.Allow(), Resolve(testNow, tt.user, req))
		})
	}
}

func TestResolve_Authentication(t *testing.T) {
	anon := models.UserState{}

	tests := []struct {
		name string
		req  models.Requirement
	}{
		{name: "только для вошедших", req: models.Requirement{Kind: models.RequireAuthenticated}},
		{name: "требуется подписка", req: models.Requirement{Kind: models.RequireSubscription}},
		{name: "требуется уровень", req: models.Requirement{Kind: models.RequireTier, MinTier: TierCore, Vocab: models.VocabSubscription}},
		{name: "требуется роль", req: models.Requirement{Kind: models.RequireRole, Roles: []string{models.RoleAuthor}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.Deny(models.ReasonNotAuthenticated), Resolve(testNow, anon, tt.req))
		})
	}
}

func TestResolve_DeactivationOverridesGrants(t *testing.T) {
	// Деактивация перекрывает действующую подписку premium.
	user := models.UserState{
		IsAuthenticated: true,
		IsActive:        false,
		Roles:           []string{models.RoleAgent},
		Subscription:    activeSub(TierPremium),
	}
	req := models.Requirement{Kind: models.RequireTier, MinTier: TierCore, Vocab: models.VocabSubscription}

	assert.Equal(t, models.Deny(models.ReasonAccountDeactivated), Resolve(testNow, user, req))
}

func TestResolve_AdminBypass(t *testing.T) {
	admin := memberState(nil, models.RoleAdmin)

	tests := []struct {
		name string
		req  models.Requirement
	}{
		{name: "подписочный ресурс без подписки", req: models.Requirement{Kind: models.RequireSubscription}},
		{name: "уровневый ресурс без подписки", req: models.Requirement{Kind: models.RequireTier, MinTier: TierBusiness, Vocab: models.VocabSubscription}},
		{name: "ролевой ресурс с чужим набором ролей", req: models.Requirement{Kind: models.RequireRole, Roles: []string{models.RoleAnalyst}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.Allow(), Resolve(testNow, admin, tt.req))
		})
	}
}

func TestResolve_Subscription(t *testing.T) {
	req := models.Requirement{Kind: models.RequireSubscription}
	expired := testNow.Add(-time.Second)
	valid := testNow.Add(time.Second)

	tests := []struct {
		name string
		sub  *models.Subscription
		want models.Decision
	}{
		{name: "нет записи о подписке", sub: nil, want: models.Deny(models.ReasonSubscriptionRequired)},
		{name: "подписка не оформлена", sub: &models.Subscription{}, want: models.Deny(models.ReasonSubscriptionRequired)},
		{name: "бессрочная подписка", sub: activeSub(TierCore), want: models.Allow()},
		{
			name: "истёкшая секунду назад эквивалентна отсутствию",
			sub:  &models.Subscription{Subscribed: true, Tier: TierCore, Expiry: &expired},
			want: models.Deny(models.ReasonSubscriptionRequired),
		},
		{
			name: "истекающая через секунду эквивалентна бессрочной",
			sub:  &models.Subscription{Subscribed: true, Tier: TierCore, Expiry: &valid},
			want: models.Allow(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(testNow, memberState(tt.sub, models.RoleUser), req))
		})
	}
}

func TestResolve_TierBoundary(t *testing.T) {
	req := models.Requirement{Kind: models.RequireTier, MinTier: TierEnhanced, Vocab: models.VocabSubscription}

	tests := []struct {
		name string
		tier string
		want models.Decision
	}{
		{name: "уровень ровно на границе проходит", tier: TierEnhanced, want: models.Allow()},
		{name: "уровень выше границы проходит", tier: TierPremium, want: models.Allow()},
		{
			name: "понижение на один уровень переключает Allow в Deny",
			tier: TierCore,
			want: models.DenyTierTooLow(TierEnhanced, TierCore),
		},
		{
			name: "испорченный уровень деградирует к младшему",
			tier: "golden",
			want: models.DenyTierTooLow(TierEnhanced, "golden"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := memberState(activeSub(tt.tier), models.RoleAgent)
			assert.Equal(t, tt.want, Resolve(testNow, user, req))
		})
	}
}

func TestResolve_TierScenarios(t *testing.T) {
	// Агент с бессрочной подпиской core.
	agent := memberState(activeSub(TierCore), models.RoleAgent)

	enhanced := models.Requirement{Kind: models.RequireTier, MinTier: TierEnhanced, Vocab: models.VocabSubscription}
	core := models.Requirement{Kind: models.RequireTier, MinTier: TierCore, Vocab: models.VocabSubscription}

	assert.Equal(t, models.DenyTierTooLow(TierEnhanced, TierCore), Resolve(testNow, agent, enhanced))
	assert.Equal(t, models.Allow(), Resolve(testNow, agent, core))
}

func TestResolve_TierWithoutSubscription(t *testing.T) {
	user := memberState(nil, models.RoleUser)
	req := models.Requirement{Kind: models.RequireTier, MinTier: TierCore, Vocab: models.VocabSubscription}

	// Отсутствие подписки даёт отказ по подписке, а не по уровню.
	assert.Equal(t, models.Deny(models.ReasonSubscriptionRequired), Resolve(testNow, user, req))
}

func TestResolve_Roles(t *testing.T) {
	req := models.Requirement{
		Kind:  models.RequireRole,
		Roles: []string{models.RoleAdmin, models.RoleInstructionalDesigner, models.RoleFacilitator},
	}

	tests := []struct {
		name  string
		roles []string
		want  models.Decision
	}{
		{name: "пересечение ролей даёт доступ", roles: []string{models.RoleInstructionalDesigner}, want: models.Allow()},
		{name: "несколько ролей, одна подходит", roles: []string{models.RoleAgent, models.RoleFacilitator}, want: models.Allow()},
		{name: "нет пересечения ролей", roles: []string{models.RoleAgent}, want: models.Deny(models.ReasonRoleMissing)},
		{name: "пустой набор ролей пользователя", roles: nil, want: models.Deny(models.ReasonRoleMissing)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(testNow, memberState(nil, tt.roles...), req))
		})
	}
}

func TestResolve_CombinedRequirementsAnd(t *testing.T) {
	tierReq := models.Requirement{Kind: models.RequireTier, MinTier: TierEnhanced, Vocab: models.VocabSubscription}
	roleReq := models.Requirement{Kind: models.RequireRole, Roles: []string{models.RoleAnalyst}}

	tests := []struct {
		name string
		user models.UserState
		want models.Decision
	}{
		{
			name: "оба требования выполнены",
			user: memberState(activeSub(TierEnhanced), models.RoleAnalyst),
			want: models.Allow(),
		},
		{
			name: "уровень есть, роли нет",
			user: memberState(activeSub(TierEnhanced), models.RoleAgent),
			want: models.Deny(models.ReasonRoleMissing),
		},
		{
			name: "роль есть, уровня нет",
			user: memberState(activeSub(TierCore), models.RoleAnalyst),
			want: models.DenyTierTooLow(TierEnhanced, TierCore),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(testNow, tt.user, tierReq, roleReq))
		})
	}
}

func TestResolve_ContentVocabulary(t *testing.T) {
	// Tiered-пост уровня premium сравнивается в словаре контента:
	// подписка premium (ранг 2 в контенте) проходит, business не известен
	// словарю контента и деградирует к рангу 0.
	req := models.Requirement{Kind: models.RequireTier, MinTier: ContentTierPremium, Vocab: models.VocabContent}

	premium := memberState(activeSub(TierPremium), models.RoleUser)
	business := memberState(activeSub(TierBusiness), models.RoleUser)

	assert.Equal(t, models.Allow(), Resolve(testNow, premium, req))
	assert.Equal(t, models.DenyTierTooLow(ContentTierPremium, TierBusiness), Resolve(testNow, business, req))
}

func TestResolve_Idempotent(t *testing.T) {
	user := memberState(activeSub(TierCore), models.RoleAgent)
	req := models.Requirement{Kind: models.RequireTier, MinTier: TierEnhanced, Vocab: models.VocabSubscription}

	first := Resolve(testNow, user, req)
	second := Resolve(testNow, user, req)

	assert.Equal(t, first, second)
}

func TestResolve_EmptyRequirements(t *testing.T) {
	assert.Equal(t, models.Allow(), Resolve(testNow, models.UserState{}))
}

func TestResolve_UnknownKindDenies(t *testing.T) {
	user := memberState(activeSub(TierBusiness), models.RoleUser)
	req := models.Requirement{Kind: models.RequirementKind("mystery")}

	assert.False(t, Resolve(testNow, user, req).Allowed)
}
