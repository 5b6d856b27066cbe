package models

import "time"

// RequirementKind перечисляет виды требований доступа к ресурсу.
type RequirementKind string

const (
	// RequirePublic — ресурс открыт всем, включая анонимных посетителей.
	RequirePublic RequirementKind = "public"
	// RequireAuthenticated — ресурс доступен любому вошедшему пользователю.
	RequireAuthenticated RequirementKind = "authenticated"
	// RequireSubscription — нужна любая действующая подписка.
	RequireSubscription RequirementKind = "subscription"
	// RequireTier — нужна действующая подписка уровня не ниже MinTier.
	RequireTier RequirementKind = "tier"
	// RequireRole — нужна хотя бы одна роль из набора Roles.
	RequireRole RequirementKind = "role"
)

// TierVocab указывает словарь уровней, в котором сравниваются уровни
// требования. Маршруты и подписки используют словарь подписок,
// контентные посты — собственный словарь контента. Словари исторически
// расходятся и сохраняются раздельно.
type TierVocab string

const (
	// VocabSubscription — словарь уровней подписки: free, core, enhanced, premium, business.
	VocabSubscription TierVocab = "subscription"
	// VocabContent — словарь уровней контента: basic, premium, enterprise.
	VocabContent TierVocab = "content"
)

// Requirement описывает одно требование доступа к ресурсу.
// Поля MinTier и Vocab заполняются только для RequireTier,
// Roles — только для RequireRole.
type Requirement struct {
	Kind    RequirementKind `json:"kind"`
	MinTier string          `json:"min_tier,omitempty"`
	Vocab   TierVocab       `json:"vocab,omitempty"`
	Roles   []string        `json:"roles,omitempty"`
}

// RouteRule связывает имя маршрута с его требованиями доступа.
// Требования задаются один раз при объявлении маршрута и комбинируются
// через логическое И.
type RouteRule struct {
	Name         string
	Requirements []Requirement
}

// ContentPost представляет публикацию (блог, рассылка) с атрибутами
// видимости, из которых классификатор вычисляет требование доступа.
type ContentPost struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Body            string     `json:"body,omitempty"`
	Visibility      string     `json:"visibility"`
	RequiredMinTier *string    `json:"required_min_tier,omitempty"`
	PublishedAt     time.Time  `json:"published_at"`
}

// Lesson представляет урок курса. Флаг IsPreviewAccessible открывает урок
// всем независимо от требуемого уровня подписки.
type Lesson struct {
	ID                       int     `json:"id"`
	ModuleID                 int     `json:"module_id"`
	Title                    string  `json:"title"`
	Body                     string  `json:"body,omitempty"`
	RequiredSubscriptionTier *string `json:"required_subscription_tier,omitempty"`
	IsPreviewAccessible      bool    `json:"is_preview_accessible"`
}
