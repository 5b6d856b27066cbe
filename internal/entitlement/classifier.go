package entitlement

import "github.com/insuracademy/entitlement-engine/internal/models"

// Значения поля visibility контентного поста.
const (
	VisibilityPublic      = "public"
	VisibilitySubscribers = "subscribers"
	VisibilityTiered      = "tiered"
)

// ClassifyContentPost вычисляет требование доступа к публикации по её
// атрибутам. Уровни tiered-постов сравниваются в словаре контента,
// а не в словаре подписок.
func ClassifyContentPost(post models.ContentPost) models.Requirement {
	switch post.Visibility {
	case VisibilitySubscribers:
		return models.Requirement{Kind: models.RequireSubscription}
	case VisibilityTiered:
		var minTier string
		if post.RequiredMinTier != nil {
			minTier = *post.RequiredMinTier
		}
		return models.Requirement{
			Kind:    models.RequireTier,
			MinTier: minTier,
			Vocab:   models.VocabContent,
		}
	default:
		return models.Requirement{Kind: models.RequirePublic}
	}
}

// ClassifyLesson вычисляет требование доступа к уроку.
// Превью-доступ всегда перекрывает требование уровня подписки.
// Урок без требуемого уровня доступен любому вошедшему пользователю.
func ClassifyLesson(lesson models.Lesson) models.Requirement {
	if lesson.IsPreviewAccessible {
		return models.Requirement{Kind: models.RequirePublic}
	}
	if lesson.RequiredSubscriptionTier == nil || *lesson.RequiredSubscriptionTier == "" {
		return models.Requirement{Kind: models.RequireAuthenticated}
	}
	return models.Requirement{
		Kind:    models.RequireTier,
		MinTier: *lesson.RequiredSubscriptionTier,
		Vocab:   models.VocabSubscription,
	}
}
