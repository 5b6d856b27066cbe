// Package content содержит бизнес-логику выдачи публикаций и уроков
// с проверкой доступа: ресурс классифицируется, решение принимает резолвер,
// при отказе тело ресурса не покидает сервис.
package content

import (
	"context"
	"log/slog"

	"github.com/insuracademy/entitlement-engine/internal/entitlement"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
)

// ContentRepository определяет методы чтения контента из хранилища.
type ContentRepository interface {
	// GetContentPost возвращает публикацию по ID.
	GetContentPost(ctx context.Context, id int) (*models.ContentPost, error)
	// GetLesson возвращает урок по ID.
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
}

// AccessChecker описывает проверку набора требований для состояния пользователя.
type AccessChecker interface {
	CheckRequirements(ctx context.Context, state models.UserState, requirements ...models.Requirement) models.Decision
}

// Service реализует выдачу контента с проверкой доступа.
type Service struct {
	repo   ContentRepository
	access AccessChecker
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ContentRepository, access AccessChecker, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		access: access,
		log:    log,
	}
}

// ReadPost возвращает публикацию и решение о доступе. При отказе тело
// публикации вырезается: наружу уходит только заголовок и атрибуты
// видимости для заглушки.
func (s *Service) ReadPost(ctx context.Context, state models.UserState, id int) (*models.ContentPost, models.Decision, error) {
	post, err := s.repo.GetContentPost(ctx, id)
	if err != nil {
		return nil, models.Decision{}, err
	}

	requirement := entitlement.ClassifyContentPost(*post)
	decision := s.access.CheckRequirements(ctx, state, requirement)
	s.log.Info("content post access checked", slog.Int("id", id), sl.Decision(decision))

	if !decision.Allowed {
		locked := &models.ContentPost{
			ID:              post.ID,
			Title:           post.Title,
			Visibility:      post.Visibility,
			RequiredMinTier: post.RequiredMinTier,
			PublishedAt:     post.PublishedAt,
		}
		return locked, decision, nil
	}
	return post, decision, nil
}

// ReadLesson возвращает урок и решение о доступе. Превью-уроки открыты всем;
// при отказе тело урока вырезается.
func (s *Service) ReadLesson(ctx context.Context, state models.UserState, id int) (*models.Lesson, models.Decision, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, models.Decision{}, err
	}

	requirement := entitlement.ClassifyLesson(*lesson)
	decision := s.access.CheckRequirements(ctx, state, requirement)
	s.log.Info("lesson access checked", slog.Int("id", id), sl.Decision(decision))

	if !decision.Allowed {
		locked := &models.Lesson{
			ID:                       lesson.ID,
			ModuleID:                 lesson.ModuleID,
			Title:                    lesson.Title,
			RequiredSubscriptionTier: lesson.RequiredSubscriptionTier,
			IsPreviewAccessible:      lesson.IsPreviewAccessible,
		}
		return locked, decision, nil
	}
	return lesson, decision, nil
}
