package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// GetContentPost возвращает публикацию по её ID вместе с атрибутами
// видимости, по которым классификатор вычисляет требование доступа.
func (s *Storage) GetContentPost(ctx context.Context, id int) (*models.ContentPost, error) {
	const op = "storage.GetContentPost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, visibility, required_min_tier, published_at
			  FROM content_posts
			  WHERE id = $1`
	post := &models.ContentPost{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var minTier sql.NullString
	if err := row.Scan(&post.ID, &post.Title, &post.Body, &post.Visibility,
		&minTier, &post.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if minTier.Valid {
		post.RequiredMinTier = &minTier.String
	}
	return post, nil
}

// GetLesson возвращает урок по его ID.
func (s *Storage) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, module_id, title, body, required_subscription_tier, is_preview_accessible
			  FROM lessons
			  WHERE id = $1`
	lesson := &models.Lesson{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var tier sql.NullString
	if err := row.Scan(&lesson.ID, &lesson.ModuleID, &lesson.Title, &lesson.Body,
		&tier, &lesson.IsPreviewAccessible); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrLessonNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if tier.Valid {
		lesson.RequiredSubscriptionTier = &tier.String
	}
	return lesson, nil
}
