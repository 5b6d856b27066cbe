package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// GetSubscription возвращает запись о подписке пользователя.
// Отсутствие записи возвращается как ErrSubscriptionNotFound.
func (s *Storage) GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, subscribed, tier, expiry, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var tier sql.NullString
	var expiry sql.NullTime
	if err := row.Scan(&sub.UserUID, &sub.Subscribed, &tier, &expiry, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if tier.Valid {
		sub.Tier = tier.String
	}
	if expiry.Valid {
		sub.Expiry = &expiry.Time
	}
	return sub, nil
}

// UpsertSubscription создаёт или обновляет запись о подписке пользователя.
// Вызывается обработчиком событий биллинга.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var tier sql.NullString
	if sub.Tier != "" {
		tier = sql.NullString{String: sub.Tier, Valid: true}
	}
	var expiry sql.NullTime
	if sub.Expiry != nil {
		expiry = sql.NullTime{Time: *sub.Expiry, Valid: true}
	}

	query := `INSERT INTO subscriptions (user_uid, subscribed, tier, expiry, updated_at)
			  VALUES ($1, $2, $3, $4, now())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET subscribed = EXCLUDED.subscribed,
			      tier = EXCLUDED.tier,
			      expiry = EXCLUDED.expiry,
			      updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, sub.UserUID, sub.Subscribed, tier, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
