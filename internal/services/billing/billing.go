// Package billing содержит обработчик событий обновления подписки
// из очереди биллинга. Движок доступа не списывает деньги сам:
// он лишь принимает факт изменения подписки и обновляет своё состояние.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// Event — событие обновления подписки от биллинга.
type Event struct {
	UserUID    string     `json:"user_uid" validate:"required,uuid"`
	Subscribed bool       `json:"subscribed"`
	Tier       string     `json:"tier" validate:"omitempty,oneof=free core enhanced premium business"`
	Expiry     *time.Time `json:"expiry,omitempty"`
}

// SubscriptionRepository определяет методы записи подписок в хранилище.
type SubscriptionRepository interface {
	// UpsertSubscription создаёт или обновляет запись о подписке пользователя.
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
}

// StateInvalidator сбрасывает кешированное состояние пользователя.
type StateInvalidator interface {
	InvalidateUserState(ctx context.Context, userUID string) error
}

// Service обрабатывает события биллинга.
type Service struct {
	repo        SubscriptionRepository
	invalidator StateInvalidator
	validate    *validator.Validate
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, invalidator StateInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		validate:    validator.New(),
		log:         log,
	}
}

// HandleMessage разбирает тело сообщения очереди, сохраняет подписку
// и сбрасывает кеш состояния пользователя. Некорректное сообщение —
// ошибка: оно вернётся в очередь и не потеряется молча.
func (s *Service) HandleMessage(ctx context.Context, body []byte) error {
	const op = "billing.HandleMessage"

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate.Struct(event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscription{
		UserUID:    event.UserUID,
		Subscribed: event.Subscribed,
		Tier:       event.Tier,
		Expiry:     event.Expiry,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.invalidator.InvalidateUserState(ctx, event.UserUID); err != nil {
		s.log.Warn("failed to invalidate user state after billing event",
			slog.String("user_uid", event.UserUID), slog.Any("err", err))
	}

	s.log.Info("subscription updated from billing event",
		slog.String("user_uid", event.UserUID),
		slog.Bool("subscribed", event.Subscribed),
		slog.String("tier", event.Tier))
	return nil
}
