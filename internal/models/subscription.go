package models

import "time"

// Subscription представляет запись о платной подписке пользователя.
// Поле Expiry может быть nil — это означает бессрочную подписку.
// Запись изменяется только биллинговым коллаборатором, резолвер
// читает её как есть.
type Subscription struct {
	UserUID    string     // Идентификатор владельца подписки
	Subscribed bool       // Оформлена ли подписка
	Tier       string     // Уровень подписки: core, enhanced, premium, business
	Expiry     *time.Time // Дата истечения; nil — без срока
	UpdatedAt  time.Time  // Время последнего обновления записи
}

// ActiveAt сообщает, действует ли подписка в указанный момент времени.
// Подписка с истёкшим сроком эквивалентна отсутствию подписки.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if s == nil || !s.Subscribed {
		return false
	}
	if s.Expiry == nil {
		return true
	}
	return now.Before(*s.Expiry)
}

// TierLabel возвращает уровень подписки или пустую строку, если записи нет.
func (s *Subscription) TierLabel() string {
	if s == nil {
		return ""
	}
	return s.Tier
}
