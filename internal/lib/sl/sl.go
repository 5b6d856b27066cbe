// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога
// для ошибок и решений о доступе.
package sl

import (
	"log/slog"

	"github.com/insuracademy/entitlement-engine/internal/models"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to load user state", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Decision возвращает slog.Attr с итогом проверки доступа: "allow"
// либо причина отказа.
func Decision(d models.Decision) slog.Attr {
	outcome := "allow"
	if !d.Allowed {
		outcome = string(d.Reason)
	}
	return slog.Attr{
		Key:   "decision",
		Value: slog.StringValue(outcome),
	}
}
