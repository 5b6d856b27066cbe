// Package jwt реализует генерацию и парсинг JWT токенов сессии.
//
// Токен несёт идентификатор пользователя, имя и набор ролей на момент
// входа. Роли в токене — снимок для удобства клиента; решения о доступе
// принимаются по актуальному состоянию из хранилища.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string   `json:"username"` // Имя пользователя
	UserUID              string   `json:"user_uid"` // Уникальный идентификатор пользователя
	Roles                []string `json:"roles"`    // Роли на момент входа
	jwt.RegisteredClaims          // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов сессии.
type Maker interface {
	// GenerateToken создаёт токен с username, uid и ролями пользователя.
	GenerateToken(username, userUID string, roles []string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
