// Package jwt реализует выпуск и проверку подписанных JWT токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов с id, username и role.
// MakerImpl — конкретная реализация на HS256 с секретным ключом и сроком жизни.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL — срок жизни токена сессии.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken возвращается для любого отклонённого токена: просроченного,
// изменённого или некорректного. Причина доступна только через errors.Unwrap для логов.
var ErrInvalidToken = errors.New("invalid or expired token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken подписывает claims пользователя и возвращает токен.
	GenerateToken(userID int64, username, role string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена.
	now       func() time.Time // Источник текущего времени.
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник времени, используемый при выпуске и проверке.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт новый MakerImpl на основе секретного ключа и TTL.
// Нулевой TTL заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) *MakerImpl {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	m := &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL возвращает срок жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
