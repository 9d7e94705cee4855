// Package ratelimit реализует ограничение частоты запросов фиксированным окном.
//
// Для каждой пары (bucket, клиент) считается количество запросов в текущем
// окне; окно начинается с первого запроса и длится Window. Счётчики хранятся
// в Store: в памяти процесса или в Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Bucket — группа эндпоинтов с общим лимитом.
type Bucket string

const (
	// BucketAuth применяется к входу и регистрации.
	BucketAuth Bucket = "auth"
	// BucketGeneral применяется ко всем остальным путям API.
	BucketGeneral Bucket = "general"
)

// DefaultWindow — длительность окна по умолчанию.
const DefaultWindow = 15 * time.Minute

// Rule задаёт лимит и сообщение для клиента при его превышении.
type Rule struct {
	Max     int64
	Message string
}

// DefaultRules возвращает стандартные лимиты: 5 попыток входа и 100 прочих запросов за окно.
func DefaultRules(authMax, generalMax int) map[Bucket]Rule {
	return map[Bucket]Rule{
		BucketAuth: {
			Max:     int64(authMax),
			Message: "Too many login attempts, please try again later",
		},
		BucketGeneral: {
			Max:     int64(generalMax),
			Message: "Too many requests, please try again later.",
		},
	}
}

// Store хранит счётчики окон.
type Store interface {
	// Incr увеличивает счётчик key в текущем окне и возвращает новое значение.
	// Если окно для key истекло или ещё не начиналось, начинается новое длиной window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter принимает решение о пропуске запроса.
type Limiter struct {
	store  Store
	window time.Duration
	rules  map[Bucket]Rule
}

// New создаёт Limiter. Нулевое окно заменяется на DefaultWindow.
func New(store Store, window time.Duration, rules map[Bucket]Rule) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		store:  store,
		window: window,
		rules:  rules,
	}
}

// Allow учитывает запрос клиента clientKey в bucket и сообщает, укладывается ли он в лимит.
func (l *Limiter) Allow(ctx context.Context, clientKey string, bucket Bucket) (bool, error) {
	const op = "ratelimit.Allow"
	rule, ok := l.rules[bucket]
	if !ok {
		return false, fmt.Errorf("%s: unknown bucket %q", op, bucket)
	}
	count, err := l.store.Incr(ctx, key(bucket, clientKey), l.window)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count <= rule.Max, nil
}

// Message возвращает текст ответа для превышения лимита в bucket.
func (l *Limiter) Message(bucket Bucket) string {
	return l.rules[bucket].Message
}

// Window возвращает длительность окна.
func (l *Limiter) Window() time.Duration {
	return l.window
}

func key(bucket Bucket, clientKey string) string {
	return "ratelimit:" + string(bucket) + ":" + clientKey
}
