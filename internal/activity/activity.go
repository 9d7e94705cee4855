// Package activity хранит журнал последних попыток входа в памяти процесса.
package activity

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// DefaultCapacity — размер журнала по умолчанию.
const DefaultCapacity = 100

// Log — кольцевой буфер попыток входа фиксированной ёмкости.
// При переполнении вытесняется самая старая запись. Данные не переживают перезапуск.
type Log struct {
	mu      sync.Mutex
	entries []models.LoginActivity
	next    int
	full    bool
	now     func() time.Time
}

// New создаёт журнал ёмкостью capacity. Неположительная ёмкость заменяется на DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries: make([]models.LoginActivity, capacity),
		now:     time.Now,
	}
}

// Record добавляет запись с исходом outcome (models.LoginSuccess или models.LoginFail).
func (l *Log) Record(username, outcome string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = models.LoginActivity{
		Username: username,
		Status:   outcome,
		Time:     l.now().UTC(),
	}
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.full = true
	}
}

// Recent возвращает копию журнала, новые записи первыми.
func (l *Log) Recent() []models.LoginActivity {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.entries)
	}
	out := make([]models.LoginActivity, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}
