// Package storage реализует хранилище фермерского учёта на SQLite:
// пользователей, финансовые записи, справочники и агрегирующие отчёты.
// Все запросы с фильтрами собираются через query.Builder и параметризованы.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера sqlite3 для использования с database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/magabrotheeeer/farm-manager/internal/migrations"
)

var (
	// ErrUserExists возвращается при попытке создать пользователя с занятым именем.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// Storage инкапсулирует соединение с базой данных SQLite.
type Storage struct {
	DB *sql.DB
}

// New открывает (или создаёт) базу по пути path, настраивает соединение
// и применяет миграции.
func New(path string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// SQLite допускает одного писателя; одно соединение также сохраняет PRAGMA
	// и общую in-memory базу.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// journal_mode не поддерживается для in-memory баз, ошибка игнорируется.
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	for _, pragma := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает соединение с базой.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
