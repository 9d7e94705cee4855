package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// resetTables перечислены в порядке удаления.
var resetTables = []string{"income", "expenses", "projects", "crops", "inventory", "users"}

// ResetAll в одной транзакции очищает все таблицы и создаёт пользователей seed.
// При любой ошибке транзакция откатывается и прежние данные остаются нетронутыми.
func (s *Storage) ResetAll(ctx context.Context, seed []models.User) (err error) {
	const op = "storage.ResetAll"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range resetTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%s: clear %s: %w", op, table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM sqlite_sequence"); err != nil {
		return fmt.Errorf("%s: reset sequences: %w", op, err)
	}
	for _, u := range seed {
		if _, err = insertUser(ctx, tx, u); err != nil {
			return fmt.Errorf("%s: seed %s: %w", op, u.Username, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
