// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразно добавлять в лог поля с ошибками.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil-ошибки пишется пустая строка, чтобы логирование никогда не паниковало.
//
// Пример:
//
//	log.Error("failed to create income", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
