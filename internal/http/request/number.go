package request

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number — числовое поле тела запроса. Принимает JSON-число или строку с числом
// и хранит исходный текст, чтобы правило numeric сообщило об ошибке по полю.
// Пустая строка и null означают отсутствие значения.
type Number string

// UnmarshalJSON сохраняет текст значения без проверки.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
	default:
		*n = Number(b)
	}
	return nil
}

// Float возвращает значение или nil, если поле не задано или не является числом.
func (n Number) Float() *float64 {
	if n == "" {
		return nil
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil
	}
	return &v
}
