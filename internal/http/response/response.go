// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов HTTP-обработчиков об ошибках в едином формате.
// Успешные ответы отдаются без обёртки, в том виде, в каком их ждёт клиент.
package response

import (
	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
)

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Общие сообщения об ошибках.
const (
	MsgInternal         = "Internal server error"
	MsgValidationFailed = "Validation failed"
)

// ErrorResponse описывает JSON-ответ с ошибкой.
// Errors заполняется только при ошибках валидации и перечисляет все нарушенные правила.
type ErrorResponse struct {
	Status string               `json:"status"`
	Error  string               `json:"error"`
	Errors []validate.Violation `json:"errors,omitempty"`
}

// Message — ответ с единственным текстовым сообщением.
type Message struct {
	Message string `json:"message"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse по ошибке валидатора.
// В поле Error попадает первое нарушение, в Errors — все.
func ValidationError(err error) ErrorResponse {
	violations := validate.Violations(err)
	if len(violations) == 0 {
		return Error(MsgValidationFailed)
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  violations[0].Message,
		Errors: violations,
	}
}
