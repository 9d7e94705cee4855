// Package request содержит разбор входящих HTTP-запросов: чтение JSON-тела
// с понятными клиенту ошибками, очистку текстовых полей и фильтры из query-параметров.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// MaxBodyBytes — максимальный размер JSON-тела запроса.
const MaxBodyBytes = 10 << 20

// Сообщения об ошибках разбора тела.
const (
	MsgEmptyBody     = "Empty request body"
	MsgMalformedJSON = "Malformed JSON data. Please check your request format."
	MsgTruncatedJSON = "Incomplete JSON data. Please check your request."
	MsgInvalidJSON   = "Invalid JSON format"
	MsgBodyTooLarge  = "Request body too large"
)

// BodyError — ошибка разбора тела запроса с сообщением и HTTP-статусом для клиента.
type BodyError struct {
	Status  int
	Message string
	Err     error
}

func (e *BodyError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// DecodeJSON читает тело запроса и декодирует его в dst.
//
// Пустое тело, синтаксическая ошибка, оборванный JSON и значения неверного
// типа различаются и возвращаются как *BodyError.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return &BodyError{Status: http.StatusBadRequest, Message: MsgEmptyBody}
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &BodyError{Status: http.StatusRequestEntityTooLarge, Message: MsgBodyTooLarge, Err: err}
		}
		return &BodyError{Status: http.StatusBadRequest, Message: MsgInvalidJSON, Err: err}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &BodyError{Status: http.StatusBadRequest, Message: MsgEmptyBody}
	}

	err = render.DecodeJSON(bytes.NewReader(body), dst)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &BodyError{Status: http.StatusBadRequest, Message: MsgTruncatedJSON, Err: err}
	case errors.As(err, &syntaxErr):
		return &BodyError{Status: http.StatusBadRequest, Message: MsgMalformedJSON, Err: err}
	default:
		return &BodyError{Status: http.StatusBadRequest, Message: MsgInvalidJSON, Err: err}
	}
}

// Describe возвращает HTTP-статус и сообщение для ошибки DecodeJSON.
func Describe(err error) (int, string) {
	var be *BodyError
	if errors.As(err, &be) {
		return be.Status, be.Message
	}
	return http.StatusBadRequest, MsgInvalidJSON
}

// Sanitize обрезает пробелы по краям и экранирует HTML-символы & < > " '.
// Пароли через Sanitize не пропускаются.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// Filter читает параметры project, fromDate и toDate.
// Даты не проверяются: для этого у models.Filter есть теги валидации.
func Filter(r *http.Request) models.Filter {
	q := r.URL.Query()
	return models.Filter{
		Project:  Sanitize(q.Get("project")),
		FromDate: strings.TrimSpace(q.Get("fromDate")),
		ToDate:   strings.TrimSpace(q.Get("toDate")),
	}
}

// ClientIP возвращает адрес клиента без порта. Заголовкам прокси верит только
// middlewarectx.RealIP, здесь берётся уже итоговый RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
