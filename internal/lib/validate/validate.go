// Package validate настраивает go-playground/validator для входящих запросов:
// регистрирует собственные теги (password, isodate, iso8601), берёт имена полей
// из json-тегов и превращает ошибки валидации в сообщения для клиента.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

const (
	// DateLayout — единственный формат даты, с которым работают фильтры.
	DateLayout = "2006-01-02"

	// PasswordSymbols — допустимые спецсимволы для правила сложности пароля.
	PasswordSymbols = "@$!%*?&"

	// PasswordMinLength — минимальная длина пароля.
	PasswordMinLength = 8
)

// Violation описывает одно нарушенное правило.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New возвращает валидатор с зарегистрированными пользовательскими тегами.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return IsComplexPassword(fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
	mustRegister(v, "iso8601", func(fl validator.FieldLevel) bool {
		_, err := NormalizeDate(fl.Field().String())
		return err == nil
	})
	return v
}

// PasswordHolder реализуется запросами, пароль которых проверяется на сложность.
type PasswordHolder interface {
	PasswordValue() string
}

// RegisterPasswordRules включает проверку сложности пароля для типов types.
//
// Правило проверяется на уровне структуры, поэтому срабатывает вместе с
// ограничением длины поля, а не вместо него. Пустой пароль оставлен правилу required.
func RegisterPasswordRules(v *validator.Validate, types ...any) {
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		holder, ok := sl.Current().Interface().(PasswordHolder)
		if !ok {
			return
		}
		pw := holder.PasswordValue()
		if pw != "" && !IsComplexPassword(pw) {
			sl.ReportError(pw, "password", "Password", "password", "")
		}
	}, types...)
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

// IsComplexPassword проверяет, что пароль содержит строчную и заглавную латинскую
// букву, ASCII-цифру и спецсимвол из PasswordSymbols. Длина проверяется отдельным правилом.
func IsComplexPassword(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// IsISODate сообщает, записана ли дата строго в формате YYYY-MM-DD.
func IsISODate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeDate приводит дату ISO 8601 к виду YYYY-MM-DD.
//
// Принимаются календарная дата и дата со временем (RFC 3339 или без зоны).
// Для значений со смещением берётся календарная дата в указанной зоне.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if IsISODate(s) {
		return s, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("validate.NormalizeDate: %q is not an ISO 8601 date", s)
}

// Violations раскладывает ошибку валидатора на список нарушений в порядке полей.
// Для ошибок другого типа возвращается nil.
func Violations(err error) []Violation {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Violation{Field: fe.Field(), Message: Message(fe)})
	}
	return out
}

// Message формирует человекочитаемый текст для одного нарушенного правила.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if field == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "password":
		return "Password must contain uppercase, lowercase, number and special character"
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "iso8601":
		return fmt.Sprintf("%s must be an ISO 8601 date", field)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}
