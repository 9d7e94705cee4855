// Package models содержит доменные структуры фермерского учёта: пользователей,
// финансовые записи, справочники и результаты отчётов.
package models

import "time"

// Роли пользователей.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     // Идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // bcrypt-хеш пароля
	Role         string    // Роль пользователя, admin или user
	Email        string    // Электронная почта (необязательно)
	DisplayName  string    // Отображаемое имя (необязательно)
	TwoFASecret  string    // base32-секрет TOTP, пусто до настройки 2FA
	CreatedAt    time.Time // Дата создания
}

// HasTwoFA сообщает, настроена ли у пользователя двухфакторная аутентификация.
func (u *User) HasTwoFA() bool {
	return u.TwoFASecret != ""
}
