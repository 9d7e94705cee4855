// Package password реализует безопасное хеширование и проверку паролей.
//
// GetHash создаёт bcrypt-хеш пароля с фиксированной стоимостью 12,
// Verify сравнивает хеш с введённым паролем и отличает несовпадение
// от повреждённого хеша.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — стоимость bcrypt, используемая для всех хранимых паролей.
const DefaultCost = 12

// Hasher хеширует пароли с заданной стоимостью.
// Нулевое значение использует DefaultCost.
type Hasher struct {
	Cost int
}

func (h Hasher) cost() int {
	if h.Cost == 0 {
		return DefaultCost
	}
	return h.Cost
}

// Hash возвращает bcrypt-хеш пароля. Каждый вызов использует новую соль.
func (h Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// GetHash принимает пароль пользователя и возвращает его bcrypt-хеш
// со стоимостью DefaultCost.
func GetHash(password string) (string, error) {
	return Hasher{}.Hash(password)
}

// CompareHash сравнивает bcrypt-хеш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хешу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Verify сообщает, соответствует ли пароль хешу.
//
// Неверный пароль даёт (false, nil); ошибка возвращается только
// для повреждённого или неподдерживаемого хеша.
func Verify(originalHash, externalPassword string) (bool, error) {
	err := CompareHash(originalHash, externalPassword)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
