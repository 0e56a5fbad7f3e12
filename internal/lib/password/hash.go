// Package password реализует хеширование и проверку паролей пользователей.
//
// Хеш строится bcrypt с фиксированной стоимостью и свежей солью на каждый вызов.
// Результат самоописываемый: алгоритм, стоимость и соль хранятся внутри строки,
// поэтому для проверки ничего, кроме самого хеша, не требуется.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost - стоимость bcrypt, с которой хешируются все пароли.
const Cost = bcrypt.DefaultCost

// MaxBytes - наибольшая длина пароля в байтах, которую принимает bcrypt.
const MaxBytes = 72

// ErrMismatch возвращается CompareHash, если пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match hash")

// Hasher - обертка над функциями пакета, удобная для внедрения в сервисы.
type Hasher struct{}

// Hash возвращает bcrypt-хеш пароля.
func (Hasher) Hash(plaintext string) (string, error) {
	return GetHash(plaintext)
}

// Verify сообщает, соответствует ли пароль хешу.
func (Hasher) Verify(hash, plaintext string) bool {
	return Verify(hash, plaintext)
}

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Пароли длиннее 72 байт bcrypt не обрезает молча, а возвращает ошибку.
func GetHash(plaintext string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении
// и обернутую ошибку bcrypt, если сам хеш поврежден.
func CompareHash(hash, plaintext string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Verify возвращает true, только если пароль соответствует хешу.
// Никогда не паникует: любая ошибка сравнения означает false.
func Verify(hash, plaintext string) bool {
	return CompareHash(hash, plaintext) == nil
}
