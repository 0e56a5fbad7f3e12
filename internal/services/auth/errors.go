package auth

import "errors"

var (
	// ErrDuplicateAccount - аккаунт с таким email уже существует.
	ErrDuplicateAccount = errors.New("email already registered")
	// ErrInvalidCredentials - неизвестный email или неверный пароль.
	// Оба случая намеренно неразличимы для клиента.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordTooLong - пароль длиннее password.MaxBytes байт.
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrUnauthenticated - токен не прошел проверку или его владелец не найден.
	ErrUnauthenticated = errors.New("unauthenticated")
)
