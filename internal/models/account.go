// Package models содержит доменные модели: аккаунт пользователя, запись
// тестового CRUD-ресурса и сообщение о приветственном письме.
package models

import "time"

// Account представляет зарегистрированного пользователя.
//
// PasswordHash хранит только bcrypt-хеш, открытый пароль нигде не сохраняется.
// DeletedAt - маркер мягкого удаления, в потоках аутентификации не используется.
type Account struct {
	ID           int64      // Идентификатор, назначается хранилищем при создании
	FirstName    string     // Имя
	LastName     string     // Фамилия
	Email        string     // Электронная почта, уникальна
	PasswordHash string     // Хеш пароля
	CreatedAt    time.Time  // Дата создания
	UpdatedAt    time.Time  // Дата последнего изменения
	DeletedAt    *time.Time // Дата мягкого удаления
}

// Profile - публичное представление аккаунта, без хеша пароля.
type Profile struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile возвращает публичное представление аккаунта.
func (a *Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
