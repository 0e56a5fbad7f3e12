package models

// WelcomeMessage - сообщение в очередь уведомлений после регистрации.
type WelcomeMessage struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}
