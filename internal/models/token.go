package models

// TokenTypeBearer - тип выдаваемых токенов доступа.
const TokenTypeBearer = "bearer"

// AuthResult - ответ на успешную регистрацию или вход.
type AuthResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        Profile `json:"user"`
}

// NewAuthResult собирает ответ для аккаунта и выданного токена.
func NewAuthResult(account *Account, token string) AuthResult {
	return AuthResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		User:        account.Profile(),
	}
}
