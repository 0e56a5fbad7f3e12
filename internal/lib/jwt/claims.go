// Package jwt выпускает и проверяет подписанные HS256 токены доступа.
//
// Токен несет идентификатор аккаунта в sub, email, iat и exp. На сервере
// токены не хранятся: валидность определяется только подписью и сроком жизни.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken - подпись не сходится, токен поврежден или подписан другим алгоритмом.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken - текущее время достигло exp.
	ErrExpiredToken = errors.New("token expired")
)

// Maker описывает выпуск и разбор токенов доступа.
type Maker interface {
	GenerateToken(accountID int64, email string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает данные, которые хранятся в токене.
type CustomClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccountID разбирает sub в числовой идентификатор аккаунта.
func (c *CustomClaims) AccountID() (int64, error) {
	if c.Subject == "" {
		return 0, fmt.Errorf("jwt.AccountID: %w: empty subject", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("jwt.AccountID: %w: %w", ErrInvalidToken, err)
	}
	return id, nil
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		if now != nil {
			m.now = now
		}
	}
}

// MakerImpl реализует Maker на общем секрете и фиксированном TTL.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Секрет и TTL задаются один раз при старте процесса.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) *MakerImpl {
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL возвращает срок жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
