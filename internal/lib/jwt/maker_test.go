package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	tokenTTL := 60 * time.Minute
	maker := NewJWTMaker(testSecret, tokenTTL)

	tests := []struct {
		name      string
		accountID int64
		email     string
	}{
		{name: "first account", accountID: 1, email: "a@b.com"},
		{name: "large id", accountID: 9_007_199_254_740_993, email: "big@example.com"},
		{name: "plus addressing", accountID: 42, email: "user+tag@domain.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.accountID, tt.email)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			id, err := claims.AccountID()
			require.NoError(t, err)
			assert.Equal(t, tt.accountID, id)
			assert.Equal(t, tt.email, claims.Email)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, 15*time.Minute)

	validToken, err := maker.GenerateToken(7, "testuser@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: ErrInvalidToken},
		{name: "malformed token", token: "invalid.token.here", wantErr: ErrInvalidToken},
		{name: "two segments", token: "abc.def", wantErr: ErrInvalidToken},
		{name: "wrong secret key", token: signWith(t, jwt.SigningMethodHS256, "wrong_secret_key", validClaims()), wantErr: ErrInvalidToken},
		{name: "tampered token", token: validToken + "tampered", wantErr: ErrInvalidToken},
		{name: "different hmac algorithm", token: signWith(t, jwt.SigningMethodHS512, testSecret, validClaims()), wantErr: ErrInvalidToken},
		{name: "alg none", token: unsignedToken(t), wantErr: ErrInvalidToken},
		{name: "missing exp", token: signWith(t, jwt.SigningMethodHS256, testSecret, CustomClaims{Email: "x@y.z", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}), wantErr: ErrInvalidToken},
		{name: "expired token", token: createExpiredToken(t), wantErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_ExpiredWithWrongSecretIsInvalid(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	other := NewJWTMaker("other_secret", time.Minute, WithClock(fixedClock(past)))
	token, err := other.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	_, err = NewJWTMaker(testSecret, time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrExpiredToken)
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", 15*time.Minute)
	maker2 := NewJWTMaker("different_secret_key", 15*time.Minute)

	token, err := maker1.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestJWTMaker_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 60 * time.Minute
	token, err := NewJWTMaker(testSecret, ttl, WithClock(fixedClock(issued))).GenerateToken(5, "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "right after issue", now: issued},
		{name: "one second before exp", now: issued.Add(ttl - time.Second)},
		{name: "exactly at exp", now: issued.Add(ttl), wantErr: ErrExpiredToken},
		{name: "after exp", now: issued.Add(ttl + time.Minute), wantErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewJWTMaker(testSecret, ttl, WithClock(fixedClock(tt.now)))
			claims, err := verifier.ParseToken(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "5", claims.Subject)
		})
	}
}

func TestCustomClaims_AccountID(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    int64
		wantErr bool
	}{
		{name: "numeric", subject: "17", want: 17},
		{name: "empty", subject: "", wantErr: true},
		{name: "not a number", subject: "abc", wantErr: true},
		{name: "overflow", subject: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: tt.subject}}
			got, err := c.AccountID()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validClaims() CustomClaims {
	now := time.Now()
	return CustomClaims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func signWith(t *testing.T, method jwt.SigningMethod, secret string, claims CustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}

func createExpiredToken(t *testing.T) string {
	t.Helper()
	maker := NewJWTMaker(testSecret, -time.Hour)
	token, err := maker.GenerateToken(1, "a@b.com")
	require.NoError(t, err)
	return token
}
