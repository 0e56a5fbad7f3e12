// Package middlewarectx содержит HTTP middleware для проверки токенов доступа.
//
// JWTMiddleware извлекает Bearer-токен из заголовка Authorization, проверяет его
// через сервис аутентификации и кладет найденный аккаунт в контекст запроса.
// Любая ошибка проверки превращается в 401 с одним и тем же сообщением.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
)

type ctxKey struct{}

// Authenticator описывает проверку токена и поиск его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет токен в заголовке Authorization.
//
// Если токен валиден, добавляет аккаунт в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(service Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Info("missing or invalid authorization header")
				unauthorized(w, r)
				return
			}

			account, err := service.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken извлекает токен из значения заголовка Authorization.
// Схема сравнивается без учета регистра, пустой токен не принимается.
func BearerToken(header string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", false
	}
	return credentials, true
}

// AccountFromContext возвращает аккаунт, положенный JWTMiddleware.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(ctxKey{}).(*models.Account)
	return account, ok && account != nil
}

// WithAccount кладет аккаунт в контекст.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, ctxKey{}, account)
}

// unauthorized отвечает одинаково на отсутствующий заголовок и на любой непрошедший проверку токен.
func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.Fail(w, r, http.StatusUnauthorized, response.MsgInvalidToken)
}
