// Package me содержит обработчик получения текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/registro/internal/http/middlewarectx"
	"github.com/magabrotheeeer/registro/internal/http/response"
)

// Handler обрабатывает GET /v1/auth/me. Требует middlewarectx.JWTMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает обработчик.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP возвращает профиль аккаунта из контекста запроса.
//
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Profile}
// @Failure 401 {object} response.ErrorResponse
// @Router /v1/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	account, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		log.Error("account is missing in request context")
		response.Fail(w, r, http.StatusUnauthorized, response.MsgInvalidToken)
		return
	}

	response.Success(w, r, http.StatusOK, "User retrieved successfully", account.Profile())
}
