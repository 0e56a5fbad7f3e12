// Package login содержит обработчик входа по email и паролю.
package login

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/services/auth"
)

// Request - входные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LogValue скрывает пароль при логировании.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(slog.String("email", r.Email))
}

// Handler обрабатывает POST /v1/auth/login.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик входа.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP проверяет учетные данные и выдает токен доступа.
//
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response{data=models.AuthResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /v1/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := response.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	log.Debug("request body decoded", slog.Any("request", req))

	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	account, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Info("invalid credentials")
		response.Fail(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		log.Error("failed to log in", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	log.Info("account logged in", slog.Int64("account_id", account.ID))
	response.Success(w, r, http.StatusOK, "Login successful", models.NewAuthResult(account, token))
}
