// Package signup содержит обработчик регистрации нового аккаунта.
package signup

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

// Request - входные данные для регистрации.
type Request struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
}

// LogValue скрывает пароль при логировании.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("first_name", r.FirstName),
		slog.String("last_name", r.LastName),
		slog.String("email", r.Email),
	)
}

// Handler обрабатывает POST /v1/auth/signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик регистрации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP регистрирует аккаунт и возвращает токен доступа.
//
// @Summary Регистрация
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} response.Response{data=models.AuthResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /v1/auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	account, token, err := h.service.Signup(r.Context(), auth.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, auth.ErrDuplicateAccount):
		log.Info("email already registered")
		response.Fail(w, r, http.StatusConflict, "Email already registered")
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		log.Info("password is too long")
		response.Fail(w, r, http.StatusUnprocessableEntity, "password must be at most 72 bytes")
		return
	case err != nil:
		log.Error("failed to sign up", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	log.Info("account registered", slog.Int64("account_id", account.ID))
	response.Success(w, r, http.StatusCreated, "Registration successful", models.NewAuthResult(account, token))
}
