// Package create реализует HTTP-обработчик создания записи.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
)

// Service описывает бизнес-логику создания записи.
type Service interface {
	Create(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
}

// Handler обрабатывает POST /v1/test.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP создает запись.
//
// @Summary Создать запись
// @Tags test
// @Accept json
// @Produce json
// @Param request body models.EntryCreate true "Запись"
// @Success 201 {object} response.Response{data=models.Entry}
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /v1/test [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.EntryCreate
	if err := response.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	entry, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create entry", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	log.Info("entry created", slog.Int64("id", entry.ID))
	response.Success(w, r, http.StatusCreated, "Test created successfully", entry)
}
