// Package update реализует HTTP-обработчик частичного обновления записи.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/storage"
)

// Service описывает бизнес-логику обновления записи.
type Service interface {
	Update(ctx context.Context, id int64, in models.EntryUpdate) (*models.Entry, error)
}

// Handler обрабатывает PUT /v1/test/{id}.
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

// ServeHTTP обновляет переданные поля записи, остальные не меняются.
//
// @Summary Обновить запись
// @Tags test
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param request body models.EntryUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Entry}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /v1/test/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.Fail(w, r, http.StatusUnprocessableEntity, "id should be a valid integer")
		return
	}

	var req models.EntryUpdate
	if err := response.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	if !response.Validate(w, r, h.validate, req) {
		log.Info("validation failed")
		return
	}

	entry, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, storage.ErrEntryNotFound):
		log.Info("entry not found", slog.Int64("id", id))
		response.Fail(w, r, http.StatusNotFound, "Test not found")
		return
	case err != nil:
		log.Error("failed to update entry", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	log.Info("entry updated", slog.Int64("id", id))
	response.Success(w, r, http.StatusOK, "Test updated successfully", entry)
}
