// Package read реализует HTTP-обработчик для получения записи по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
	"github.com/magabrotheeeer/registro/internal/storage"
)

// Service описывает бизнес-логику чтения записи.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Entry, error)
}

// Handler обрабатывает GET /v1/test/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает запись по ID.
//
// @Summary Получить запись
// @Tags test
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} response.Response{data=models.Entry}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /v1/test/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.read"

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

	entry, err := h.service.Get(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrEntryNotFound):
		log.Info("entry not found", slog.Int64("id", id))
		response.Fail(w, r, http.StatusNotFound, "Test not found")
		return
	case err != nil:
		log.Error("failed to read entry", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	response.Success(w, r, http.StatusOK, "Test retrieved successfully", entry)
}
