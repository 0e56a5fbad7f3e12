// Package remove реализует HTTP-обработчик удаления записи.
package remove

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
	"github.com/magabrotheeeer/registro/internal/storage"
)

// Service описывает бизнес-логику удаления записи.
type Service interface {
	Remove(ctx context.Context, id int64) error
}

// Handler обрабатывает DELETE /v1/test/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP удаляет запись и отвечает 204 без тела.
//
// @Summary Удалить запись
// @Tags test
// @Param id path int true "ID записи"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /v1/test/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.remove"

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

	err = h.service.Remove(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrEntryNotFound):
		log.Info("entry not found", slog.Int64("id", id))
		response.Fail(w, r, http.StatusNotFound, "Test not found")
		return
	case err != nil:
		log.Error("failed to remove entry", sl.Err(err))
		response.InternalError(w, r)
		return
	}

	log.Info("entry removed", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
