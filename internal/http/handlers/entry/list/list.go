// Package list реализует HTTP-обработчик постраничного списка записей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/registro/internal/http/response"
	"github.com/magabrotheeeer/registro/internal/lib/pagination"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
)

// Service описывает бизнес-логику получения списка записей.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]models.Entry, int, error)
}

// Handler обрабатывает GET /v1/test.
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

// ServeHTTP возвращает страницу записей и метаданные пагинации.
//
// @Summary Список записей
// @Tags test
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} response.Response{data=[]models.Entry,meta=pagination.Meta}
// @Failure 500 {object} response.ErrorResponse
// @Router /v1/test [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p := pagination.FromRequest(r)

	entries, total, err := h.service.List(r.Context(), p.Limit, p.Offset())
	if err != nil {
		log.Error("failed to list entries", sl.Err(err))
		response.InternalError(w, r)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	log.Debug("entries listed", slog.Int("count", len(entries)), slog.Int("total", total))
	response.Success(w, r, http.StatusOK, "Tests retrieved successfully", entries, pagination.NewMeta(p, total))
}
