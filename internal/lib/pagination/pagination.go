// Package pagination разбирает параметры page/limit и строит метаданные страницы.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

// Значения по умолчанию и ограничения.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage - наибольший номер страницы, при котором смещение не переполняет int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params - номер страницы (с 1) и размер страницы.
type Params struct {
	Page  int
	Limit int
}

// Offset возвращает смещение первой записи страницы. Результат не бывает
// отрицательным и не переполняется.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// FromRequest читает page и limit из query. Некорректные значения заменяются
// значениями по умолчанию, limit обрезается до MaxLimit, page до MaxPage.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{
		Page:  parsePositive(q.Get("page"), DefaultPage),
		Limit: parsePositive(q.Get("limit"), DefaultLimit),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// Meta - метаданные страницы в ответе.
type Meta struct {
	Total           int  `json:"total"`
	TotalPages      int  `json:"total_pages"`
	CurrentPage     int  `json:"current_page"`
	Limit           int  `json:"limit"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// NewMeta считает метаданные по общему числу записей.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Total:           total,
		TotalPages:      totalPages,
		CurrentPage:     p.Page,
		Limit:           p.Limit,
		HasPreviousPage: p.Page > 1,
		HasNextPage:     p.Page < totalPages,
	}
}
