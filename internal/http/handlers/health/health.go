// Package health содержит обработчики проверки доступности сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"
)

// Root отвечает на GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"message": "Ok. Registro API running."})
}

// Health отвечает на GET /v1/health.
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
