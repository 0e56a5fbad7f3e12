package registro

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/registro/docs"
	"github.com/magabrotheeeer/registro/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/registro/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/registro/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/registro/internal/http/handlers/entry/create"
	"github.com/magabrotheeeer/registro/internal/http/handlers/entry/list"
	"github.com/magabrotheeeer/registro/internal/http/handlers/entry/read"
	"github.com/magabrotheeeer/registro/internal/http/handlers/entry/remove"
	"github.com/magabrotheeeer/registro/internal/http/handlers/entry/update"
	"github.com/magabrotheeeer/registro/internal/http/handlers/health"
	"github.com/magabrotheeeer/registro/internal/http/middlewarectx"
	"github.com/magabrotheeeer/registro/internal/lib/metrics"
	"github.com/magabrotheeeer/registro/internal/services/auth"
	"github.com/magabrotheeeer/registro/internal/services/entry"
)

// Deps - зависимости HTTP-маршрутов.
type Deps struct {
	Logger   *slog.Logger
	Auth     *auth.AuthService
	Entries  *entry.Service
	Registry *prometheus.Registry
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.NewHTTP(d.Registry).Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
	)

	r.Get("/", health.Root)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signup.New(d.Logger, d.Auth).ServeHTTP)
			r.Post("/login", login.New(d.Logger, d.Auth).ServeHTTP)

			// Группа с JWT аутентификацией
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(d.Auth, d.Logger))
				r.Get("/me", me.New(d.Logger).ServeHTTP)
			})
		})

		r.Route("/test", func(r chi.Router) {
			r.Post("/", create.New(d.Logger, d.Entries).ServeHTTP)
			r.Get("/", list.New(d.Logger, d.Entries).ServeHTTP)
			r.Get("/{id}", read.New(d.Logger, d.Entries).ServeHTTP)
			r.Put("/{id}", update.New(d.Logger, d.Entries).ServeHTTP)
			r.Delete("/{id}", remove.New(d.Logger, d.Entries).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
