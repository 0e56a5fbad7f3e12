// Package metrics описывает метрики Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result.
const (
	ResultSuccess            = "success"
	ResultDuplicate          = "duplicate"
	ResultInvalidCredentials = "invalid_credentials"
	ResultUnauthenticated    = "unauthenticated"
	ResultError              = "error"
)

// Auth - счетчики исходов операций аутентификации. Методы безопасно
// вызывать на nil.
type Auth struct {
	signups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	authentications *prometheus.CounterVec
}

// NewAuth регистрирует счетчики в reg.
func NewAuth(reg prometheus.Registerer) *Auth {
	f := promauto.With(reg)
	return &Auth{
		signups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registro",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Signup attempts by result.",
		}, []string{"result"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registro",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		authentications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registro",
			Subsystem: "auth",
			Name:      "authentications_total",
			Help:      "Bearer token checks by result.",
		}, []string{"result"}),
	}
}

// Signup учитывает попытку регистрации.
func (m *Auth) Signup(result string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(result).Inc()
}

// Login учитывает попытку входа.
func (m *Auth) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// Authenticate учитывает проверку токена.
func (m *Auth) Authenticate(result string) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(result).Inc()
}

// HTTP - метрики входящих запросов.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP регистрирует метрики запросов в reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "registro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Middleware считает запросы по шаблону маршрута chi.
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
