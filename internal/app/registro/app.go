// Package registro собирает HTTP-приложение: хранилище, кеш, уведомления,
// сервисы и маршруты.
package registro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/registro/internal/cache"
	"github.com/magabrotheeeer/registro/internal/config"
	"github.com/magabrotheeeer/registro/internal/lib/jwt"
	"github.com/magabrotheeeer/registro/internal/lib/metrics"
	"github.com/magabrotheeeer/registro/internal/lib/password"
	"github.com/magabrotheeeer/registro/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/migrations"
	"github.com/magabrotheeeer/registro/internal/notifier"
	"github.com/magabrotheeeer/registro/internal/services/auth"
	"github.com/magabrotheeeer/registro/internal/services/entry"
	"github.com/magabrotheeeer/registro/internal/storage"
	"github.com/magabrotheeeer/registro/internal/storage/memory"
)

const shutdownTimeout = 15 * time.Second

// App - HTTP-приложение Registro.
type App struct {
	server      *http.Server
	logger      *slog.Logger
	authService *auth.AuthService
	closers     []func() error
}

// New создает приложение по конфигу. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	const op = "registro.New"
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		store     auth.Store
		entryRepo entry.Repository
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		mem := memory.New()
		store = newAccountStore[*memory.Repository](mem)
		entryRepo = mem.Repository()
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := storage.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, db.Close)
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = newAccountStore[*storage.Repository](db)
		entryRepo = db.Repository()
	}

	var entryCache entry.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, redisCache.Close)
		entryCache = redisCache
	} else {
		logger.Info("redis address is empty, entry cache disabled")
	}

	var welcome auth.Notifier
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, ch.Close)
		welcome = notifier.NewRabbitMQ(rabbitmq.NewPublisher(ch), logger)
	} else {
		logger.Info("rabbitmq url is empty, welcome emails are only logged")
		welcome = notifier.NewLog(logger)
	}

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL())
	a.authService = auth.NewAuthService(store, password.Hasher{}, tokens, welcome, logger,
		auth.WithMetrics(metrics.NewAuth(reg)),
		auth.WithNotificationTimeout(cfg.NotificationTimeout),
	)
	entryService := entry.NewService(entryRepo, entryCache, logger)

	router := NewRouter(Deps{
		Logger:   logger,
		Auth:     a.authService,
		Entries:  entryService,
		Registry: reg,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
// После остановки дожидается отправки уведомлений и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.authService.Wait()
	a.close()
	return err
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
