// Package sender собирает процесс доставки приветственных писем:
// потребитель очереди notification.welcome и SMTP-транспорт.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/registro/internal/config"
	"github.com/magabrotheeeer/registro/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/registro/internal/services/sender"
)

// ErrNoBroker возвращается, если в конфиге не задан адрес RabbitMQ.
var ErrNoBroker = errors.New("rabbitmq url is not configured")

// App - процесс отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger

	handlerTimeout time.Duration
}

// New подключается к брокеру и объявляет очереди уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoBroker)
	}
	if cfg.SMTPHost == "" {
		logger.Warn("smtp host is empty, deliveries will fail and be requeued")
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(transport, logger),
		logger:        logger,

		handlerTimeout: cfg.HandlerTimeout,
	}, nil
}

// Run обрабатывает очередь до отмены ctx, затем дожидается текущих
// обработчиков и закрывает соединение.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.WelcomeQueue, a.senderService.SendWelcome, a.handlerTimeout, a.logger)
	if err != nil {
		a.logger.Error("failed to start welcome queue consumer", sl.Err(err))
		a.close()
		return err
	}
	a.logger.Info("consuming welcome queue", slog.String("queue", rabbitmq.WelcomeQueue))

	select {
	case <-ctx.Done():
		a.logger.Info("sender service shutting down gracefully")
		<-done
	case <-done:
		a.logger.Warn("delivery channel closed by broker")
	}

	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
