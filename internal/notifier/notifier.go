// Package notifier передает приветственные сообщения после регистрации.
//
// RabbitMQ публикует сообщение в очередь уведомлений, откуда его забирает
// процесс sender. Log только пишет сообщение в лог и используется, когда
// брокер не настроен.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/registro/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/registro/internal/models"
)

// Publisher публикует сообщение в exchange с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, message any) error
}

// RabbitMQ отправляет приветственные сообщения в брокер.
type RabbitMQ struct {
	publisher Publisher
	log       *slog.Logger
}

// NewRabbitMQ создает RabbitMQ.
func NewRabbitMQ(publisher Publisher, log *slog.Logger) *RabbitMQ {
	return &RabbitMQ{
		publisher: publisher,
		log:       log,
	}
}

// NotifyWelcome публикует сообщение в очередь notification.welcome.
func (n *RabbitMQ) NotifyWelcome(ctx context.Context, msg models.WelcomeMessage) error {
	const op = "notifier.RabbitMQ.NotifyWelcome"
	if err := n.publisher.Publish(ctx, rabbitmq.Exchange, rabbitmq.WelcomeRoutingKey, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n.log.Debug("welcome message published", slog.Int64("account_id", msg.AccountID))
	return nil
}

// Log имитирует отправку письма записью в лог.
type Log struct {
	log *slog.Logger
}

// NewLog создает Log.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

// NotifyWelcome пишет в лог, кому было бы отправлено письмо.
func (n *Log) NotifyWelcome(ctx context.Context, msg models.WelcomeMessage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notifier.Log.NotifyWelcome: %w", err)
	}
	n.log.Info("simulated welcome email",
		slog.Int64("account_id", msg.AccountID),
		slog.String("to", msg.Email),
	)
	return nil
}
