package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/streadway/amqp"
)

// prefetch ограничивает и число неподтвержденных сообщений, и число
// одновременно работающих обработчиков.
const prefetch = 10

// ErrDiscard помечает сообщение, которое повторная доставка не исправит.
// Такое сообщение отклоняется без возврата в очередь.
var ErrDiscard = errors.New("discard message")

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает потребителя очереди. Успешно обработанные сообщения
// подтверждаются, ошибки возвращают сообщение в очередь, кроме ErrDiscard.
//
// Каждый вызов handler ограничен timeout; ноль снимает ограничение.
// Возвращаемый канал закрывается, когда ctx отменен или доставка прекращена
// и все запущенные обработчики завершились.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler Handler, timeout time.Duration, log *slog.Logger) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		defer wg.Wait()

		sem := make(chan struct{}, prefetch)
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				wg.Add(1)
				go func(d amqp.Delivery) {
					defer wg.Done()
					defer func() { <-sem }()
					handleDelivery(ctx, d, handler, timeout, log)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done, nil
}

// Acknowledger - подтверждение доставки, выделено для тестов.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler, timeout time.Duration, log *slog.Logger) {
	settle(ctx, &d, d.MessageId, d.Body, handler, timeout, log)
}

func settle(ctx context.Context, ack Acknowledger, messageID string, body []byte, handler Handler, timeout time.Duration, log *slog.Logger) {
	log = log.With(slog.String("message_id", messageID))
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := handler(ctx, body); err != nil {
		requeue := !errors.Is(err, ErrDiscard)
		log.Error("failed to handle message", slog.Bool("requeue", requeue), sl.Err(err))
		if nackErr := ack.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
