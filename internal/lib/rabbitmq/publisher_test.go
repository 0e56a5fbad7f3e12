package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu       sync.Mutex
	inFlight int
	overlap  bool
	got      []published
	err      error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > 1 {
		f.overlap = true
	}
	f.got = append(f.got, published{exchange: exchange, key: key, msg: msg})
	f.mu.Unlock()

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return f.err
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishMessage(t *testing.T) {
	type TestMsg struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	t.Run("persistent json with message id", func(t *testing.T) {
		ch := &fakeChannel{}
		err := PublishMessage(ch, Exchange, WelcomeRoutingKey, TestMsg{ID: 1, Name: "Hello"})
		require.NoError(t, err)

		require.Len(t, ch.got, 1)
		p := ch.got[0]
		assert.Equal(t, Exchange, p.exchange)
		assert.Equal(t, WelcomeRoutingKey, p.key)
		assert.Equal(t, "application/json", p.msg.ContentType)
		assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)
		assert.NotEmpty(t, p.msg.MessageId)

		var got TestMsg
		require.NoError(t, json.Unmarshal(p.msg.Body, &got))
		assert.Equal(t, TestMsg{ID: 1, Name: "Hello"}, got)
	})

	t.Run("marshal error", func(t *testing.T) {
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{
			Ch: make(chan int),
		}

		err := PublishMessage(&fakeChannel{}, "", "q", badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})

	t.Run("channel error", func(t *testing.T) {
		wantErr := errors.New("channel closed")
		err := PublishMessage(&fakeChannel{err: wantErr}, "", "q", map[string]int{"a": 1})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), Exchange, WelcomeRoutingKey, map[string]int{"n": i}))
		}()
	}
	wg.Wait()

	assert.Len(t, ch.got, 50)
	assert.False(t, ch.overlap)

	ids := map[string]bool{}
	for _, m := range ch.got {
		ids[m.msg.MessageId] = true
	}
	assert.Len(t, ids, 50)
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := &fakeChannel{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPublisher(ch).Publish(ctx, Exchange, WelcomeRoutingKey, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.got)
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantAck     bool
		wantRequeue bool
	}{
		{name: "handled", wantAck: true},
		{name: "transient error requeues", handlerErr: errors.New("smtp down"), wantRequeue: true},
		{name: "discard drops", handlerErr: errors.Join(ErrDiscard, errors.New("bad json")), wantRequeue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			var gotBody []byte
			handler := func(_ context.Context, body []byte) error {
				gotBody = body
				return tt.handlerErr
			}

			settle(context.Background(), ack, "msg-1", []byte("payload"), handler, 0, newNoopLogger())

			assert.Equal(t, []byte("payload"), gotBody)
			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, !tt.wantAck, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
		})
	}
}

func TestSettle_HandlerTimeout(t *testing.T) {
	ack := &fakeAck{}
	var hadDeadline bool
	handler := func(ctx context.Context, _ []byte) error {
		_, hadDeadline = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		settle(context.Background(), ack, "msg-1", []byte("payload"), handler, 50*time.Millisecond, newNoopLogger())
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not interrupted by timeout")
	}
	assert.True(t, hadDeadline)
	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues()
	require.NotEmpty(t, queues)

	assert.Equal(t, WelcomeQueue, queues[0].QueueName)
	assert.Equal(t, WelcomeRoutingKey, queues[0].RoutingKey)

	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}
