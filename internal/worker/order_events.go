package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ghhamo/lootsy/internal/broker"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/service"
)

const (
	idempotencyTTL = 24 * time.Hour
	retryDelay     = time.Second
	maxRetryDelay  = 30 * time.Second
)

// Cache is the subset of the redis client the worker needs.
type Cache interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// OrderEventWorker drops cached account stats whenever a user places an order.
type OrderEventWorker struct {
	channel *amqp.Channel
	cache   Cache
	log     *slog.Logger
	done    chan struct{}

	// backoff before a requeue, doubled per consecutive failure up to maxDelay
	baseDelay time.Duration
	maxDelay  time.Duration
	failures  int
}

func NewOrderEventWorker(ch *amqp.Channel, cache Cache, log *slog.Logger) *OrderEventWorker {
	return &OrderEventWorker{
		channel: ch, cache: cache, log: log, done: make(chan struct{}),
		baseDelay: retryDelay, maxDelay: maxRetryDelay,
	}
}

func (w *OrderEventWorker) Start(ctx context.Context) error {
	if err := w.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	msgs, err := w.channel.Consume(broker.OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.handle(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order event worker started", "queue", broker.OrderEventsQueue)
	return nil
}

func (w *OrderEventWorker) Stop() { close(w.done) }

func (w *OrderEventWorker) handle(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.ID == "" {
		w.log.Error("malformed order event", "error", err, "message_id", msg.MessageId)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.ID, "order_id", event.OrderID, "user_id", event.UserID)

	if event.Type != model.OrderEventCreated {
		log.Warn("ignoring order event", "type", event.Type)
		_ = msg.Ack(false)
		return
	}

	key := "order_event:" + event.ID
	first, err := w.cache.SetNX(ctx, key, "1", idempotencyTTL).Result()
	if err != nil {
		log.Error("claim idempotency key", "error", err)
		w.requeue(ctx, msg)
		return
	}
	if !first {
		w.failures = 0
		log.Info("order event already handled, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.cache.Del(ctx, service.StatsCacheKey(event.UserID)).Err(); err != nil {
		log.Error("invalidate account stats", "error", err)
		w.cache.Del(ctx, key)
		w.requeue(ctx, msg)
		return
	}

	w.failures = 0
	_ = msg.Ack(false)
	log.Info("account stats invalidated")
}

// requeue waits out the current backoff and hands msg back to the broker. With prefetch 1 the
// same message comes straight back, so without the wait a cache outage would spin.
func (w *OrderEventWorker) requeue(ctx context.Context, msg amqp.Delivery) {
	delay := w.backoff()
	w.failures++

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-w.done:
	case <-ctx.Done():
	}
	_ = msg.Nack(false, true)
}

func (w *OrderEventWorker) backoff() time.Duration {
	d := w.baseDelay
	for i := 0; i < w.failures && d < w.maxDelay; i++ {
		d *= 2
	}
	return min(d, w.maxDelay)
}
