package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
)

// DeliveryEvent reports the outcome of one attempt to observers.
type DeliveryEvent struct {
	EventID       string            `json:"event_id"`
	EndpointID    string            `json:"endpoint_id"`
	TenantID      string            `json:"tenant_id"`
	Status        deliveries.Status `json:"status"`
	AttemptNumber int               `json:"attempt_number"`
	ResponseCode  int               `json:"response_code,omitempty"`
	Error         string            `json:"error,omitempty"`
	At            time.Time         `json:"at"`
}

// Emitter receives delivery outcomes. Emit must not block delivery for long
// and never fails it.
type Emitter interface {
	Emit(ctx context.Context, evt DeliveryEvent)
}

// LogEmitter writes outcomes to the request or worker logger.
type LogEmitter struct{}

func (LogEmitter) Emit(ctx context.Context, evt DeliveryEvent) {
	level := slog.LevelInfo
	switch evt.Status {
	case deliveries.StatusFailed:
		level = slog.LevelWarn
	case deliveries.StatusTerminallyFailed:
		level = slog.LevelError
	}

	logger.FromContext(ctx).Log(ctx, level, "webhook delivery",
		"event_id", evt.EventID,
		"endpoint_id", evt.EndpointID,
		"tenant_id", evt.TenantID,
		"status", evt.Status,
		"attempt", evt.AttemptNumber,
		"response_code", evt.ResponseCode,
		"error", evt.Error,
	)
}

// RedisEmitter publishes outcomes as JSON on a pub/sub channel.
type RedisEmitter struct {
	rdb     *redis.Client
	channel string
}

func NewRedisEmitter(redisURL, channel string) (*RedisEmitter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("webhooks: invalid redis url: %w", err)
	}
	return &RedisEmitter{rdb: redis.NewClient(opt), channel: channel}, nil
}

func (e *RedisEmitter) Emit(ctx context.Context, evt DeliveryEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if err := e.rdb.Publish(ctx, e.channel, data).Err(); err != nil {
		logger.FromContext(ctx).Warn("failed to publish delivery event", "error", err, "channel", e.channel)
	}
}

// Subscribe returns a pub/sub subscription to the delivery channel.
func (e *RedisEmitter) Subscribe(ctx context.Context) *redis.PubSub {
	return e.rdb.Subscribe(ctx, e.channel)
}

func (e *RedisEmitter) Close() error {
	return e.rdb.Close()
}

// Emitters fans an outcome out to several emitters.
type Emitters []Emitter

func (es Emitters) Emit(ctx context.Context, evt DeliveryEvent) {
	for _, e := range es {
		e.Emit(ctx, evt)
	}
}
