//go:generate mockery --name Notifier --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

// Notifier broadcasts progress changes to other processes (dashboards, websockets).
type Notifier interface {
	PublishProgressChanged(ctx context.Context, event model.ProgressChangedEvent) error
	Close() error
}

// redisPublisher is the part of *goredis.Client the notifier uses.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
	Close() error
}

type RedisNotifier struct {
	rdb     redisPublisher
	channel string
}

// NewNotifier connects to redis.addr, or returns a no-op notifier when it is empty.
func NewNotifier(ctx context.Context, cfg *config.RedisConfig) (Notifier, error) {
	if cfg.Addr == "" {
		return NoopNotifier{}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisNotifier(rdb, cfg.Channel), nil
}

func NewRedisNotifier(rdb redisPublisher, channel string) *RedisNotifier {
	if channel == "" {
		channel = config.DefaultRedisChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (n *RedisNotifier) PublishProgressChanged(ctx context.Context, event model.ProgressChangedEvent) error {
	raw, err := json.Marshal(struct {
		Type string `json:"type"`
		model.ProgressChangedEvent
	}{Type: "progress.changed", ProgressChangedEvent: event})
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to publish progress event", "error", err, "channel", n.channel)
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.rdb.Close()
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) PublishProgressChanged(context.Context, model.ProgressChangedEvent) error {
	return nil
}

func (NoopNotifier) Close() error { return nil }
