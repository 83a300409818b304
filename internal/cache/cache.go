// Package cache provides an optional Redis layer: cached task-list
// responses and a pub/sub channel that fans task change events out to
// other server instances. With no Redis address configured every
// operation degrades to a no-op and the server runs single-instance.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskhive/taskhive/internal/config"
)

// eventsChannel carries task change events between server instances.
const eventsChannel = "taskhive:events"

// Message is one task change event on the pub/sub channel. Payload is
// the already-serialized event JSON; the cache does not interpret it.
type Message struct {
	UserID  uuid.UUID       `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Cache wraps a Redis client. A nil client means caching is disabled.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache from config. An empty Redis address disables it.
func New(cfg *config.Config, logger *slog.Logger) *Cache {
	c := &Cache{ttl: cfg.CacheTTL(), logger: logger}
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, caching disabled")
		return c
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	logger.Info("redis cache enabled", "addr", cfg.RedisAddr, "ttl", c.ttl)
	return c
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GetTaskList returns a cached task-list response, if present. Cache
// errors are logged and treated as misses; Redis being down must never
// fail a request.
func (c *Cache) GetTaskList(ctx context.Context, userID uuid.UUID, limit, offset int) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	key, err := c.taskListKey(ctx, userID, limit, offset)
	if err != nil {
		c.logger.Warn("cache key lookup failed", "error", err)
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", "error", err)
		}
		return nil, false
	}
	return payload, true
}

// SetTaskList stores a task-list response under the user's current
// cache generation.
func (c *Cache) SetTaskList(ctx context.Context, userID uuid.UUID, limit, offset int, payload []byte) {
	if c.client == nil {
		return
	}
	key, err := c.taskListKey(ctx, userID, limit, offset)
	if err != nil {
		c.logger.Warn("cache key lookup failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "error", err)
	}
}

// InvalidateUser drops every cached list for the user by bumping their
// cache generation. Old keys are left to expire via TTL instead of
// being scanned for.
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, c.generationKey(userID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "error", err)
	}
}

// Publish broadcasts a task change event to all subscribed instances.
func (c *Cache) Publish(ctx context.Context, userID uuid.UUID, payload []byte) {
	if c.client == nil {
		return
	}
	msg, err := json.Marshal(Message{UserID: userID, Payload: payload})
	if err != nil {
		c.logger.Warn("event marshal failed", "error", err)
		return
	}
	if err := c.client.Publish(ctx, eventsChannel, msg).Err(); err != nil {
		c.logger.Warn("event publish failed", "error", err)
	}
}

// Subscribe returns a channel of task change events published by any
// instance, or nil when Redis is disabled. The channel closes when ctx
// is cancelled.
func (c *Cache) Subscribe(ctx context.Context) <-chan Message {
	if c.client == nil {
		return nil
	}

	sub := c.client.Subscribe(ctx, eventsChannel)
	out := make(chan Message)

	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-sub.Channel():
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					c.logger.Warn("bad event payload", "error", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (c *Cache) generationKey(userID uuid.UUID) string {
	return fmt.Sprintf("taskhive:gen:%s", userID)
}

func (c *Cache) taskListKey(ctx context.Context, userID uuid.UUID, limit, offset int) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("taskhive:tasks:%s:%d:%d:%d", userID, gen, limit, offset), nil
}
