package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/log"
)

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	cfg := &config.Config{RedisAddr: "", CacheTTLSecs: 60}
	return New(cfg, log.NewNop())
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := disabledCache(t)
	userID := uuid.New()
	ctx := context.Background()

	if c.Enabled() {
		t.Error("Enabled() = true with no redis address")
	}

	if _, ok := c.GetTaskList(ctx, userID, 50, 0); ok {
		t.Error("GetTaskList() hit on disabled cache")
	}

	// None of these may panic or error on a disabled cache.
	c.SetTaskList(ctx, userID, 50, 0, []byte(`{"tasks":[]}`))
	c.InvalidateUser(ctx, userID)
	c.Publish(ctx, userID, []byte(`{}`))

	if sub := c.Subscribe(ctx); sub != nil {
		t.Error("Subscribe() != nil on disabled cache")
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestEnabledFlag(t *testing.T) {
	cfg := &config.Config{RedisAddr: "localhost:6379", CacheTTLSecs: 60}
	c := New(cfg, log.NewNop())
	defer c.Close()

	if !c.Enabled() {
		t.Error("Enabled() = false with a redis address configured")
	}
}
