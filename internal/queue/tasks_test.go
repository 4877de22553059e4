package queue

import (
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

func TestCartClearTaskRoundTrip(t *testing.T) {
	orderedAt := time.Date(2025, 3, 14, 15, 30, 22, 0, time.UTC)
	task, err := NewCartClearTask(CartClearPayload{UserID: 42, OrderNo: "ORD-20250314-153022-0417", ProductIDs: []uint{3, 9}, OrderedAt: orderedAt})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCartClear {
		t.Fatalf("task type want %s got %s", TaskCartClear, task.Type())
	}
	payload, err := ParseCartClearPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.UserID != 42 || payload.OrderNo != "ORD-20250314-153022-0417" || len(payload.ProductIDs) != 2 || !payload.OrderedAt.Equal(orderedAt) {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	if _, err := ParseCartClearPayload(asynq.NewTask(TaskCartClear, []byte(`{"order_no":"x"}`))); err == nil {
		t.Fatalf("payload without user id should be rejected")
	}
	if _, err := ParseCartClearPayload(asynq.NewTask(TaskCartClear, []byte(`{"user_id":42,"order_no":"x"}`))); err == nil {
		t.Fatalf("payload without ordered products should be rejected")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueCartClear(CartClearPayload{UserID: 1, OrderNo: "ORD"}); err != nil {
		t.Fatalf("disabled enqueue should be no-op, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, Concurrency: 3})
	if opt.Addr != "redis:6380" {
		t.Fatalf("addr want redis:6380 got %s", opt.Addr)
	}
	if cfg.Concurrency != 3 || cfg.Queues[DefaultQueue] != 1 || cfg.Queues[constants.QueueCritical] != 2 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestRetryDelayIsCapped(t *testing.T) {
	if got := retryDelay(0, nil, nil); got != time.Second {
		t.Fatalf("first retry want 1s got %s", got)
	}
	if got := retryDelay(3, nil, nil); got != 8*time.Second {
		t.Fatalf("fourth retry want 8s got %s", got)
	}
	if got := retryDelay(20, nil, nil); got != maxRetryDelay {
		t.Fatalf("late retry want %s got %s", maxRetryDelay, got)
	}
}

func TestRedisConnOptDefaults(t *testing.T) {
	if got := RedisConnOpt(nil).Addr; got != "127.0.0.1:6379" {
		t.Fatalf("nil config addr want 127.0.0.1:6379 got %s", got)
	}
	opt := RedisConnOpt(&config.QueueConfig{Password: "p", DB: 2})
	if opt.Addr != "127.0.0.1:6379" || opt.Password != "p" || opt.DB != 2 {
		t.Fatalf("unexpected opt: %+v", opt)
	}
}
