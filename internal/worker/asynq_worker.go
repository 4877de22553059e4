package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

// CartClearer 按订单移除购物车项的能力
type CartClearer interface {
	RemoveOrderedItems(userID uint, productIDs []uint, orderedAt time.Time) (int64, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	carts CartClearer
}

// NewConsumer 从容器创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{carts: c.CartService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartClear, c.handleCartClear)
}

// handleCartClear 订单已落库但同步清空购物车失败时的补偿；只删除下单时刻之前的订单商品，可安全重试
func (c *Consumer) handleCartClear(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_clear_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCartClearPayload(task)
	if err != nil {
		logger.Warnw("worker_cart_clear_invalid_payload", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.carts == nil {
		logger.Warnw("worker_cart_clear_skip_cart_service_nil", "order_no", payload.OrderNo, "user_id", payload.UserID)
		return nil
	}
	removed, err := c.carts.RemoveOrderedItems(payload.UserID, payload.ProductIDs, payload.OrderedAt)
	if err != nil {
		logger.Warnw("worker_cart_clear_failed",
			"order_no", payload.OrderNo,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_cart_clear_done", "order_no", payload.OrderNo, "user_id", payload.UserID, "removed", removed)
	return nil
}
