package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartClear 下单后购物车清空补偿任务
	TaskCartClear = constants.TaskCartClear
)

// CartClearPayload 购物车清空任务载荷
// 只移除订单快照中的商品，且仅限下单时刻之前最后变更的购物车项。
type CartClearPayload struct {
	UserID     uint      `json:"user_id"`
	OrderNo    string    `json:"order_no"`
	ProductIDs []uint    `json:"product_ids"`
	OrderedAt  time.Time `json:"ordered_at"`
}

// NewCartClearTask 创建购物车清空任务
func NewCartClearTask(payload CartClearPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartClear, body), nil
}

// ParseCartClearPayload 解析购物车清空任务载荷
func ParseCartClearPayload(task *asynq.Task) (CartClearPayload, error) {
	var payload CartClearPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	if payload.UserID == 0 {
		return payload, fmt.Errorf("cart clear payload missing user_id")
	}
	if len(payload.ProductIDs) == 0 || payload.OrderedAt.IsZero() {
		return payload, fmt.Errorf("cart clear payload for order %s missing product_ids or ordered_at", payload.OrderNo)
	}
	return payload, nil
}
