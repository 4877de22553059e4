package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

const (
	matchedByMerchantOrderID      = "merchant_order_id"
	matchedByGatewayTransactionID = "gateway_transaction_id"
)

// OrderSummary 已存在订单摘要
type OrderSummary struct {
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DuplicateCheckResult 重复订单检查结果
type DuplicateCheckResult struct {
	IsDuplicate   bool
	ExistingOrder *OrderSummary
	MatchedBy     string
}

// DuplicateGuard 重复订单守卫（只读）。
// 两个标识分别独立检查，任意一个命中即视为重复；存储错误直接返回，不降级为“未重复”。
type DuplicateGuard struct {
	orderRepo repository.OrderRepository
}

// NewDuplicateGuard 创建重复订单守卫
func NewDuplicateGuard(orderRepo repository.OrderRepository) *DuplicateGuard {
	return &DuplicateGuard{orderRepo: orderRepo}
}

// Check 按商户订单号与网关交易号检查是否已有订单
func (g *DuplicateGuard) Check(merchantOrderID, gatewayTransactionID string) (DuplicateCheckResult, error) {
	if id := strings.TrimSpace(merchantOrderID); id != "" {
		order, err := g.orderRepo.FindByMerchantOrderID(id)
		if err != nil {
			return DuplicateCheckResult{}, fmt.Errorf("duplicate check by merchant_order_id: %w", err)
		}
		if order != nil {
			return duplicateOf(order, matchedByMerchantOrderID), nil
		}
	}
	if id := strings.TrimSpace(gatewayTransactionID); id != "" {
		order, err := g.orderRepo.FindByGatewayTransactionID(id)
		if err != nil {
			return DuplicateCheckResult{}, fmt.Errorf("duplicate check by gateway_transaction_id: %w", err)
		}
		if order != nil {
			return duplicateOf(order, matchedByGatewayTransactionID), nil
		}
	}
	return DuplicateCheckResult{}, nil
}

func duplicateOf(order *models.Order, matchedBy string) DuplicateCheckResult {
	return DuplicateCheckResult{
		IsDuplicate:   true,
		ExistingOrder: summarizeOrder(order),
		MatchedBy:     matchedBy,
	}
}

func summarizeOrder(order *models.Order) *OrderSummary {
	return &OrderSummary{
		OrderID:   order.ID,
		OrderNo:   order.OrderNo,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
}

// asError 将命中结果转为 DuplicateOrderError
func (r DuplicateCheckResult) asError() error {
	if !r.IsDuplicate || r.ExistingOrder == nil {
		return nil
	}
	return &DuplicateOrderError{
		OrderID:   r.ExistingOrder.OrderID,
		OrderNo:   r.ExistingOrder.OrderNo,
		MatchedBy: r.MatchedBy,
	}
}
