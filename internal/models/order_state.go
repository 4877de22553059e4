package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"

	"gorm.io/gorm"
)

var (
	ErrIllegalStateTransition = errors.New("illegal order state transition")
	ErrOrderStatusInvalid     = errors.New("order status invalid")
	ErrOrderItemsEmpty        = errors.New("order items empty")
	ErrOrderItemInvalid       = errors.New("order item invalid")
	ErrPaymentMethodInvalid   = errors.New("payment method invalid")
	ErrShippingAddressInvalid = errors.New("shipping address invalid")
)

// cancelBlockedStatuses 已确认或已进入履约流程的订单不可取消
var cancelBlockedStatuses = map[string]bool{
	constants.OrderStatusConfirmed:     true,
	constants.OrderStatusPreparing:     true,
	constants.OrderStatusShippingStart: true,
	constants.OrderStatusShipping:      true,
	constants.OrderStatusDelivered:     true,
}

// NormalizeOrderStatus 统一状态字符串
func NormalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsValidOrderStatus 判断状态是否属于订单状态词表
func IsValidOrderStatus(status string) bool {
	for _, item := range constants.OrderStatuses {
		if item == status {
			return true
		}
	}
	return false
}

// IsValidPaymentMethod 判断支付方式是否合法
func IsValidPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCard, constants.PaymentMethodBankTransfer:
		return true
	default:
		return false
	}
}

// InitialOrderStatus 返回新订单初始状态：支付已核验为 confirmed，否则 pending
func InitialOrderStatus(paymentVerified bool) string {
	if paymentVerified {
		return constants.OrderStatusConfirmed
	}
	return constants.OrderStatusPending
}

// ItemsSubtotal 商品小计
func (o *Order) ItemsSubtotal() int64 {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	return subtotal
}

// RecalculateTotal 按订单项快照重算总额
func (o *Order) RecalculateTotal() {
	for i := range o.Items {
		o.Items[i].TotalPrice = o.Items[i].LineTotal()
	}
	o.TotalAmount = o.ItemsSubtotal() + o.ShippingFee
}

// Validate 校验订单不变量
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrOrderItemsEmpty
	}
	for _, item := range o.Items {
		if item.ProductID == 0 || item.Quantity < 1 || item.UnitPrice < 0 {
			return fmt.Errorf("%w: product_id=%d quantity=%d unit_price=%d", ErrOrderItemInvalid, item.ProductID, item.Quantity, item.UnitPrice)
		}
	}
	if o.ShippingFee < 0 {
		return fmt.Errorf("%w: shipping fee is negative", ErrOrderItemInvalid)
	}
	if !IsValidOrderStatus(o.Status) {
		return fmt.Errorf("%w: %s", ErrOrderStatusInvalid, o.Status)
	}
	if !IsValidPaymentMethod(o.PaymentMethod) {
		return fmt.Errorf("%w: %s", ErrPaymentMethodInvalid, o.PaymentMethod)
	}
	if missing := o.ShippingAddress.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrShippingAddressInvalid, strings.Join(missing, ","))
	}
	if o.TotalAmount != o.ItemsSubtotal()+o.ShippingFee {
		return fmt.Errorf("%w: total amount mismatch", ErrOrderItemInvalid)
	}
	return nil
}

// BeforeCreate 持久化前重算总额并校验不变量
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.ShippingAddress = o.ShippingAddress.Normalize()
	o.RecalculateTotal()
	return o.Validate()
}

// UpdateStatus 管理员直接覆写状态（仅校验词表，不限制流转方向）
func (o *Order) UpdateStatus(status string) error {
	normalized := NormalizeOrderStatus(status)
	if !IsValidOrderStatus(normalized) {
		return fmt.Errorf("%w: %s", ErrOrderStatusInvalid, status)
	}
	o.Status = normalized
	return nil
}

// CanCancel 当前状态是否允许取消
func (o *Order) CanCancel() bool {
	return !cancelBlockedStatuses[o.Status]
}

// Cancel 取消订单，仅 pending 可取消；已取消订单重复取消为空操作
// 返回值 changed 表示状态是否发生变化。
func (o *Order) Cancel() (bool, error) {
	if !o.CanCancel() {
		return false, fmt.Errorf("%w: order already confirmed/shipped cannot be cancelled (status=%s)", ErrIllegalStateTransition, o.Status)
	}
	if o.Status == constants.OrderStatusCancelled {
		return false, nil
	}
	o.Status = constants.OrderStatusCancelled
	return true, nil
}
