package models

import (
	"strings"
	"time"
)

// ShippingAddress 收货信息（值对象，随订单内嵌存储）
type ShippingAddress struct {
	RecipientName  string `gorm:"type:varchar(100);not null" json:"recipient_name"` // 收件人
	RecipientPhone string `gorm:"type:varchar(40);not null" json:"recipient_phone"` // 联系电话
	Address        string `gorm:"type:varchar(500);not null" json:"address"`        // 详细地址
}

// Normalize 去除首尾空白
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		RecipientName:  strings.TrimSpace(a.RecipientName),
		RecipientPhone: strings.TrimSpace(a.RecipientPhone),
		Address:        strings.TrimSpace(a.Address),
	}
}

// MissingFields 返回缺失的必填字段
func (a ShippingAddress) MissingFields() []string {
	normalized := a.Normalize()
	var missing []string
	if normalized.RecipientName == "" {
		missing = append(missing, "shipping_address.recipient_name")
	}
	if normalized.RecipientPhone == "" {
		missing = append(missing, "shipping_address.recipient_phone")
	}
	if normalized.Address == "" {
		missing = append(missing, "shipping_address.address")
	}
	return missing
}

// PaymentReference 网关支付引用（可选）
// 交易号与商户订单号均为可空列并各自带唯一索引，NULL 不参与唯一性比较。
type PaymentReference struct {
	GatewayTransactionID *string `gorm:"type:varchar(100);uniqueIndex:idx_orders_payment_gateway_tx" json:"gateway_transaction_id,omitempty"` // 网关交易号
	MerchantOrderID      *string `gorm:"type:varchar(100);uniqueIndex:idx_orders_payment_merchant" json:"merchant_order_id,omitempty"`        // 商户订单号
	PaidAmount           *int64  `json:"paid_amount,omitempty"`                                                                               // 客户端上报的实付金额
	PayMethod            string  `gorm:"type:varchar(40)" json:"pay_method,omitempty"`                                                        // 网关支付方式
}

// IsZero 是否未携带任何支付引用
func (p PaymentReference) IsZero() bool {
	return p.GatewayTransactionIDValue() == "" && p.MerchantOrderIDValue() == "" && p.PaidAmount == nil && strings.TrimSpace(p.PayMethod) == ""
}

// GatewayTransactionIDValue 返回网关交易号（空值返回空串）
func (p PaymentReference) GatewayTransactionIDValue() string {
	if p.GatewayTransactionID == nil {
		return ""
	}
	return strings.TrimSpace(*p.GatewayTransactionID)
}

// MerchantOrderIDValue 返回商户订单号（空值返回空串）
func (p PaymentReference) MerchantOrderIDValue() string {
	if p.MerchantOrderID == nil {
		return ""
	}
	return strings.TrimSpace(*p.MerchantOrderID)
}

// NewPaymentReference 构建支付引用，空字符串写入 NULL
func NewPaymentReference(gatewayTransactionID, merchantOrderID string, paidAmount *int64, payMethod string) PaymentReference {
	ref := PaymentReference{
		PaidAmount: paidAmount,
		PayMethod:  strings.TrimSpace(payMethod),
	}
	if v := strings.TrimSpace(gatewayTransactionID); v != "" {
		ref.GatewayTransactionID = &v
	}
	if v := strings.TrimSpace(merchantOrderID); v != "" {
		ref.MerchantOrderID = &v
	}
	return ref
}

// Order 订单表（不做物理删除，取消通过状态流转表达）
type Order struct {
	ID              uint             `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string           `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"`     // 订单编号
	UserID          uint             `gorm:"index;not null" json:"user_id"`                             // 下单用户
	Status          string           `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	PaymentMethod   string           `gorm:"type:varchar(20);not null" json:"payment_method"`           // 支付方式
	ShippingFee     int64            `gorm:"not null;default:0" json:"shipping_fee"`                    // 运费（创建时计算一次）
	TotalAmount     int64            `gorm:"not null;default:0" json:"total_amount"`                    // 订单总额 = 商品小计 + 运费
	ShippingAddress ShippingAddress  `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"` // 收货信息
	Payment         PaymentReference `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`           // 支付引用
	Notes           string           `gorm:"type:text" json:"notes"`                                    // 备注
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time        `gorm:"index" json:"updated_at"`                                   // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
