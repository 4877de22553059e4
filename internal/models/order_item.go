package models

import (
	"time"
)

// OrderItem 订单项（单价为下单时刻快照，创建后不可变）
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                  // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`        // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`      // 商品ID（不随商品删除级联）
	ProductName string    `gorm:"type:varchar(200)" json:"product_name"` // 商品名称快照
	ProductSKU  string    `gorm:"type:varchar(64)" json:"product_sku"`   // 商品编码快照
	UnitPrice   int64     `gorm:"not null;default:0" json:"unit_price"`  // 下单时单价
	Quantity    int       `gorm:"not null" json:"quantity"`              // 数量
	TotalPrice  int64     `gorm:"not null;default:0" json:"total_price"` // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 单价 × 数量
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
