package models

import (
	"time"
)

// Cart 购物车（每个用户唯一）
type Cart struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`    // 所属用户
	TotalAmount int64     `gorm:"not null;default:0" json:"total_amount"` // 商品总额（派生字段）
	TotalItems  int       `gorm:"not null;default:0" json:"total_items"`  // 商品件数（派生字段）
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Recalculate 按商品当前价格重算派生字段
func (c *Cart) Recalculate() {
	if c == nil {
		return
	}
	var amount int64
	var count int
	for _, item := range c.Items {
		count += item.Quantity
		if item.Product != nil {
			amount += item.Product.PriceAmount * int64(item.Quantity)
		}
	}
	c.TotalAmount = amount
	c.TotalItems = count
}
