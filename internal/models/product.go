package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（目录由外部维护，此处仅读取价格与上架状态）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                             // 主键
	SKU         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"` // 商品编码
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`           // 商品名称
	Category    string         `gorm:"type:varchar(64);index" json:"category"`           // 分类
	Image       string         `gorm:"type:varchar(500)" json:"image"`                   // 主图
	Description string         `gorm:"type:text" json:"description"`                     // 描述
	PriceAmount int64          `gorm:"not null;default:0" json:"price"`                  // 当前售价
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`              // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
