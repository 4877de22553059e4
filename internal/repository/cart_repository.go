package repository

import (
	"errors"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	SetItemQuantity(userID, productID uint, quantity int) (*models.Cart, error)
	ClearByUser(userID uint) error
	RemoveItemsUpdatedBefore(userID uint, productIDs []uint, cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车（含商品），不存在返回 nil
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateByUser 获取购物车，不存在时懒创建
func (r *GormCartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	cart, err := r.GetByUser(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &models.Cart{UserID: userID}
	if err := r.db.Create(cart).Error; err != nil {
		if !IsUniqueViolation(err) {
			return nil, err
		}
		// 并发创建时回读已存在的购物车
		return r.GetByUser(userID)
	}
	return cart, nil
}

// SetItemQuantity 设置购物车项数量，quantity<=0 时删除该项，随后重算派生字段
func (r *GormCartRepository) SetItemQuantity(userID, productID uint, quantity int) (*models.Cart, error) {
	var result *models.Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &GormCartRepository{db: tx}
		cart, err := txRepo.GetOrCreateByUser(userID)
		if err != nil {
			return err
		}
		if quantity <= 0 {
			if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		} else {
			var existing models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
				if err := tx.Create(item).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&existing).Update("quantity", quantity).Error; err != nil {
					return err
				}
			}
		}
		refreshed, err := txRepo.refreshTotals(userID)
		if err != nil {
			return err
		}
		result = refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshTotals 按当前购物车项重算并写回派生字段
func (r *GormCartRepository) refreshTotals(userID uint) (*models.Cart, error) {
	cart, err := r.GetByUser(userID)
	if err != nil || cart == nil {
		return cart, err
	}
	cart.Recalculate()
	if err := r.db.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"total_amount": cart.TotalAmount,
		"total_items":  cart.TotalItems,
	}).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItemsUpdatedBefore 删除指定商品中最后变更不晚于 cutoff 的购物车项，返回删除条数
// cutoff 之后新增或改过数量的项保留。
func (r *GormCartRepository) RemoveItemsUpdatedBefore(userID uint, productIDs []uint, cutoff time.Time) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		result := tx.Where("cart_id = ? AND product_id IN ? AND updated_at <= ?", cart.ID, productIDs, cutoff).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		if removed == 0 {
			return nil
		}
		_, err := (&GormCartRepository{db: tx}).refreshTotals(userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ClearByUser 清空购物车项并归零派生字段
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
			"total_amount": 0,
			"total_items":  0,
		}).Error
	})
}
