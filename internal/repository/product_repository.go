package repository

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品读取与种子写入
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpsertBySKU(product *models.Product) (*models.Product, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID 不存在返回 nil；已软删除的商品视为不存在
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	return firstProduct(r.db.Where("id = ?", id), &product)
}

// GetBySKU SKU 会先去除首尾空白
func (r *GormProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	return firstProduct(r.db.Where("sku = ?", strings.TrimSpace(sku)), &product)
}

func firstProduct(query *gorm.DB, product *models.Product) (*models.Product, error) {
	if err := query.First(product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 全字段保存
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpsertBySKU 按 SKU 插入或覆盖商品资料（同时恢复软删除），返回落库后的记录
func (r *GormProductRepository) UpsertBySKU(product *models.Product) (*models.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	product.SKU = strings.TrimSpace(product.SKU)
	if product.SKU == "" {
		return nil, errors.New("product sku is empty")
	}
	// gorm 插入时会把 default:true 回写到 IsActive，先记下调用方的取值
	active := product.IsActive
	var saved *models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "image", "description", "price_amount", "updated_at", "deleted_at"}),
		}).Create(product).Error
		if err != nil {
			return err
		}
		product.IsActive = active
		if err := tx.Model(&models.Product{}).Where("sku = ?", product.SKU).Update("is_active", active).Error; err != nil {
			return err
		}
		var row models.Product
		found, err := firstProduct(tx.Where("sku = ?", product.SKU), &row)
		if err != nil {
			return err
		}
		if found == nil {
			return gorm.ErrRecordNotFound
		}
		saved = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
