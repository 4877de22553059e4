package repository

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	FindByMerchantOrderID(merchantOrderID string) (*models.Order, error)
	FindByGatewayTransactionID(transactionID string) (*models.Order, error)
	ExistsOrderNo(orderNo string) (bool, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string) error
	CompareAndSetStatus(id uint, from, to string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单项（订单项随关联一并写入）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) firstWithItems(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	return r.firstWithItems(r.db.Where("id = ?", id))
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, nil
	}
	return r.firstWithItems(r.db.Where("order_no = ?", orderNo))
}

// FindByMerchantOrderID 根据商户订单号查找订单
func (r *GormOrderRepository) FindByMerchantOrderID(merchantOrderID string) (*models.Order, error) {
	merchantOrderID = strings.TrimSpace(merchantOrderID)
	if merchantOrderID == "" {
		return nil, nil
	}
	return r.firstWithItems(r.db.Where("payment_merchant_order_id = ?", merchantOrderID))
}

// FindByGatewayTransactionID 根据网关交易号查找订单
func (r *GormOrderRepository) FindByGatewayTransactionID(transactionID string) (*models.Order, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, nil
	}
	return r.firstWithItems(r.db.Where("payment_gateway_transaction_id = ?", transactionID))
}

// ExistsOrderNo 订单编号是否已被占用
func (r *GormOrderRepository) ExistsOrderNo(orderNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormOrderRepository) applyListFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		condition, arg := containsCondition(r.db, "order_no", orderNo)
		query = query.Where(condition, arg)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

func (r *GormOrderRepository) list(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))
	if err := query.Preload("Items").Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByUser 获取用户订单列表（最新优先）
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return []models.Order{}, 0, nil
	}
	return r.list(r.applyListFilter(r.db.Model(&models.Order{}), filter), filter)
}

// ListAdmin 管理端订单列表（最新优先）
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(r.applyListFilter(r.db.Model(&models.Order{}), filter), filter)
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

// CompareAndSetStatus 条件更新订单状态，仅当当前状态为 from 时写入 to，返回影响行数
func (r *GormOrderRepository) CompareAndSetStatus(id uint, from, to string) (int64, error) {
	result := r.db.Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
