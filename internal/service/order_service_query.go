package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// Actor 上游认证层解析出的调用方身份
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// OrderListQuery 订单列表查询条件
type OrderListQuery struct {
	Status   string
	UserID   uint
	OrderNo  string
	Page     int
	PageSize int
	// CreatedFrom / CreatedTo 创建时间闭区间，仅管理端使用
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

func normalizeStatusFilter(status string) (string, error) {
	status = models.NormalizeOrderStatus(status)
	if status == "" {
		return "", nil
	}
	if !models.IsValidOrderStatus(status) {
		return "", &ValidationError{Fields: []string{"status"}}
	}
	return status, nil
}

// ListForUser 当前用户的订单列表（最新优先）
func (s *OrderService) ListForUser(actor Actor, query OrderListQuery) ([]models.Order, int64, error) {
	if actor.UserID == 0 {
		return nil, 0, ErrInvalidUser
	}
	status, err := normalizeStatusFilter(query.Status)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   actor.UserID,
		Status:   status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

// ListAll 管理端订单列表，可按状态与用户过滤
func (s *OrderService) ListAll(actor Actor, query OrderListQuery) ([]models.Order, int64, error) {
	if !actor.IsAdmin {
		return nil, 0, ErrForbidden
	}
	status, err := normalizeStatusFilter(query.Status)
	if err != nil {
		return nil, 0, err
	}
	if query.CreatedFrom != nil && query.CreatedTo != nil && query.CreatedFrom.After(*query.CreatedTo) {
		return nil, 0, &ValidationError{Fields: []string{"created_from", "created_to"}}
	}
	return s.orderRepo.ListAdmin(repository.OrderListFilter{
		UserID:      query.UserID,
		Status:      status,
		OrderNo:     strings.TrimSpace(query.OrderNo),
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
		Page:        query.Page,
		PageSize:    query.PageSize,
	})
}

// GetOne 按订单 ID 或订单编号获取订单，仅订单所有者或管理员可见
func (s *OrderService) GetOne(actor Actor, idOrOrderNo string) (*models.Order, error) {
	order, err := s.resolveOrder(idOrOrderNo)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

// resolveOrder 先按数字 ID 查找，未命中再按订单编号查找
func (s *OrderService) resolveOrder(idOrOrderNo string) (*models.Order, error) {
	key := strings.TrimSpace(idOrOrderNo)
	if key == "" {
		return nil, ErrOrderNotFound
	}
	if id, err := strconv.ParseUint(key, 10, 64); err == nil && id > 0 {
		order, err := s.orderRepo.GetByID(uint(id))
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}
	order, err := s.orderRepo.GetByOrderNo(key)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
