package service

import (
	"fmt"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

// SetStatus 管理员直接覆写订单状态（仅校验状态词表，不限制流转方向）
func (s *OrderService) SetStatus(actor Actor, idOrOrderNo, status string) (*models.Order, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	order, err := s.resolveOrder(idOrOrderNo)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	if order.Status == from {
		return order, nil
	}
	if err := s.orderRepo.UpdateStatus(order.ID, order.Status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	logger.Infow("order_status_updated",
		"order_no", order.OrderNo,
		"order_id", order.ID,
		"from", from,
		"to", order.Status,
		"operator_user_id", actor.UserID,
	)
	return order, nil
}

// Cancel 取消订单：所有者或管理员可操作，仅 pending 可取消，重复取消为空操作。
// 写库使用条件更新，避免与并发的状态变更互相覆盖。
func (s *OrderService) Cancel(actor Actor, idOrOrderNo string) (*models.Order, error) {
	order, err := s.GetOne(actor, idOrOrderNo)
	if err != nil {
		return nil, err
	}
	from := order.Status
	changed, err := order.Cancel()
	if err != nil {
		return nil, err
	}
	if !changed {
		return order, nil
	}

	affected, err := s.orderRepo.CompareAndSetStatus(order.ID, from, constants.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if affected == 0 {
		current, err := s.orderRepo.GetByID(order.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		if current.Status == constants.OrderStatusCancelled {
			return current, nil
		}
		if !current.CanCancel() {
			_, err := current.Cancel()
			return nil, err
		}
		return nil, fmt.Errorf("%w: status changed concurrently (status=%s)", ErrIllegalStateTransition, current.Status)
	}

	logger.Infow("order_cancelled",
		"order_no", order.OrderNo,
		"order_id", order.ID,
		"user_id", order.UserID,
		"operator_user_id", actor.UserID,
		"operator_is_admin", actor.IsAdmin,
	)
	return order, nil
}
