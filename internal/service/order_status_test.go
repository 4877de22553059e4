package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// placeOrder 为指定用户下一笔未支付订单
func (f *serviceFixture) placeOrder(t *testing.T, userID uint) *models.Order {
	t.Helper()
	product := f.createProduct(t, "sku-"+strconv.Itoa(int(userID))+"-"+strconv.Itoa(f.random.next), 10000)
	f.addToCart(t, userID, product.ID, 1)
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{
		UserID:          userID,
		ShippingAddress: validAddress(),
		PaymentMethod:   constants.PaymentMethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func (f *serviceFixture) storedStatus(t *testing.T, id uint) string {
	t.Helper()
	order, err := f.orderRepo.GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order.Status
}

func TestListForUserOnlyOwnOrders(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	first := f.placeOrder(t, 1)
	second := f.placeOrder(t, 1)
	f.placeOrder(t, 2)

	orders, total, err := f.orders.ListForUser(Actor{UserID: 1}, OrderListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("want 2 orders got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("orders should be newest first, got %d,%d", orders[0].ID, orders[1].ID)
	}

	if _, err := f.orders.Cancel(Actor{UserID: 1}, first.OrderNo); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	orders, total, err = f.orders.ListForUser(Actor{UserID: 1}, OrderListQuery{Status: " Cancelled ", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 1 || orders[0].ID != first.ID {
		t.Fatalf("status filter should return cancelled order only, total=%d", total)
	}

	_, _, err = f.orders.ListForUser(Actor{UserID: 1}, OrderListQuery{Status: "refunded"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Fields[0] != "status" {
		t.Fatalf("unknown status filter want ValidationError got %v", err)
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	f.placeOrder(t, 1)
	f.placeOrder(t, 2)

	if _, _, err := f.orders.ListAll(Actor{UserID: 1}, OrderListQuery{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin want ErrForbidden got %v", err)
	}
	admin := Actor{UserID: 99, IsAdmin: true}
	_, total, err := f.orders.ListAll(admin, OrderListQuery{Page: 1, PageSize: 10})
	if err != nil || total != 2 {
		t.Fatalf("admin list want 2 got total=%d err=%v", total, err)
	}
	orders, total, err := f.orders.ListAll(admin, OrderListQuery{UserID: 2, Page: 1, PageSize: 10})
	if err != nil || total != 1 || orders[0].UserID != 2 {
		t.Fatalf("admin user filter failed: total=%d err=%v", total, err)
	}
}

func TestGetOneByIDOrOrderNo(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	order := f.placeOrder(t, 1)

	byID, err := f.orders.GetOne(Actor{UserID: 1}, strconv.FormatUint(uint64(order.ID), 10))
	if err != nil || byID.OrderNo != order.OrderNo {
		t.Fatalf("get by id failed: %v", err)
	}
	if len(byID.Items) != 1 {
		t.Fatalf("order items should be loaded, got %d", len(byID.Items))
	}
	byNo, err := f.orders.GetOne(Actor{UserID: 1}, order.OrderNo)
	if err != nil || byNo.ID != order.ID {
		t.Fatalf("get by order number failed: %v", err)
	}
	if _, err := f.orders.GetOne(Actor{UserID: 2}, order.OrderNo); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner want ErrForbidden got %v", err)
	}
	if _, err := f.orders.GetOne(Actor{UserID: 2, IsAdmin: true}, order.OrderNo); err != nil {
		t.Fatalf("admin should read any order: %v", err)
	}
	if _, err := f.orders.GetOne(Actor{UserID: 1}, "ORD-19990101-000000-0000"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
	if _, err := f.orders.GetOne(Actor{UserID: 1}, "987654"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing id want ErrOrderNotFound got %v", err)
	}
}

func TestSetStatusAdminOverwrite(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	order := f.placeOrder(t, 1)
	admin := Actor{UserID: 99, IsAdmin: true}

	if _, err := f.orders.SetStatus(Actor{UserID: 1}, order.OrderNo, constants.OrderStatusShipping); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer set status want ErrForbidden got %v", err)
	}
	updated, err := f.orders.SetStatus(admin, order.OrderNo, "DELIVERED")
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered || f.storedStatus(t, order.ID) != constants.OrderStatusDelivered {
		t.Fatalf("status should be persisted as delivered")
	}
	// 允许回退
	if _, err := f.orders.SetStatus(admin, order.OrderNo, constants.OrderStatusPending); err != nil {
		t.Fatalf("backward overwrite failed: %v", err)
	}
	if f.storedStatus(t, order.ID) != constants.OrderStatusPending {
		t.Fatalf("status should be pending after overwrite")
	}
	if _, err := f.orders.SetStatus(admin, order.OrderNo, "lost"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unknown status want ErrOrderStatusInvalid got %v", err)
	}
	if f.storedStatus(t, order.ID) != constants.OrderStatusPending {
		t.Fatalf("invalid status must not be written")
	}
}

func TestCancelPendingOrder(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	order := f.placeOrder(t, 1)

	cancelled, err := f.orders.Cancel(Actor{UserID: 1}, order.OrderNo)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || f.storedStatus(t, order.ID) != constants.OrderStatusCancelled {
		t.Fatalf("order should be cancelled")
	}

	again, err := f.orders.Cancel(Actor{UserID: 1}, order.OrderNo)
	if err != nil {
		t.Fatalf("repeat cancel should be a no-op, got %v", err)
	}
	if again.Status != constants.OrderStatusCancelled {
		t.Fatalf("repeat cancel status want cancelled got %s", again.Status)
	}
}

func TestCancelBlockedStatuses(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	admin := Actor{UserID: 99, IsAdmin: true}
	blocked := []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusShippingStart,
		constants.OrderStatusShipping,
		constants.OrderStatusDelivered,
	}
	for _, status := range blocked {
		t.Run(status, func(t *testing.T) {
			order := f.placeOrder(t, 1)
			if _, err := f.orders.SetStatus(admin, order.OrderNo, status); err != nil {
				t.Fatalf("prepare status failed: %v", err)
			}
			if _, err := f.orders.Cancel(Actor{UserID: 1}, order.OrderNo); !errors.Is(err, ErrIllegalStateTransition) {
				t.Fatalf("want ErrIllegalStateTransition got %v", err)
			}
			if _, err := f.orders.Cancel(admin, order.OrderNo); !errors.Is(err, ErrIllegalStateTransition) {
				t.Fatalf("admin cancel want ErrIllegalStateTransition got %v", err)
			}
			if got := f.storedStatus(t, order.ID); got != status {
				t.Fatalf("stored status should stay %s, got %s", status, got)
			}
		})
	}
}

func TestCancelPermissions(t *testing.T) {
	f := setupServiceFixture(t, constants.VerificationPolicyStrict)
	order := f.placeOrder(t, 1)

	if _, err := f.orders.Cancel(Actor{UserID: 2}, order.OrderNo); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner cancel want ErrForbidden got %v", err)
	}
	if f.storedStatus(t, order.ID) != constants.OrderStatusPending {
		t.Fatalf("forbidden cancel must not change status")
	}
	if _, err := f.orders.Cancel(Actor{UserID: 99, IsAdmin: true}, order.OrderNo); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
}
