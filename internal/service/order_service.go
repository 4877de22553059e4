package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	carts       CartCollaborator
	catalog     ProductCatalog
	guard       *DuplicateGuard
	verifier    *PaymentVerifier
	numbers     *OrderNumberGenerator
	queueClient *queue.Client
	maxAttempts int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, carts CartCollaborator, catalog ProductCatalog, verifier *PaymentVerifier, numbers *OrderNumberGenerator, queueClient *queue.Client, maxAttempts int) *OrderService {
	if numbers == nil {
		numbers = NewOrderNumberGenerator(nil, nil, nil)
	}
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultOrderNumberMaxAttempt
	}
	return &OrderService{
		orderRepo:   orderRepo,
		carts:       carts,
		catalog:     catalog,
		guard:       NewDuplicateGuard(orderRepo),
		verifier:    verifier,
		numbers:     numbers,
		queueClient: queueClient,
		maxAttempts: maxAttempts,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	Notes           string
	Payment         *PaymentInput
}

// PaymentInput 网关回传的支付引用
type PaymentInput struct {
	GatewayTransactionID string
	MerchantOrderID      string
	PaidAmount           *int64
	PayMethod            string
}

// CreateOrder 由购物车快照创建订单。
// 校验 -> 重复检查 -> 读取购物车 -> 价格快照 -> 计价 -> 支付核验 -> 生成编号并落库 -> 清空购物车。
// 落库之前的任何失败都不会产生订单或修改购物车。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidUser
	}
	address := input.ShippingAddress.Normalize()
	paymentMethod := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	fields := address.MissingFields()
	if paymentMethod == "" || !models.IsValidPaymentMethod(paymentMethod) {
		fields = append(fields, "payment_method")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var ref models.PaymentReference
	if input.Payment != nil {
		ref = models.NewPaymentReference(
			input.Payment.GatewayTransactionID,
			input.Payment.MerchantOrderID,
			input.Payment.PaidAmount,
			input.Payment.PayMethod,
		)
	}
	gatewayTxID := ref.GatewayTransactionIDValue()
	merchantOrderID := ref.MerchantOrderIDValue()

	// 重试的回调到达时购物车往往已被清空，因此先于读取购物车做重复检查
	if gatewayTxID != "" || merchantOrderID != "" {
		result, err := s.guard.Check(merchantOrderID, gatewayTxID)
		if err != nil {
			return nil, err
		}
		if dupErr := result.asError(); dupErr != nil {
			logger.Infow("order_create_duplicate",
				"user_id", input.UserID,
				"existing_order_no", result.ExistingOrder.OrderNo,
				"matched_by", result.MatchedBy,
				"merchant_order_id", merchantOrderID,
				"gateway_transaction_id", gatewayTxID,
			)
			return nil, dupErr
		}
	}

	cart, err := s.carts.GetCart(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	items, lines, err := snapshotCart(cart, s.catalog)
	if err != nil {
		return nil, err
	}
	summary, err := CalculatePricing(lines)
	if err != nil {
		return nil, err
	}

	paymentVerified := false
	if gatewayTxID != "" {
		result := s.verifier.Verify(ctx, gatewayTxID, summary.GrandTotal)
		switch {
		case result.Verified():
			paymentVerified = true
			if ref.PaidAmount == nil {
				paid := summary.GrandTotal
				ref.PaidAmount = &paid
			}
			if ref.PayMethod == "" && result.Payment != nil {
				ref.PayMethod = result.Payment.PayMethod
			}
		case s.verifier.AllowsSoftPass(result):
			logger.Warnw("payment_verification_soft_pass",
				"user_id", input.UserID,
				"gateway_transaction_id", gatewayTxID,
				"merchant_order_id", merchantOrderID,
				"expected_amount", summary.GrandTotal,
				"reason", result.Reason,
			)
			paymentVerified = true
		default:
			logger.Warnw("payment_verification_failed",
				"user_id", input.UserID,
				"gateway_transaction_id", gatewayTxID,
				"outcome", result.Outcome,
				"reason", result.Reason,
			)
			return nil, &PaymentVerificationError{Result: result}
		}
	}

	order, err := s.persistOrder(input.UserID, orderDraft{
		items:           items,
		shippingFee:     summary.ShippingFee,
		address:         address,
		paymentMethod:   paymentMethod,
		notes:           strings.TrimSpace(input.Notes),
		payment:         ref,
		paymentVerified: paymentVerified,
	})
	if err != nil {
		return nil, err
	}

	s.clearCartAfterOrder(order)

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"order_id", order.ID,
		"user_id", order.UserID,
		"status", order.Status,
		"total_amount", order.TotalAmount,
		"gateway_transaction_id", gatewayTxID,
		"merchant_order_id", merchantOrderID,
	)
	return order, nil
}

type orderDraft struct {
	items           []models.OrderItem
	shippingFee     int64
	address         models.ShippingAddress
	paymentMethod   string
	notes           string
	payment         models.PaymentReference
	paymentVerified bool
}

func (d orderDraft) build(userID uint, orderNo string) *models.Order {
	items := make([]models.OrderItem, len(d.items))
	copy(items, d.items)
	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Status:          models.InitialOrderStatus(d.paymentVerified),
		PaymentMethod:   d.paymentMethod,
		ShippingFee:     d.shippingFee,
		ShippingAddress: d.address,
		Payment:         d.payment,
		Notes:           d.notes,
		Items:           items,
	}
	order.RecalculateTotal()
	return order
}

// persistOrder 生成编号并落库；支付引用唯一约束冲突转为重复订单，其余冲突视为编号碰撞并重试
func (s *OrderService) persistOrder(userID uint, draft orderDraft) (*models.Order, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		orderNo := s.numbers.Next()
		exists, err := s.orderRepo.ExistsOrderNo(orderNo)
		if err != nil {
			return nil, fmt.Errorf("check order number: %w", err)
		}
		if exists {
			logger.Debugw("order_number_collision", "order_no", orderNo, "attempt", attempt)
			continue
		}

		order := draft.build(userID, orderNo)
		err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
			return s.orderRepo.WithTx(tx).Create(order)
		})
		if err == nil {
			return order, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("persist order: %w", err)
		}
		if !draft.payment.IsZero() {
			result, guardErr := s.guard.Check(draft.payment.MerchantOrderIDValue(), draft.payment.GatewayTransactionIDValue())
			if guardErr != nil {
				return nil, guardErr
			}
			if dupErr := result.asError(); dupErr != nil {
				logger.Infow("order_create_duplicate_on_insert",
					"user_id", userID,
					"existing_order_no", result.ExistingOrder.OrderNo,
					"matched_by", result.MatchedBy,
				)
				return nil, dupErr
			}
		}
		logger.Debugw("order_number_collision", "order_no", orderNo, "attempt", attempt, "error", err)
	}
	return nil, ErrOrderNumberExhausted
}

// clearCartAfterOrder 订单已落库，清空失败只记录并投递补偿任务
// 补偿任务可能延迟数小时执行，只携带本订单的商品与下单时间。
func (s *OrderService) clearCartAfterOrder(order *models.Order) {
	userID, orderNo := order.UserID, order.OrderNo
	err := s.carts.ClearCart(userID)
	if err == nil {
		return
	}
	logger.Errorw("order_cart_clear_failed",
		"order_no", orderNo,
		"user_id", userID,
		"error", err,
	)
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if enqueueErr := s.queueClient.EnqueueCartClear(cartClearPayload(order)); enqueueErr != nil {
		logger.Errorw("order_cart_clear_enqueue_failed",
			"order_no", orderNo,
			"user_id", userID,
			"error", enqueueErr,
		)
	}
}

func cartClearPayload(order *models.Order) queue.CartClearPayload {
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	return queue.CartClearPayload{
		UserID:     order.UserID,
		OrderNo:    order.OrderNo,
		ProductIDs: productIDs,
		OrderedAt:  order.CreatedAt,
	}
}
