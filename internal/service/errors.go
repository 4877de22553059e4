package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/models"
)

var (
	ErrValidation                = errors.New("validation failed")
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrDuplicateOrder            = errors.New("order already exists for payment reference")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrIllegalStateTransition    = models.ErrIllegalStateTransition
	ErrOrderStatusInvalid        = models.ErrOrderStatusInvalid
	ErrOrderNotFound             = errors.New("order not found")
	ErrForbidden                 = errors.New("forbidden")
	ErrInvalidPricingInput       = errors.New("invalid pricing input")
	ErrProductNotAvailable       = errors.New("product not available")
	ErrOrderNumberExhausted      = errors.New("order number generation exhausted")
	ErrInvalidUser               = errors.New("invalid user")
)

// ValidationError 入参校验失败，列出缺失或非法的字段
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// Is 匹配 ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateOrderError 支付引用已生成过订单
type DuplicateOrderError struct {
	OrderID   uint
	OrderNo   string
	MatchedBy string
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order already exists for payment reference (%s): %s", e.MatchedBy, e.OrderNo)
}

// Is 匹配 ErrDuplicateOrder
func (e *DuplicateOrderError) Is(target error) bool {
	return target == ErrDuplicateOrder
}

// PaymentVerificationError 支付核验未通过
type PaymentVerificationError struct {
	Result VerificationResult
}

func (e *PaymentVerificationError) Error() string {
	if e.Result.Reason == "" {
		return fmt.Sprintf("payment verification failed: %s", e.Result.Outcome)
	}
	return fmt.Sprintf("payment verification failed: %s (%s)", e.Result.Outcome, e.Result.Reason)
}

// Is 匹配 ErrPaymentVerificationFailed
func (e *PaymentVerificationError) Is(target error) bool {
	return target == ErrPaymentVerificationFailed
}
