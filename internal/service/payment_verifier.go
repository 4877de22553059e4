package service

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/payment/portone"

	"github.com/shopspring/decimal"
)

// VerificationOutcome 支付核验结论
type VerificationOutcome string

const (
	VerificationVerified           VerificationOutcome = "verified"
	VerificationAmountMismatch     VerificationOutcome = "amount_mismatch"
	VerificationNotPaid            VerificationOutcome = "not_paid"
	VerificationGatewayUnavailable VerificationOutcome = "gateway_unavailable"
	VerificationFailed             VerificationOutcome = "verification_error"
)

// VerificationResult 支付核验结果
type VerificationResult struct {
	Outcome        VerificationOutcome `json:"outcome"`
	ExpectedAmount int64               `json:"expected_amount"`
	ActualAmount   string              `json:"actual_amount,omitempty"`
	GatewayStatus  string              `json:"gateway_status,omitempty"`
	Reason         string              `json:"reason,omitempty"`
	Unconfigured   bool                `json:"-"`
	Payment        *portone.Payment    `json:"-"`
}

// Verified 是否核验通过
func (r VerificationResult) Verified() bool {
	return r.Outcome == VerificationVerified
}

// PaymentGateway 支付网关（令牌交换 + 交易查询）
type PaymentGateway interface {
	Configured() bool
	GetAccessToken(ctx context.Context) (string, error)
	GetPayment(ctx context.Context, accessToken, transactionID string) (*portone.Payment, error)
}

// PaymentVerifier 支付核验器，策略在构造时注入
type PaymentVerifier struct {
	gateway PaymentGateway
	policy  string
}

// NewPaymentVerifier 创建支付核验器，未知策略按 strict 处理
func NewPaymentVerifier(gateway PaymentGateway, policy string) *PaymentVerifier {
	policy = strings.ToLower(strings.TrimSpace(policy))
	if policy != constants.VerificationPolicyPermissive {
		policy = constants.VerificationPolicyStrict
	}
	return &PaymentVerifier{gateway: gateway, policy: policy}
}

// Policy 当前核验策略
func (v *PaymentVerifier) Policy() string {
	return v.policy
}

// AllowsSoftPass 仅当网关未配置且策略为 permissive 时允许放行
func (v *PaymentVerifier) AllowsSoftPass(result VerificationResult) bool {
	return result.Outcome == VerificationGatewayUnavailable &&
		result.Unconfigured &&
		v.policy == constants.VerificationPolicyPermissive
}

// Verify 向网关确认交易已支付且金额与应付总额完全一致
func (v *PaymentVerifier) Verify(ctx context.Context, transactionID string, expectedAmount int64) VerificationResult {
	result := VerificationResult{ExpectedAmount: expectedAmount}
	if v.gateway == nil || !v.gateway.Configured() {
		result.Outcome = VerificationGatewayUnavailable
		result.Unconfigured = true
		result.Reason = "payment gateway credentials not configured"
		return result
	}

	token, err := v.gateway.GetAccessToken(ctx)
	if err != nil {
		result.Outcome = classifyGatewayError(err)
		result.Reason = err.Error()
		return result
	}

	payment, err := v.gateway.GetPayment(ctx, token, transactionID)
	if err != nil {
		result.Outcome = classifyGatewayError(err)
		result.Reason = err.Error()
		return result
	}
	if payment == nil {
		result.Outcome = VerificationFailed
		result.Reason = "gateway returned empty payment"
		return result
	}

	result.Payment = payment
	result.GatewayStatus = payment.Status
	result.ActualAmount = payment.Amount.String()
	if payment.Status != constants.GatewayPaymentStatusPaid {
		result.Outcome = VerificationNotPaid
		result.Reason = "gateway status " + payment.Status
		return result
	}
	if !payment.Amount.Equal(decimal.NewFromInt(expectedAmount)) {
		result.Outcome = VerificationAmountMismatch
		result.Reason = "expected " + decimal.NewFromInt(expectedAmount).String() + " got " + payment.Amount.String()
		return result
	}
	result.Outcome = VerificationVerified
	return result
}

// classifyGatewayError 传输/认证/熔断归为网关不可用，超时与其它错误归为核验异常
func classifyGatewayError(err error) VerificationOutcome {
	switch {
	case errors.Is(err, portone.ErrTimeout):
		return VerificationFailed
	case errors.Is(err, portone.ErrRequestFailed),
		errors.Is(err, portone.ErrAuthFailed),
		errors.Is(err, portone.ErrCircuitOpen),
		errors.Is(err, portone.ErrConfigInvalid):
		return VerificationGatewayUnavailable
	default:
		return VerificationFailed
	}
}
