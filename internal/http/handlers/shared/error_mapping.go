package shared

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// OrderErrorRules 订单相关错误映射，按顺序匹配
var OrderErrorRules = []MappedError{
	{Target: service.ErrInvalidUser, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrInvalidPricingInput, Code: response.CodeBadRequest, Key: "error.pricing_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrIllegalStateTransition, Code: response.CodeBadRequest, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrOrderNumberExhausted, Code: response.CodeInternal, Key: "error.order_number_exhausted"},
}

// RespondMappedError 先处理携带数据的类型化错误，再按规则表映射，未命中走兜底。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if respondTypedError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

func respondTypedError(c *gin.Context, err error) bool {
	locale := i18n.ResolveLocale(c)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		msg := i18n.Sprintf(locale, "error.validation_failed", strings.Join(validationErr.Fields, ", "))
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"fields": validationErr.Fields})
		return true
	}

	var dupErr *service.DuplicateOrderError
	if errors.As(err, &dupErr) {
		response.ErrorWithData(c, response.CodeConflict, i18n.T(locale, "error.order_duplicate"), gin.H{
			"existing_order": gin.H{
				"order_id": dupErr.OrderID,
				"order_no": dupErr.OrderNo,
			},
		})
		return true
	}

	var verifyErr *service.PaymentVerificationError
	if errors.As(err, &verifyErr) {
		response.ErrorWithData(c, response.CodePaymentVerificationFailed, i18n.T(locale, "error.payment_verification_failed"), gin.H{
			"verification": gin.H{
				"outcome": verifyErr.Result.Outcome,
				"reason":  verifyErr.Result.Reason,
			},
		})
		return true
	}
	return false
}
