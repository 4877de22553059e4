package service

import (
	"fmt"

	"github.com/storefront-next/internal/constants"
)

// PricingLine 计价行（单价为计价时刻的商品价格）
type PricingLine struct {
	UnitPrice int64
	Quantity  int
}

// PricingSummary 计价结果
type PricingSummary struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	GrandTotal  int64 `json:"grand_total"`
	TotalItems  int   `json:"total_items"`
}

// CalculatePricing 计算小计、运费与应付总额。
// 购物车展示、结算预览与下单落库都必须走这一函数，三处结果需完全一致。
func CalculatePricing(lines []PricingLine) (PricingSummary, error) {
	if len(lines) == 0 {
		return PricingSummary{}, fmt.Errorf("%w: no lines", ErrInvalidPricingInput)
	}
	var summary PricingSummary
	for i, line := range lines {
		if line.Quantity < 1 {
			return PricingSummary{}, fmt.Errorf("%w: line %d quantity %d", ErrInvalidPricingInput, i, line.Quantity)
		}
		if line.UnitPrice < 0 {
			return PricingSummary{}, fmt.Errorf("%w: line %d unit price %d", ErrInvalidPricingInput, i, line.UnitPrice)
		}
		summary.Subtotal += line.UnitPrice * int64(line.Quantity)
		summary.TotalItems += line.Quantity
	}
	summary.ShippingFee = ShippingFeeFor(summary.Subtotal)
	summary.GrandTotal = summary.Subtotal + summary.ShippingFee
	return summary, nil
}

// ShippingFeeFor 满额包邮，否则收取固定运费
func ShippingFeeFor(subtotal int64) int64 {
	if subtotal >= constants.FreeShippingThreshold {
		return 0
	}
	return constants.FlatShippingFee
}
