package service

import (
	"errors"
	"testing"
)

func TestCalculatePricingShippingThreshold(t *testing.T) {
	cases := []struct {
		name     string
		lines    []PricingLine
		subtotal int64
		fee      int64
		total    int64
	}{
		{"below threshold", []PricingLine{{UnitPrice: 10000, Quantity: 2}}, 20000, 3000, 23000},
		{"just below", []PricingLine{{UnitPrice: 49999, Quantity: 1}}, 49999, 3000, 52999},
		{"at threshold", []PricingLine{{UnitPrice: 25000, Quantity: 2}}, 50000, 0, 50000},
		{"above threshold", []PricingLine{{UnitPrice: 30000, Quantity: 2}, {UnitPrice: 0, Quantity: 1}}, 60000, 0, 60000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculatePricing(tc.lines)
			if err != nil {
				t.Fatalf("calculate pricing failed: %v", err)
			}
			if got.Subtotal != tc.subtotal || got.ShippingFee != tc.fee || got.GrandTotal != tc.total {
				t.Fatalf("want %d/%d/%d got %d/%d/%d", tc.subtotal, tc.fee, tc.total, got.Subtotal, got.ShippingFee, got.GrandTotal)
			}
			if got.GrandTotal != got.Subtotal+got.ShippingFee {
				t.Fatalf("grand total must equal subtotal + fee")
			}
		})
	}
}

func TestCalculatePricingInvalidInput(t *testing.T) {
	inputs := [][]PricingLine{
		nil,
		{{UnitPrice: 100, Quantity: 0}},
		{{UnitPrice: -1, Quantity: 1}},
	}
	for _, lines := range inputs {
		if _, err := CalculatePricing(lines); !errors.Is(err, ErrInvalidPricingInput) {
			t.Fatalf("lines %+v want ErrInvalidPricingInput got %v", lines, err)
		}
	}
}
