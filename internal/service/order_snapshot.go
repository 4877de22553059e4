package service

import (
	"fmt"

	"github.com/storefront-next/internal/models"
)

// snapshotCart 将购物车项按商品当前价格快照为订单项。
// 不复用购物车中预加载的商品价格，每一项都回读目录。
func snapshotCart(cart *models.Cart, catalog ProductCatalog) ([]models.OrderItem, []PricingLine, error) {
	if cart.IsEmpty() {
		return nil, nil, ErrEmptyCart
	}
	items := make([]models.OrderItem, 0, len(cart.Items))
	lines := make([]PricingLine, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		if cartItem.Quantity < 1 {
			continue
		}
		product, err := catalog.GetProduct(cartItem.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("load product %d: %w", cartItem.ProductID, err)
		}
		if product == nil || !product.IsActive {
			return nil, nil, fmt.Errorf("%w: product_id=%d", ErrProductNotAvailable, cartItem.ProductID)
		}
		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			UnitPrice:   product.PriceAmount,
			Quantity:    cartItem.Quantity,
		}
		item.TotalPrice = item.LineTotal()
		items = append(items, item)
		lines = append(lines, PricingLine{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	if len(items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	return items, lines, nil
}
