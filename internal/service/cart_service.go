package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
)

// CartLine 购物车展示行（单价为当前目录价格）
type CartLine struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	Image       string `json:"image"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
	Available   bool   `json:"available"`
}

// CartView 购物车展示
type CartView struct {
	CartID  uint           `json:"cart_id"`
	Items   []CartLine     `json:"items"`
	Summary PricingSummary `json:"summary"`
}

// CheckoutSummary 结算预览，客户端按 GrandTotal 向网关发起扣款
type CheckoutSummary struct {
	PricingSummary
	MerchantOrderID string     `json:"merchant_order_id"`
	Items           []CartLine `json:"items"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	catalog  ProductCatalog
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, catalog ProductCatalog) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
	}
}

// GetCart 读取用户购物车，不存在返回 nil
func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	return s.cartRepo.GetByUser(userID)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrInvalidUser
	}
	return s.cartRepo.ClearByUser(userID)
}

// RemoveOrderedItems 下单后的延迟清理：只移除订单中的商品，下单之后加入或改动的项保留
func (s *CartService) RemoveOrderedItems(userID uint, productIDs []uint, orderedAt time.Time) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidUser
	}
	return s.cartRepo.RemoveItemsUpdatedBefore(userID, productIDs, orderedAt)
}

// GetCartView 获取购物车展示（首次访问时创建购物车）
func (s *CartService) GetCartView(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{CartID: cart.ID, Items: make([]CartLine, 0, len(cart.Items))}
	lines := make([]PricingLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}
		line := CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if product != nil {
			line.ProductName = product.Name
			line.ProductSKU = product.SKU
			line.Image = product.Image
			line.UnitPrice = product.PriceAmount
			line.Available = product.IsActive
		}
		if line.Available {
			line.LineTotal = line.UnitPrice * int64(line.Quantity)
			lines = append(lines, PricingLine{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
		}
		view.Items = append(view.Items, line)
	}
	if len(lines) > 0 {
		summary, err := CalculatePricing(lines)
		if err != nil {
			return nil, err
		}
		view.Summary = summary
	}
	return view, nil
}

// GetCheckoutSummary 结算预览：与下单时使用同一快照与计价逻辑
func (s *CartService) GetCheckoutSummary(userID uint) (*CheckoutSummary, error) {
	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
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
		if errors.Is(err, ErrInvalidPricingInput) {
			return nil, fmt.Errorf("%w: %v", ErrEmptyCart, err)
		}
		return nil, err
	}
	result := &CheckoutSummary{
		PricingSummary:  summary,
		MerchantOrderID: newMerchantOrderID(),
		Items:           make([]CartLine, 0, len(items)),
	}
	for _, item := range items {
		result.Items = append(result.Items, CartLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.TotalPrice,
			Available:   true,
		})
	}
	return result, nil
}

// newMerchantOrderID 生成商户订单号建议值
func newMerchantOrderID() string {
	return "mid_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
