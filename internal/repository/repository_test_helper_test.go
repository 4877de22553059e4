package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, sku string, price int64, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:         sku,
		Name:        "商品 " + sku,
		Category:    "coffee",
		PriceAmount: price,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
		product.IsActive = false
	}
	return product
}

func buildTestOrder(orderNo string, userID uint, productID uint) *models.Order {
	return &models.Order{
		OrderNo:       orderNo,
		UserID:        userID,
		Status:        constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCard,
		ShippingAddress: models.ShippingAddress{
			RecipientName:  "Kim",
			RecipientPhone: "010-1234-5678",
			Address:        "Seoul Gangnam-gu",
		},
		Items: []models.OrderItem{
			{ProductID: productID, ProductName: "Coffee", ProductSKU: "C-1", UnitPrice: 12000, Quantity: 2},
		},
	}
}
