package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/payment/portone"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubGateway struct {
	configured bool
	tokenErr   error
	paymentErr error
	payment    *portone.Payment
	queries    int
}

func (g *stubGateway) Configured() bool { return g.configured }

func (g *stubGateway) GetAccessToken(ctx context.Context) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return "tok_test", nil
}

func (g *stubGateway) GetPayment(ctx context.Context, accessToken, transactionID string) (*portone.Payment, error) {
	g.queries++
	if g.paymentErr != nil {
		return nil, g.paymentErr
	}
	return g.payment, nil
}

func paidPayment(impUID string, amount int64) *portone.Payment {
	return &portone.Payment{
		ImpUID:    impUID,
		Status:    constants.GatewayPaymentStatusPaid,
		Amount:    decimal.NewFromInt(amount),
		PayMethod: "card",
	}
}

type sequenceRandom struct {
	values []int
	next   int
}

func (r *sequenceRandom) Intn(n int) int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 15, 30, 22, 0, time.UTC)
}

type serviceFixture struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	cartRepo    *repository.GormCartRepository
	orderRepo   *repository.GormOrderRepository
	carts       *CartService
	gateway     *stubGateway
	random      *sequenceRandom
	orders      *OrderService
}

func setupServiceFixture(t *testing.T, policy string) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	f := &serviceFixture{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		gateway:     &stubGateway{configured: true},
		random:      &sequenceRandom{values: []int{417, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}
	catalog := NewProductCatalog(f.productRepo)
	f.carts = NewCartService(f.cartRepo, catalog)
	f.orders = NewOrderService(
		f.orderRepo,
		f.carts,
		catalog,
		NewPaymentVerifier(f.gateway, policy),
		NewOrderNumberGenerator(fixedClock, f.random, time.UTC),
		nil,
		5,
	)
	return f
}

func (f *serviceFixture) createProduct(t *testing.T, sku string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{SKU: sku, Name: "商品 " + sku, PriceAmount: price, IsActive: true}
	if err := f.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *serviceFixture) addToCart(t *testing.T, userID, productID uint, quantity int) {
	t.Helper()
	if _, err := f.cartRepo.SetItemQuantity(userID, productID, quantity); err != nil {
		t.Fatalf("set cart quantity failed: %v", err)
	}
}

func (f *serviceFixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return count
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		RecipientName:  "Kim Minsu",
		RecipientPhone: "010-1234-5678",
		Address:        "Seoul Gangnam-gu Teheran-ro 1",
	}
}
