package main

import (
	"flag"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
)

// demoProducts 演示商品目录（整数金额，单位：元）
var demoProducts = []models.Product{
	{SKU: "COFFEE-BEAN-1KG", Name: "Single Origin Coffee Beans 1kg", Category: "coffee", PriceAmount: 32000, IsActive: true},
	{SKU: "DRIP-BAG-20", Name: "Drip Bag Coffee 20pcs", Category: "coffee", PriceAmount: 15000, IsActive: true},
	{SKU: "MUG-CERAMIC", Name: "Ceramic Mug", Category: "goods", PriceAmount: 9000, IsActive: true},
	{SKU: "TUMBLER-500", Name: "Steel Tumbler 500ml", Category: "goods", PriceAmount: 27000, IsActive: true},
	{SKU: "GRINDER-HAND", Name: "Hand Grinder (discontinued)", Category: "goods", PriceAmount: 58000, IsActive: false},
}

func main() {
	var (
		customerID uint
		adminID    uint
		tokenTTL   time.Duration
	)
	flag.UintVar(&customerID, "customer", 1, "演示顾客 user_id")
	flag.UintVar(&adminID, "admin", 9001, "演示管理员 user_id")
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "演示令牌有效期")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	productRepo := repository.NewProductRepository(models.DB)
	cartRepo := repository.NewCartRepository(models.DB)

	productIDs := make(map[string]uint, len(demoProducts))
	for _, item := range demoProducts {
		product := item
		saved, err := productRepo.UpsertBySKU(&product)
		if err != nil {
			stdLog.Fatalf("Failed to upsert product %s: %v", product.SKU, err)
		}
		productIDs[saved.SKU] = saved.ID
		stdLog.Printf("Product ready: %s (id=%d, active=%t)", saved.SKU, saved.ID, saved.IsActive)
	}

	// 演示购物车：32000 + 9000*2 = 50000，恰好满足包邮门槛
	cartLines := map[string]int{
		"COFFEE-BEAN-1KG": 1,
		"MUG-CERAMIC":     2,
	}
	for sku, qty := range cartLines {
		if _, err := cartRepo.SetItemQuantity(customerID, productIDs[sku], qty); err != nil {
			stdLog.Fatalf("Failed to set cart line %s: %v", sku, err)
		}
	}
	stdLog.Printf("Cart seeded for user %d", customerID)

	identity := service.NewIdentityTokenService(cfg.JWT)
	if !identity.Configured() {
		stdLog.Printf("jwt.secret is empty, skipped demo tokens")
		return
	}
	for _, account := range []struct {
		label   string
		userID  uint
		isAdmin bool
	}{
		{label: "customer", userID: customerID},
		{label: "admin", userID: adminID, isAdmin: true},
	} {
		token, expiresAt, err := identity.GenerateToken(account.userID, account.isAdmin, tokenTTL)
		if err != nil {
			stdLog.Fatalf("Failed to issue %s token: %v", account.label, err)
		}
		stdLog.Printf("%s token (user_id=%d, expires %s): %s", account.label, account.userID, expiresAt.Format(time.RFC3339), token)
	}
}
