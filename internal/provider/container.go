package provider

import (
	"time"

	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/payment/portone"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Gateway
	PortOne *portone.Client

	// Services
	AuthzService    *authz.Service
	IdentityService *service.IdentityTokenService
	ProductCatalog  service.ProductCatalog
	CartService     *service.CartService
	PaymentVerifier *service.PaymentVerifier
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories(models.DB)
	c.initServices(models.DB)
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.IdentityService = service.NewIdentityTokenService(c.Config.JWT)
	c.PortOne = NewPortOneClient(c.Config.Payment)
	c.ProductCatalog = service.NewProductCatalog(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductCatalog)
	c.PaymentVerifier = service.NewPaymentVerifier(c.PortOne, c.Config.Payment.VerificationPolicy)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartService,
		c.ProductCatalog,
		c.PaymentVerifier,
		service.NewOrderNumberGenerator(nil, nil, c.Config.Order.Location()),
		c.QueueClient,
		c.Config.Order.MaxAttempts(),
	)
}

// NewPortOneClient 按配置创建网关客户端，熔断状态变化写入日志
func NewPortOneClient(cfg config.PaymentConfig) *portone.Client {
	return portone.NewClient(portone.Config{
		APIKey:       cfg.PortOne.APIKey,
		APISecret:    cfg.PortOne.APISecret,
		BaseURL:      cfg.PortOne.BaseURL,
		TokenTimeout: cfg.PortOne.TokenTimeout(),
		QueryTimeout: cfg.PortOne.QueryTimeout(),
		MaxFailures:  uint32(max(cfg.Breaker.MaxFailures, 0)),
		OpenTimeout:  time.Duration(cfg.Breaker.OpenSeconds) * time.Second,
	}, portone.WithStateChange(func(name string, from, to gobreaker.State) {
		if to == gobreaker.StateOpen {
			logger.Errorw("payment_gateway_circuit_open", "breaker", name, "from", from.String())
			return
		}
		logger.Warnw("payment_gateway_circuit_state_changed", "breaker", name, "from", from.String(), "to", to.String())
	}))
}
