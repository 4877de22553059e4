package router

import (
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	orderCreateRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate", "order_create"),
		WindowSeconds: cfg.RateLimit.OrderCreate.WindowSeconds,
		MaxRequests:   cfg.RateLimit.OrderCreate.MaxRequests,
	}
	// Redis 未启用时退回进程内限流
	orderCreateLimit := RateLimitMiddleware(cache.Client(), orderCreateRule, KeyByUser)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		// Redis 不可用时限流已降级为进程内，服务本身仍视为健康
		redisStatus := "disabled"
		if cache.Enabled() {
			redisStatus = "ok"
			if err := cache.Ping(ctx.Request.Context()); err != nil {
				redisStatus = "unavailable"
				log.Warn("health_redis_unavailable", zap.Error(err))
			}
		}
		response.Success(ctx, gin.H{"status": "ok", "redis": redisStatus})
	})
	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	apiV1 := r.Group("/api/v1")
	apiV1.Use(IdentityMiddleware(c.IdentityService), RoleAuthzMiddleware(c.AuthzService))
	{
		// 顾客接口
		apiV1.GET("/cart", publicHandler.GetCart)
		apiV1.GET("/checkout/summary", publicHandler.GetCheckoutSummary)
		apiV1.POST("/orders", orderCreateLimit, publicHandler.CreateOrder)
		apiV1.GET("/orders", publicHandler.ListOrders)
		apiV1.GET("/orders/:id", publicHandler.GetOrder)
		apiV1.DELETE("/orders/:id", publicHandler.CancelOrder)
		apiV1.POST("/orders/:id/cancel", publicHandler.CancelOrder)

		// 管理接口（casbin 仅放行 role:admin）
		admin := apiV1.Group("/admin")
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
		}
	}

	return r
}
