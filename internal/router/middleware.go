package router

import (
	"errors"
	"strings"
	"time"

	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件，带上调用方身份
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := c.Get(shared.ContextUserIDKey); ok {
			fields = append(fields, "user_id", userID, "is_admin", c.GetBool(shared.ContextIsAdminKey))
		}
		entry := sugar.With(fields...)
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		entry.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// IdentityMiddleware 校验上游签发的 Bearer 令牌，写入 user_id / is_admin
func IdentityMiddleware(identity *service.IdentityTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity.Configured() {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, err := identity.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if !errors.Is(err, service.ErrIdentityTokenInvalid) {
				logger.Warnw("identity_token_parse_failed", "request_id", getRequestID(c), "error", err)
			}
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		c.Set(shared.ContextUserIDKey, claims.UserID)
		c.Set(shared.ContextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RoleAuthzMiddleware 按调用方角色做 casbin 路由授权
func RoleAuthzMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("authz_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if _, ok := c.Get(shared.ContextUserIDKey); !ok {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		role := constants.RoleCustomer
		if c.GetBool(shared.ContextIsAdminKey) {
			role = constants.RoleAdmin
		}
		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("authz_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("authz_permission_denied",
				"role", role,
				"user_id", c.GetUint(shared.ContextUserIDKey),
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
