package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则：WindowSeconds 窗口内最多 MaxRequests 次
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// rateDecision 单次计数结果
type rateDecision struct {
	allowed    bool
	remaining  int
	retryAfter int
}

// rateCounter 限流计数后端
type rateCounter interface {
	take(ctx context.Context, key string) (rateDecision, error)
}

// 固定窗口计数：首次 INCR 时设置过期，返回当前计数与剩余 TTL
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

type redisWindowCounter struct {
	client *redis.Client
	rule   RateLimitRule
}

func (r *redisWindowCounter) take(ctx context.Context, key string) (rateDecision, error) {
	result, err := rateLimitScript.Run(ctx, r.client, []string{key}, r.rule.WindowSeconds).Result()
	if err != nil {
		return rateDecision{}, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return rateDecision{}, fmt.Errorf("unexpected rate limit script result: %v", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return rateDecision{}, fmt.Errorf("unexpected rate limit counter: %v", values[0])
	}
	ttl, _ := toInt64(values[1])
	if ttl < 1 {
		ttl = int64(r.rule.WindowSeconds)
	}
	return rateDecision{
		allowed:    count <= int64(r.rule.MaxRequests),
		remaining:  int(max(int64(r.rule.MaxRequests)-count, 0)),
		retryAfter: int(ttl),
	}, nil
}

// RateLimitMiddleware Redis 频率限制中间件；Redis 调用失败时降级为进程内限流，不阻断下单
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if !rule.enabled() {
		return passThrough
	}
	fallback := newLocalRateLimiter(rule)
	if client == nil {
		return rateLimitHandler(fallback, nil, rule, keyFunc)
	}
	return rateLimitHandler(&redisWindowCounter{client: client, rule: rule}, fallback, rule, keyFunc)
}

func rateLimitHandler(primary, fallback rateCounter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + key
		}

		decision, err := primary.take(c.Request.Context(), key)
		if err != nil && fallback != nil {
			logger.Warnw("rate_limit_backend_failed", "key", key, "fallback", "local", "error", err)
			decision, err = fallback.take(c.Request.Context(), key)
		}
		if err != nil {
			logger.Errorw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.remaining))
		if !decision.allowed {
			wait := max(decision.retryAfter, 1)
			c.Header("Retry-After", strconv.Itoa(wait))
			logger.Infow("rate_limit_rejected", "key", key, "retry_after", wait)
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), "error.rate_limited", wait))
			c.Abort()
			return
		}
		c.Next()
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUser 使用已认证用户 ID 作为限流 key，未认证时回退 IP
func KeyByUser(c *gin.Context) string {
	if userID := c.GetUint(shared.ContextUserIDKey); userID > 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return KeyByIP(c)
}

// toInt64 Lua 整数经 go-redis 解码为 int64，兼容其它数值类型
func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
