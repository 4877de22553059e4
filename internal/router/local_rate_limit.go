package router

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localLimiterIdleTTL 超过该时长未访问的 key 会被回收
const localLimiterIdleTTL = 10 * time.Minute

type localVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localRateLimiter 进程内令牌桶：Redis 未启用或故障时的单机兜底
// 桶容量为 MaxRequests，按窗口均匀回填。
type localRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*localVisitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func newLocalRateLimiter(rule RateLimitRule) *localRateLimiter {
	window := time.Duration(rule.WindowSeconds) * time.Second
	return &localRateLimiter{
		visitors: make(map[string]*localVisitor),
		limit:    rate.Every(window / time.Duration(rule.MaxRequests)),
		burst:    rule.MaxRequests,
		now:      time.Now,
	}
}

func (l *localRateLimiter) take(_ context.Context, key string) (rateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > localLimiterIdleTTL {
			delete(l.visitors, k)
		}
	}
	visitor, ok := l.visitors[key]
	if !ok {
		visitor = &localVisitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = visitor
	}
	visitor.lastSeen = now

	if visitor.limiter.AllowN(now, 1) {
		return rateDecision{allowed: true, remaining: int(visitor.limiter.TokensAt(now))}, nil
	}
	missing := 1 - visitor.limiter.TokensAt(now)
	wait := int(math.Ceil(missing/float64(l.limit) - 1e-9))
	return rateDecision{allowed: false, retryAfter: max(wait, 1)}, nil
}
