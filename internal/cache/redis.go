package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "sf"
	dialTimeout      = 2 * time.Second
	ioTimeout        = time.Second
)

// ErrDisabled Redis 未启用
var ErrDisabled = errors.New("redis disabled")

// 进程内唯一的 Redis 连接；限流与健康检查共用
var state struct {
	mu     sync.RWMutex
	client *redis.Client
	prefix string
}

// InitRedis 按配置建立连接；未启用时不报错，Ping 失败时关闭连接并返回错误
func InitRedis(cfg *config.RedisConfig) error {
	_ = Close()
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis %s: %w", addr, err)
	}

	state.mu.Lock()
	state.client = client
	state.prefix = strings.TrimSpace(cfg.Prefix)
	state.mu.Unlock()
	return nil
}

// Enabled 是否持有可用连接
func Enabled() bool {
	return Client() != nil
}

// Client 未启用返回 nil
func Client() *redis.Client {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.client
}

// Ping 供健康检查使用
func Ping(ctx context.Context) error {
	client := Client()
	if client == nil {
		return ErrDisabled
	}
	return client.Ping(ctx).Err()
}

// Close 释放连接，可重复调用
func Close() error {
	state.mu.Lock()
	client := state.client
	state.client = nil
	state.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}

// BuildKey 以全局前缀拼接 key，空段被忽略
func BuildKey(parts ...string) string {
	state.mu.RLock()
	prefix := state.prefix
	state.mu.RUnlock()
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	segments := []string{prefix}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ":")
}
