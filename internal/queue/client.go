package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	cartClearMaxRetry  = 8
	cartClearRetention = 24 * time.Hour
	maxRetryDelay      = 10 * time.Minute
)

// Client asynq 客户端封装；未启用队列时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(RedisConnOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueCartClear 推送购物车清空补偿任务
// 以订单号作为 TaskID，同一订单重复投递视为成功。
func (c *Client) EnqueueCartClear(payload CartClearPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCartClearTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{
		asynq.Queue(constants.QueueCritical),
		asynq.MaxRetry(cartClearMaxRetry),
		asynq.TaskID(TaskCartClear + ":" + payload.OrderNo),
		asynq.Retention(cartClearRetention),
	}, opts...)
	if _, err := c.client.Enqueue(task, options...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue %s for order %s: %w", TaskCartClear, payload.OrderNo, err)
	}
	return nil
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	queues := map[string]int{constants.QueueCritical: 2, DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return RedisConnOpt(cfg), asynq.Config{
		Concurrency:    concurrency,
		Queues:         queues,
		RetryDelayFunc: retryDelay,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"task_type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
}

// retryDelay 指数退避，上限 maxRetryDelay
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	delay := time.Duration(1<<min(n, 10)) * time.Second
	return min(delay, maxRetryDelay)
}

// RedisConnOpt 队列使用的 Redis 连接参数
func RedisConnOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
