package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Order     OrderConfig     `mapstructure:"order"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
	// 以下单位均为秒，<=0 表示不限制
	ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds     int `mapstructure:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// IsRelease 是否为生产模式
func (c ServerConfig) IsRelease() bool {
	return strings.EqualFold(strings.TrimSpace(c.Mode), "release")
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"` // release 模式下同时输出到 stdout
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Console:    c.Console,
		Service:    "storefront-api",
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 上游身份令牌校验配置
type JWTConfig struct {
	SecretKey string `mapstructure:"secret"`
	Issuer    string `mapstructure:"issuer"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// OrderConfig 订单配置
type OrderConfig struct {
	NumberTimezone    string `mapstructure:"number_timezone"`     // 订单编号时间戳使用的时区
	NumberMaxAttempts int    `mapstructure:"number_max_attempts"` // 订单编号冲突重试上限
}

// Location 解析订单编号时区，非法值回退 UTC
func (c OrderConfig) Location() *time.Location {
	name := strings.TrimSpace(c.NumberTimezone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("config_order_timezone_invalid", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

// MaxAttempts 订单编号重试上限
func (c OrderConfig) MaxAttempts() int {
	if c.NumberMaxAttempts <= 0 {
		return constants.DefaultOrderNumberMaxAttempt
	}
	return c.NumberMaxAttempts
}

// PaymentConfig 支付核验配置
type PaymentConfig struct {
	PortOne            PortOneConfig `mapstructure:"portone"`
	VerificationPolicy string        `mapstructure:"verification_policy"` // strict / permissive，留空按运行模式推断
	Breaker            BreakerConfig `mapstructure:"breaker"`
}

// PortOneConfig 支付网关凭证与超时
type PortOneConfig struct {
	APIKey         string `mapstructure:"api_key"`
	APISecret      string `mapstructure:"api_secret"`
	BaseURL        string `mapstructure:"base_url"`
	TokenTimeoutMS int    `mapstructure:"token_timeout_ms"`
	QueryTimeoutMS int    `mapstructure:"query_timeout_ms"`
}

// Configured 是否配置了网关凭证
func (c PortOneConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.APISecret) != ""
}

// TokenTimeout 令牌交换超时
func (c PortOneConfig) TokenTimeout() time.Duration {
	return time.Duration(c.TokenTimeoutMS) * time.Millisecond
}

// QueryTimeout 交易查询超时
func (c PortOneConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMS) * time.Millisecond
}

// BreakerConfig 网关熔断配置
type BreakerConfig struct {
	MaxFailures int `mapstructure:"max_failures"`
	OpenSeconds int `mapstructure:"open_seconds"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	OrderCreate RateLimitRule `mapstructure:"order_create"`
}

// RateLimitRule 单条限流规则
type RateLimitRule struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// ResolveVerificationPolicy 解析支付核验策略：显式配置优先，否则 release 模式为 strict，其它为 permissive
func ResolveVerificationPolicy(mode, configured string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case constants.VerificationPolicyStrict:
		return constants.VerificationPolicyStrict, nil
	case constants.VerificationPolicyPermissive:
		return constants.VerificationPolicyPermissive, nil
	case "":
		if (ServerConfig{Mode: mode}).IsRelease() {
			return constants.VerificationPolicyStrict, nil
		}
		return constants.VerificationPolicyPermissive, nil
	default:
		return "", fmt.Errorf("invalid payment.verification_policy: %s", configured)
	}
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "storefront.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/storefront.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "sf")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		constants.QueueDefault:  10,
		constants.QueueCritical: 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
		"X-Locale",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("order.number_timezone", "Asia/Seoul")
	v.SetDefault("order.number_max_attempts", constants.DefaultOrderNumberMaxAttempt)
	v.SetDefault("payment.portone.api_key", "")
	v.SetDefault("payment.portone.api_secret", "")
	v.SetDefault("payment.portone.base_url", "https://api.iamport.kr")
	v.SetDefault("payment.portone.token_timeout_ms", 5000)
	v.SetDefault("payment.portone.query_timeout_ms", 5000)
	v.SetDefault("payment.verification_policy", "")
	v.SetDefault("payment.breaker.max_failures", 5)
	v.SetDefault("payment.breaker.open_seconds", 30)
	v.SetDefault("rate_limit.order_create.window_seconds", 60)
	v.SetDefault("rate_limit.order_create.max_requests", 10)
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("config_env_file_loaded", "file", ".env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")        // 从当前目录查找
	v.AddConfigPath("./config") // config 文件夹
	v.AddConfigPath("../")      // 如果从 cmd/server 运行
	setDefaults(v)

	// 环境变量支持
	v.AutomaticEnv()                                   // 自动读取环境变量
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 payment.portone.api_key -> PAYMENT_PORTONE_API_KEY)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	policy, err := ResolveVerificationPolicy(cfg.Server.Mode, cfg.Payment.VerificationPolicy)
	if err != nil {
		logger.Errorw("config_verification_policy_invalid", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	cfg.Payment.VerificationPolicy = policy
	return &cfg
}
