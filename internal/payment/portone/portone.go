package portone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrConfigInvalid   = errors.New("portone config invalid")
	ErrAuthFailed      = errors.New("portone auth failed")
	ErrRequestFailed   = errors.New("portone request failed")
	ErrResponseInvalid = errors.New("portone response invalid")
	ErrTimeout         = errors.New("portone request timeout")
	ErrPaymentNotFound = errors.New("portone payment not found")
	ErrCircuitOpen     = errors.New("portone circuit open")
)

const (
	defaultBaseURL      = "https://api.iamport.kr"
	defaultTokenTimeout = 5 * time.Second
	defaultQueryTimeout = 5 * time.Second
	defaultMaxFailures  = 5
	defaultOpenTimeout  = 30 * time.Second
)

// Config PortOne（iamport）接入配置。
type Config struct {
	APIKey       string
	APISecret    string
	BaseURL      string
	TokenTimeout time.Duration
	QueryTimeout time.Duration
	// MaxFailures 连续传输失败达到该次数后熔断
	MaxFailures uint32
	// OpenTimeout 熔断打开后的冷却时间
	OpenTimeout time.Duration
}

// Payment 网关返回的支付记录（只保留核验所需字段）。
type Payment struct {
	ImpUID      string          `json:"imp_uid"`
	MerchantUID string          `json:"merchant_uid"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	PayMethod   string          `json:"pay_method"`
	PaidAt      int64           `json:"paid_at"`
}

// PaidTime 返回支付时间，未支付时为 nil。
func (p *Payment) PaidTime() *time.Time {
	if p == nil || p.PaidAt <= 0 {
		return nil
	}
	t := time.Unix(p.PaidAt, 0).UTC()
	return &t
}

type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiredAt   int64  `json:"expired_at"`
	Now         int64  `json:"now"`
}

type roundTrip struct {
	status int
	body   []byte
}

// StateChangeFunc 熔断状态变化回调。
type StateChangeFunc func(name string, from, to gobreaker.State)

// Client PortOne REST 客户端，每次往返独立超时并经过熔断器。
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[roundTrip]
}

// Option 客户端可选项。
type Option func(*clientOptions)

type clientOptions struct {
	httpClient    *http.Client
	onStateChange StateChangeFunc
}

// WithHTTPClient 替换底层 HTTP 客户端。
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithStateChange 注册熔断状态变化回调。
func WithStateChange(fn StateChangeFunc) Option {
	return func(o *clientOptions) {
		o.onStateChange = fn
	}
}

// NewClient 创建客户端；未配置凭证时仍返回可用实例，调用时报 ErrConfigInvalid。
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.normalize()
	options := clientOptions{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&options)
	}

	settings := gobreaker.Settings{
		Name:    "portone",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// 只有传输层失败计入熔断，业务错误不影响
			return err == nil || !(errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrTimeout))
		},
	}
	if options.onStateChange != nil {
		settings.OnStateChange = options.onStateChange
	}

	return &Client{
		cfg:        cfg,
		httpClient: options.httpClient,
		breaker:    gobreaker.NewCircuitBreaker[roundTrip](settings),
	}
}

// Configured 是否已配置 API 凭证。
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != "" && c.cfg.APISecret != ""
}

// GetAccessToken 申请访问令牌。
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: api key/secret is required", ErrConfigInvalid)
	}
	payload, err := json.Marshal(map[string]string{
		"imp_key":    c.cfg.APIKey,
		"imp_secret": c.cfg.APISecret,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal token request failed", ErrAuthFailed)
	}

	rt, err := c.do(ctx, c.cfg.TokenTimeout, http.MethodPost, "/users/getToken", "", payload)
	if err != nil {
		return "", err
	}
	if rt.status < 200 || rt.status >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, rt.status)
	}

	var env envelope
	if err := json.Unmarshal(rt.body, &env); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrAuthFailed)
	}
	if env.Code != 0 {
		return "", fmt.Errorf("%w: code=%d message=%s", ErrAuthFailed, env.Code, env.Message)
	}
	var token tokenResponse
	if err := json.Unmarshal(env.Response, &token); err != nil {
		return "", fmt.Errorf("%w: decode token payload failed", ErrAuthFailed)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", fmt.Errorf("%w: access_token is empty", ErrAuthFailed)
	}
	return strings.TrimSpace(token.AccessToken), nil
}

// GetPayment 按网关交易号查询支付记录。
func (c *Client) GetPayment(ctx context.Context, accessToken, impUID string) (*Payment, error) {
	impUID = strings.TrimSpace(impUID)
	if impUID == "" {
		return nil, fmt.Errorf("%w: imp_uid is empty", ErrConfigInvalid)
	}

	rt, err := c.do(ctx, c.cfg.QueryTimeout, http.MethodGet, "/payments/"+url.PathEscape(impUID), accessToken, nil)
	if err != nil {
		return nil, err
	}
	if rt.status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: imp_uid=%s", ErrPaymentNotFound, impUID)
	}
	if rt.status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: query status %d", ErrAuthFailed, rt.status)
	}
	if rt.status < 200 || rt.status >= 300 {
		return nil, fmt.Errorf("%w: query status %d", ErrResponseInvalid, rt.status)
	}

	var env envelope
	if err := json.Unmarshal(rt.body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode payment response failed", ErrResponseInvalid)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("%w: code=%d message=%s", ErrResponseInvalid, env.Code, env.Message)
	}
	raw := bytes.TrimSpace(env.Response)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: imp_uid=%s", ErrPaymentNotFound, impUID)
	}
	var payment Payment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("%w: decode payment payload failed", ErrResponseInvalid)
	}
	payment.Status = strings.ToLower(strings.TrimSpace(payment.Status))
	if payment.ImpUID == "" {
		payment.ImpUID = impUID
	}
	return &payment, nil
}

// do 执行一次带独立超时的往返请求。
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path, accessToken string, body []byte) (roundTrip, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := c.breaker.Execute(func() (roundTrip, error) {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(reqCtx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return roundTrip{}, fmt.Errorf("%w: build request failed", ErrRequestFailed)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if accessToken != "" {
			req.Header.Set("Authorization", accessToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeout(reqCtx, err) {
				return roundTrip{}, fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
			}
			return roundTrip{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if isTimeout(reqCtx, err) {
				return roundTrip{}, fmt.Errorf("%w: read %s", ErrTimeout, path)
			}
			return roundTrip{}, fmt.Errorf("%w: read response failed", ErrRequestFailed)
		}
		return roundTrip{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return roundTrip{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return roundTrip{}, err
	}
	return rt, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Config) normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.APISecret = strings.TrimSpace(c.APISecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.TokenTimeout <= 0 {
		c.TokenTimeout = defaultTokenTimeout
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = defaultQueryTimeout
	}
	if c.MaxFailures == 0 {
		c.MaxFailures = defaultMaxFailures
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
}
