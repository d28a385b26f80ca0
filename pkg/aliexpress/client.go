package aliexpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/retry"
)

const (
	pathCreateToken  = "/auth/token/create"
	pathRefreshToken = "/auth/token/refresh"

	systemPrefix = "/rest"
	businessPath = "/sync"

	defaultRefreshSkew = 5 * time.Minute
)

// Config 开放平台应用配置
type Config struct {
	AppKey      string
	AppSecret   string
	BaseURL     string // https://api-sg.aliexpress.com
	AuthURL     string // https://api-sg.aliexpress.com/oauth/authorize
	CallbackURL string
	SignMethod  string // sha256 / md5，仅影响业务接口
	Timeout     time.Duration
	RefreshSkew time.Duration // 距离过期多久以内提前刷新
}

// Client 签名请求客户端，多店铺共享
type Client struct {
	cfg     Config
	http    *resty.Client
	retrier *retry.Retrier
	group   singleflight.Group
	now     func() time.Time
}

type Option func(*Client)

// WithRetrier 替换重试器
func WithRetrier(r *retry.Retrier) Option {
	return func(c *Client) { c.retrier = r }
}

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithRestyClient 替换底层 HTTP 客户端
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RefreshSkew <= 0 {
		cfg.RefreshSkew = defaultRefreshSkew
	}
	if cfg.SignMethod == "" {
		cfg.SignMethod = SignMethodSHA256
	}

	c := &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", "laboutique-erp/1.0"),
		retrier: retry.NewRetrier(retry.Config{
			MaxRetries:     3,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     10 * time.Second,
			BackoffFactor:  2,
			Jitter:         0.1,
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured 是否填写了 app key / secret
func (c *Client) Configured() bool {
	return c.cfg.AppKey != "" && c.cfg.AppSecret != ""
}

// AuthorizeURL 卖家授权页地址
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("force_auth", "true")
	q.Set("client_id", c.cfg.AppKey)
	q.Set("redirect_uri", c.cfg.CallbackURL)
	q.Set("state", state)
	return c.cfg.AuthURL + "?" + q.Encode()
}

// ==================== 系统接口 ====================

// CreateToken 用授权码换取 token
func (c *Client) CreateToken(ctx context.Context, code string) (*Token, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := c.callSystem(ctx, pathCreateToken, map[string]string{"code": code})
	if err != nil {
		return nil, err
	}
	return parseTokenResponse(body, c.now())
}

// RefreshAccessToken 用 refresh token 换取新 token，不做持久化
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*Token, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := c.callSystem(ctx, pathRefreshToken, map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}
	return parseTokenResponse(body, c.now())
}

func (c *Client) callSystem(ctx context.Context, apiPath string, extra map[string]string) ([]byte, error) {
	build := func() map[string]string {
		params := map[string]string{
			"app_key":     c.cfg.AppKey,
			"timestamp":   strconv.FormatInt(c.now().UnixMilli(), 10),
			"sign_method": SignMethodSHA256,
		}
		for k, v := range extra {
			params[k] = v
		}
		params["sign"] = Sign(c.cfg.AppSecret, apiPath, params, SignMethodSHA256)
		return params
	}
	return c.do(ctx, systemPrefix+apiPath, "", build)
}

// ==================== 业务接口 ====================

func (c *Client) callBusiness(ctx context.Context, method, accessToken string, extra map[string]string) ([]byte, error) {
	build := func() map[string]string {
		params := map[string]string{
			"app_key":      c.cfg.AppKey,
			"method":       method,
			"sign_method":  c.cfg.SignMethod,
			"access_token": accessToken,
		}
		if c.cfg.SignMethod == SignMethodMD5 {
			// TOP 兼容：秒级时间字符串 + 版本号
			params["timestamp"] = c.now().In(chinaZone).Format("2006-01-02 15:04:05")
			params["v"] = "2.0"
			params["format"] = "json"
		} else {
			params["timestamp"] = strconv.FormatInt(c.now().UnixMilli(), 10)
		}
		for k, v := range extra {
			params[k] = v
		}
		params["sign"] = Sign(c.cfg.AppSecret, "", params, c.cfg.SignMethod)
		return params
	}
	return c.do(ctx, businessPath, method, build)
}

var chinaZone = time.FixedZone("CST", 8*3600)

// do 发起 GET 请求，瞬时错误由 retrier 重试
// 每次尝试重新生成时间戳和签名
func (c *Client) do(ctx context.Context, path, method string, build func() map[string]string) ([]byte, error) {
	var body []byte
	op := path
	if method != "" {
		op = method
	}

	res := c.retrier.Do(ctx, "aliexpress "+op, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(build()).
			Get(path)
		if err != nil {
			return fmt.Errorf("请求失败: %w", err)
		}

		if err := decodeEnvelope(resp.StatusCode(), resp.Body(), method); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				apiErr.RetryAfter = retry.ParseRetryAfter(resp.Header().Get("Retry-After"))
			}
			return err
		}
		body = resp.Body()
		return nil
	})
	if err := res.Err(); err != nil {
		logger.Warn("[AliExpress] 调用失败",
			zap.String("op", op),
			zap.Int("attempts", res.Attempts),
			zap.Error(err),
		)
		return nil, err
	}
	return body, nil
}

// ==================== 店铺会话 ====================

// Session 绑定某个店铺 token 的调用入口
type Session struct {
	c     *Client
	key   string
	store TokenStore
}

// Session key 用于区分店铺，同一 key 的并发刷新只会执行一次
func (c *Client) Session(key string, store TokenStore) *Session {
	return &Session{c: c, key: key, store: store}
}

// Token 返回可用的 access token，临近过期时先刷新
// 过期 token 永远不会被发出去：刷新失败直接返回错误
func (s *Session) Token(ctx context.Context) (*Token, error) {
	tok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取 token 失败: %w", err)
	}
	if tok == nil || tok.Invalid {
		return nil, ErrAuthorizationRequired
	}
	if tok.Expired(s.c.now(), s.c.cfg.RefreshSkew) {
		return s.refresh(ctx, tok.AccessToken)
	}
	return tok, nil
}

// Refresh 强制刷新
func (s *Session) Refresh(ctx context.Context) (*Token, error) {
	tok, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取 token 失败: %w", err)
	}
	if tok == nil || tok.Invalid {
		return nil, ErrAuthorizationRequired
	}
	return s.refresh(ctx, tok.AccessToken)
}

// refresh stale 是调用方手里已失效的 access token
// 若存储里的 token 已被其他调用换掉且仍有效，直接复用
func (s *Session) refresh(ctx context.Context, stale string) (*Token, error) {
	v, err, _ := s.c.group.Do("refresh:"+s.key, func() (interface{}, error) {
		cur, err := s.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		if cur == nil || cur.Invalid {
			return nil, ErrAuthorizationRequired
		}

		now := s.c.now()
		if cur.AccessToken != stale && !cur.Expired(now, s.c.cfg.RefreshSkew) {
			return cur, nil
		}
		if !cur.Refreshable(now) {
			_ = s.store.MarkInvalid(ctx, "refresh token expired")
			return nil, ErrAuthorizationRequired
		}

		nt, err := s.c.RefreshAccessToken(ctx, cur.RefreshToken)
		if err != nil {
			if isRefusal(err) {
				logger.Warn("[AliExpress] refresh token 被拒绝，标记失效",
					zap.String("key", s.key), zap.Error(err))
				_ = s.store.MarkInvalid(ctx, err.Error())
				return nil, fmt.Errorf("%w: %v", ErrAuthorizationRequired, err)
			}
			return nil, err
		}

		if nt.RefreshToken == "" {
			nt.RefreshToken = cur.RefreshToken
			nt.RefreshExpiresAt = cur.RefreshExpiresAt
		}
		if nt.SellerID == "" {
			nt.SellerID = cur.SellerID
		}
		if nt.Account == "" {
			nt.Account = cur.Account
		}
		if nt.UserID == "" {
			nt.UserID = cur.UserID
		}
		if err := s.store.Save(ctx, nt); err != nil {
			return nil, fmt.Errorf("保存 token 失败: %w", err)
		}
		logger.Info("[AliExpress] token 刷新成功",
			zap.String("key", s.key), zap.Time("expires_at", nt.ExpiresAt))
		return nt, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Token), nil
}

// Call 调用业务接口，返回 <method>_response 节点
// token 被服务端判定失效时强制刷新一次并重试一次
func (s *Session) Call(ctx context.Context, method string, params map[string]string) (json.RawMessage, error) {
	if !s.c.Configured() {
		return nil, ErrNotConfigured
	}
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := s.c.callBusiness(ctx, method, tok.AccessToken, params)
	var apiErr *APIError
	if err != nil && errors.As(err, &apiErr) && apiErr.IsTokenExpired() {
		logger.Warn("[AliExpress] access token 被拒绝，刷新后重试",
			zap.String("key", s.key), zap.String("method", method))
		tok, err = s.refresh(ctx, tok.AccessToken)
		if err != nil {
			return nil, err
		}
		body, err = s.c.callBusiness(ctx, method, tok.AccessToken, params)
	}
	if err != nil {
		return nil, err
	}
	return extractResponse(body, method), nil
}

func extractResponse(body []byte, method string) json.RawMessage {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		if raw, ok := probe[responseKey(method)]; ok {
			return raw
		}
	}
	return body
}

// isRefusal 非瞬时错误视为服务端拒绝
func isRefusal(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch retry.Classify(err) {
	case retry.KindNetwork, retry.KindTimeout, retry.KindRateLimited, retry.KindServer, retry.KindCanceled:
		return false
	}
	return true
}
