package aliexpress

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// 响应未给出有效期时的兜底
const defaultTokenTTL = 24 * time.Hour

// Token 卖家授权令牌
type Token struct {
	AccessToken      string
	RefreshToken     string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
	SellerID         string
	UserID           string
	Account          string
	Invalid          bool // refresh 被拒绝后置为 true，需要重新授权
}

// Expired 在 skew 窗口内即视为过期
func (t *Token) Expired(now time.Time, skew time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return !now.Add(skew).Before(t.ExpiresAt)
}

// Refreshable refresh token 仍可用
func (t *Token) Refreshable(now time.Time) bool {
	if t == nil || t.Invalid || t.RefreshToken == "" {
		return false
	}
	if t.RefreshExpiresAt.IsZero() {
		return true
	}
	return now.Before(t.RefreshExpiresAt)
}

// TokenStore 令牌持久化
type TokenStore interface {
	// Load 没有记录时返回 (nil, nil)
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, token *Token) error
	MarkInvalid(ctx context.Context, reason string) error
}

// MemoryTokenStore 内存实现，用于测试和 CLI 单次调用
type MemoryTokenStore struct {
	mu     sync.Mutex
	token  *Token
	reason string
}

func NewMemoryTokenStore(t *Token) *MemoryTokenStore {
	return &MemoryTokenStore{token: t}
}

func (s *MemoryTokenStore) Load(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, nil
	}
	cp := *s.token
	return &cp, nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, t *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.token = &cp
	return nil
}

func (s *MemoryTokenStore) MarkInvalid(ctx context.Context, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != nil {
		s.token.Invalid = true
	}
	s.reason = reason
	return nil
}

// Reason 最近一次失效原因
func (s *MemoryTokenStore) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// tokenResponse /auth/token/create 与 /auth/token/refresh 的响应
type tokenResponse struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	ExpireTime            flexString `json:"expire_time"`              // 毫秒时间戳
	RefreshTokenValidTime flexString `json:"refresh_token_valid_time"` // 毫秒时间戳
	ExpiresIn             flexString `json:"expires_in"`               // 秒
	RefreshExpiresIn      flexString `json:"refresh_expires_in"`       // 秒
	SellerID              flexString `json:"seller_id"`
	UserID                flexString `json:"user_id"`
	Account               string     `json:"account"`
}

func parseTokenResponse(body []byte, now time.Time) (*Token, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, &APIError{Code: "EmptyToken", Message: "响应缺少 access_token"}
	}

	t := &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		SellerID:     tr.SellerID.String(),
		UserID:       tr.UserID.String(),
		Account:      tr.Account,
	}
	t.ExpiresAt = resolveExpiry(tr.ExpireTime, tr.ExpiresIn, now)
	t.RefreshExpiresAt = resolveExpiry(tr.RefreshTokenValidTime, tr.RefreshExpiresIn, now)
	if t.ExpiresAt.IsZero() {
		t.ExpiresAt = now.Add(defaultTokenTTL)
	}
	return t, nil
}

// resolveExpiry 优先使用绝对毫秒时间戳，其次相对秒数
func resolveExpiry(absMillis, relSeconds flexString, now time.Time) time.Time {
	if ms, err := strconv.ParseInt(absMillis.String(), 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	if sec, err := strconv.ParseInt(relSeconds.String(), 10, 64); err == nil && sec > 0 {
		return now.Add(time.Duration(sec) * time.Second)
	}
	return time.Time{}
}
