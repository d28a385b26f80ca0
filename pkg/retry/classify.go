package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Kind 错误分类
type Kind string

const (
	KindNetwork     Kind = "network"
	KindTimeout     Kind = "timeout"
	KindRateLimited Kind = "rate_limited"
	KindServer      Kind = "server"
	KindAuth        Kind = "auth"
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindCanceled    Kind = "canceled"
	KindUnknown     Kind = "unknown"
)

// StatusError 携带 HTTP 状态码的错误
// 外部 API 客户端返回它，重试器据此判断是否可重试
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("http %d: %v", e.StatusCode, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, truncate(e.Body, 200))
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// NewStatusError 根据响应构造错误，自动解析 Retry-After
func NewStatusError(resp *http.Response, body string) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode, Body: body}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		se.RetryAfter = ParseRetryAfter(ra)
	}
	return se
}

type statusCoder interface {
	StatusCode() int
}

type retryAfterer interface {
	RetryAfterDuration() time.Duration
}

// KindOf 由 HTTP 状态码推断分类
func KindOf(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindServer
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400:
		return KindValidation
	default:
		return KindUnknown
	}
}

// Classify 对任意错误分类
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	// 1. 上下文
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	// 2. HTTP 状态码
	var se *StatusError
	if errors.As(err, &se) {
		return KindOf(se.StatusCode)
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		if k := KindOf(sc.StatusCode()); k != KindUnknown {
			return k
		}
	}

	// 3. 网络层
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindNetwork
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindNetwork
	}

	// 4. 文本兜底
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return KindTimeout
	case containsAny(msg, "rate limit", "too many requests", "quota"):
		return KindRateLimited
	case containsAny(msg, "connection refused", "connection reset", "no such host", "broken pipe", "eof", "network"):
		return KindNetwork
	case containsAny(msg, "unauthorized", "forbidden", "invalid token", "expired token", "access token"):
		return KindAuth
	case containsAny(msg, "not found"):
		return KindNotFound
	case containsAny(msg, "invalid", "required", "must be"):
		return KindValidation
	}
	return KindUnknown
}

// RetryAfterOf 提取错误里的 Retry-After
func RetryAfterOf(err error) time.Duration {
	var se *StatusError
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	var ra retryAfterer
	if errors.As(err, &ra) {
		return ra.RetryAfterDuration()
	}
	return 0
}

// ParseRetryAfter 解析 Retry-After 头，支持秒数和 HTTP 日期
func ParseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
