package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ==================== KeyedLimiter 令牌桶限流 ====================

// KeyedLimiter 按 key（IP、会话、店铺）维护独立令牌桶
type KeyedLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.Mutex
	entries map[string]*limiterEntry
	sweepAt time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter every 为补充一个令牌的间隔
func NewKeyedLimiter(every time.Duration, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limit:   rate.Every(every),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow 是否允许本次请求
func (l *KeyedLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// RetryAfter 下一个令牌的等待时间
func (l *KeyedLimiter) RetryAfter(key string) time.Duration {
	r := l.get(key).Reserve()
	defer r.Cancel()
	return r.Delay()
}

func (l *KeyedLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.sweepAt) {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.idleTTL {
				delete(l.entries, k)
			}
		}
		l.sweepAt = now.Add(l.idleTTL)
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// ==================== Gin 中间件 ====================

// KeyFunc 从请求中提取限流键
type KeyFunc func(c *gin.Context) string

// KeyByIP 按客户端 IP
func KeyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// KeyByStoreAndIP 按店铺 + IP
func KeyByStoreAndIP(c *gin.Context) string {
	return "store:" + strconv.FormatInt(GetStoreID(c), 10) + ":" + c.ClientIP()
}

// RateLimit 令牌桶限流中间件
func RateLimit(l *KeyedLimiter, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if l.Allow(key) {
			c.Next()
			return
		}

		wait := l.RetryAfter(key)
		c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"code":    429,
			"message": formatRetryMessage(wait),
			"data": gin.H{
				"retry_after": int(wait.Seconds()) + 1,
			},
		})
	}
}

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	if seconds < 60 {
		return fmt.Sprintf("请求过于频繁，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("请求过于频繁，请 %d 分钟后重试", minutes)
	}

	return fmt.Sprintf("请求过于频繁，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
