package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== Cooldown 店铺级操作冷却 ====================

// Cooldown 防止同一店铺频繁触发耗时操作（商品导入、目录导出）
type Cooldown struct {
	locks sync.Map // key -> *cooldownEntry
}

type cooldownEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// NewCooldown 创建冷却器
func NewCooldown() *Cooldown {
	return &Cooldown{}
}

// Check 检查并在允许时记录本次执行
func (r *Cooldown) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &cooldownEntry{})
	entry := actual.(*cooldownEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = time.Now()
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key
func (r *Cooldown) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== 操作类型 ====================

// Action 冷却的操作类型
type Action string

const (
	ActionImport Action = "import"
	ActionExport Action = "export"
)

// StoreActionKey 生成店铺级冷却 Key
func StoreActionKey(storeID int64, action Action) string {
	return fmt.Sprintf("store:%d:%s", storeID, action)
}

// StoreCooldown 店铺级冷却中间件，需挂在 TenantMiddleware 之后
func StoreCooldown(cd *Cooldown, action Action, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := cd.Check(StoreActionKey(GetStoreID(c), action), interval)
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": int(result.RetryAfter.Seconds()),
					"action":      action,
				},
			})
			return
		}
		c.Next()
	}
}
