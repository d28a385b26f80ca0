package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/pkg/logger"
)

// 租户请求头
const (
	HeaderStoreID  = "X-Store-ID"
	HeaderTenantID = "X-Tenant-ID"
)

const (
	ContextKeyStoreID = "store_id"
	ContextKeyStore   = "store"
)

// StoreResolver 按数字 ID 或 slug 查找店铺
type StoreResolver interface {
	Resolve(ctx context.Context, idOrSlug string) (*model.Store, error)
}

// TenantMiddleware 解析当前请求的店铺
// 请求头缺失 400，店铺不存在 404，已停用 403
// 后台接口未带请求头时回退到 JWT 中的店铺
func TenantMiddleware(resolver StoreResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderStoreID))
		if key == "" {
			key = strings.TrimSpace(c.GetHeader(HeaderTenantID))
		}
		if key == "" {
			if claims := GetUserClaims(c); claims != nil && claims.StoreID > 0 {
				key = strconv.FormatInt(claims.StoreID, 10)
			}
		}
		if key == "" {
			abortJSON(c, http.StatusBadRequest, "缺少店铺标识 X-Store-ID")
			return
		}

		store, err := resolver.Resolve(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortJSON(c, http.StatusNotFound, "店铺不存在")
				return
			}
			logger.Error("[Tenant] 解析店铺失败", zap.String("key", key), zap.Error(err))
			abortJSON(c, http.StatusInternalServerError, "解析店铺失败")
			return
		}
		if !store.IsActive() {
			abortJSON(c, http.StatusForbidden, "店铺已停用")
			return
		}

		c.Set(ContextKeyStoreID, store.ID)
		c.Set(ContextKeyStore, store)
		c.Next()
	}
}

// GetStoreID 从 Context 获取店铺 ID
func GetStoreID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyStoreID); exists {
		return id.(int64)
	}
	return 0
}

// GetStore 从 Context 获取店铺
func GetStore(c *gin.Context) *model.Store {
	if s, exists := c.Get(ContextKeyStore); exists {
		return s.(*model.Store)
	}
	return nil
}
