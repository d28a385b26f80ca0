package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string        // 签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	Issuer          string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "laboutique-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "laboutique",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// 账号类型
const (
	KindStaff    = "staff"
	KindCustomer = "customer"
)

// 角色，与 model.SysUser 保持一致；顾客统一为 customer
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// Identity 签发 Token 所需的身份信息
type Identity struct {
	UserID   int64
	Username string
	Role     string
	StoreID  int64
	VendorID int64
	Kind     string
}

// UserClaims 用户声明
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	StoreID  int64  `json:"store_id,omitempty"`
	VendorID int64  `json:"vendor_id,omitempty"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// IsAdmin 平台管理员
func (c *UserClaims) IsAdmin() bool {
	return c.Kind == KindStaff && c.Role == RoleAdmin
}

// CanAccessStore 管理员可访问所有店铺，其余账号仅限所属店铺
func (c *UserClaims) CanAccessStore(storeID int64) bool {
	if c.IsAdmin() {
		return true
	}
	return c.StoreID != 0 && c.StoreID == storeID
}

// ==================== Token 生成 ====================

func generateToken(id Identity, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	if id.Kind == "" {
		id.Kind = KindStaff
	}
	claims := &UserClaims{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
		StoreID:  id.StoreID,
		VendorID: id.VendorID,
		Kind:     id.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateAccessToken 生成 Access Token
func GenerateAccessToken(id Identity) (string, error) {
	return generateToken(id, "access", jwtConfig.AccessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func GenerateRefreshToken(id Identity) (string, error) {
	return generateToken(id, "refresh", jwtConfig.RefreshTokenTTL)
}

// GenerateTokenPair 生成 Token 对
func GenerateTokenPair(id Identity) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(id)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(id)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ==================== Token 解析 ====================

// ParseToken 解析 Token
func ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
	ContextKeyClaims   = "claims"
)

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *UserClaims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUsername, claims.Username)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyClaims, claims)
}

// JWTAuth JWT 认证中间件，kinds 为空时接受任意账号类型
func JWTAuth(kinds ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortJSON(c, http.StatusUnauthorized, "未提供认证信息")
			return
		}

		raw, ok := bearerToken(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "认证格式错误，应为 Bearer {token}")
			return
		}

		claims, err := ParseToken(raw)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Token 无效或已过期")
			return
		}

		// 检查是否为 Access Token
		if claims.Subject != "access" {
			abortJSON(c, http.StatusUnauthorized, "Token 类型错误")
			return
		}

		if len(kinds) > 0 && !contains(kinds, claims.Kind) {
			abortJSON(c, http.StatusForbidden, "账号类型不允许访问")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole 角色权限校验中间件
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "未获取到用户角色")
			return
		}

		if contains(roles, role.(string)) {
			c.Next()
			return
		}

		abortJSON(c, http.StatusForbidden, "无权限访问")
	}
}

// RequireStoreAccess 校验当前账号能否操作已解析出的店铺
// 需挂在 JWTAuth 与 TenantMiddleware 之后
func RequireStoreAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetUserClaims(c)
		if claims == nil {
			abortJSON(c, http.StatusUnauthorized, "未提供认证信息")
			return
		}
		storeID := GetStoreID(c)
		if storeID == 0 || !claims.CanAccessStore(storeID) {
			abortJSON(c, http.StatusForbidden, "无权访问该店铺")
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制登录）
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := ParseToken(raw)
		if err != nil || claims.Subject != "access" {
			c.Next()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// ==================== 辅助函数 ====================

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// GetUserID 从 Context 获取用户 ID
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUsername 从 Context 获取用户名
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		return name.(string)
	}
	return ""
}

// GetUserRole 从 Context 获取用户角色
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get(ContextKeyRole); exists {
		return role.(string)
	}
	return ""
}

// GetUserClaims 从 Context 获取完整 Claims
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}

// GetCustomerID 顾客登录时返回顾客 ID，否则为 0
func GetCustomerID(c *gin.Context) int64 {
	if claims := GetUserClaims(c); claims != nil && claims.Kind == KindCustomer {
		return claims.UserID
	}
	return 0
}

// GetVendorScope vendor 角色只能看到自己的数据
func GetVendorScope(c *gin.Context) int64 {
	if claims := GetUserClaims(c); claims != nil && claims.Role == RoleVendor {
		return claims.VendorID
	}
	return 0
}
