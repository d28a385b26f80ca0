package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/pkg/cache"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/events"
)

// ==================== 测试辅助 ====================

type testEnv struct {
	db     *gorm.DB
	deps   *Dependencies
	router *gin.Engine
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", BaseURL: "http://localhost"},
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpire:  time.Hour,
			RefreshExpire: 24 * time.Hour,
			Issuer:        "test",
		},
		Storage:  config.StorageConfig{Provider: "local", LocalDir: t.TempDir()},
		AI:       config.AIConfig{Provider: "static", HistoryLimit: 8},
		Checkout: config.CheckoutConfig{ShippingFee: 500, CartTTL: time.Hour, DefaultCurrency: "EUR", LowStockThreshold: 5},
	}

	deps, err := Build(context.Background(), cfg, db, Options{
		Cache:     cache.NewMemoryStore(),
		Publisher: &events.Recorder{},
		Assistant: service.StaticAssistant{},
	})
	require.NoError(t, err)
	t.Cleanup(deps.Close)

	return &testEnv{db: db, deps: deps, router: deps.Router()}
}

func (e *testEnv) store(t *testing.T, slug, status string) *model.Store {
	t.Helper()
	s := &model.Store{Name: slug, Slug: slug, Currency: "EUR", Status: status}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

func staffToken(t *testing.T, role string, storeID, vendorID int64) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(middleware.Identity{
		UserID:   42,
		Username: "tester",
		Role:     role,
		StoreID:  storeID,
		VendorID: vendorID,
		Kind:     middleware.KindStaff,
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// ==================== 装配 ====================

func TestBuild_AppliesConfig(t *testing.T) {
	env := setupApp(t)
	assert.Equal(t, 8, env.deps.Services.Support.HistoryLimit())
}

// ==================== 基础路由 ====================

func TestRouter_Health(t *testing.T) {
	env := setupApp(t)

	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

// ==================== 租户解析 ====================

func TestRouter_StorefrontTenant(t *testing.T) {
	env := setupApp(t)
	env.store(t, "maison", model.StoreStatusActive)
	env.store(t, "closed", model.StoreStatusSuspended)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少店铺头", "", http.StatusBadRequest},
		{"店铺不存在", "nowhere", http.StatusNotFound},
		{"店铺已停用", "closed", http.StatusForbidden},
		{"按 slug 解析", "maison", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[middleware.HeaderStoreID] = tt.header
			}
			w := env.do(http.MethodGet, "/api/store/products", nil, headers)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_CartTokenEcho(t *testing.T) {
	env := setupApp(t)
	s := env.store(t, "maison", model.StoreStatusActive)
	headers := map[string]string{middleware.HeaderStoreID: strconv.FormatInt(s.ID, 10)}

	w := env.do(http.MethodGet, "/api/store/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := w.Header().Get("X-Cart-Token")
	require.NotEmpty(t, token)

	headers["X-Cart-Token"] = token
	w = env.do(http.MethodGet, "/api/store/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, token, w.Header().Get("X-Cart-Token"))
}

// ==================== 后台权限 ====================

func TestRouter_AdminAccess(t *testing.T) {
	env := setupApp(t)
	a := env.store(t, "store-a", model.StoreStatusActive)
	b := env.store(t, "store-b", model.StoreStatusActive)

	staffA := staffToken(t, middleware.RoleStaff, a.ID, 0)
	vendorA := staffToken(t, middleware.RoleVendor, a.ID, 7)
	admin := staffToken(t, middleware.RoleAdmin, 0, 0)

	tests := []struct {
		name  string
		path  string
		token string
		store string
		want  int
	}{
		{"未登录", "/api/admin/products", "", "", http.StatusUnauthorized},
		{"员工访问本店", "/api/admin/products", staffA, "", http.StatusOK},
		{"员工跨店访问", "/api/admin/products", staffA, strconv.FormatInt(b.ID, 10), http.StatusForbidden},
		{"管理员指定店铺", "/api/admin/orders", admin, "store-b", http.StatusOK},
		{"管理员未指定店铺", "/api/admin/orders", admin, "", http.StatusBadRequest},
		{"供应商查看商品", "/api/admin/products", vendorA, "", http.StatusOK},
		{"供应商查看订单", "/api/admin/orders", vendorA, "", http.StatusForbidden},
		{"员工管理店铺", "/api/admin/stores", staffA, "", http.StatusForbidden},
		{"管理员管理店铺", "/api/admin/stores", admin, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token != "" {
				headers["Authorization"] = "Bearer " + tt.token
			}
			if tt.store != "" {
				headers[middleware.HeaderStoreID] = tt.store
			}
			w := env.do(http.MethodGet, tt.path, nil, headers)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_CustomerTokenIsStoreBound(t *testing.T) {
	env := setupApp(t)
	a := env.store(t, "store-a", model.StoreStatusActive)
	env.store(t, "store-b", model.StoreStatusActive)

	w := env.do(http.MethodPost, "/api/store/customers/register", map[string]string{
		"email":    "marie@example.com",
		"password": "password123",
		"name":     "Marie",
	}, map[string]string{middleware.HeaderStoreID: "store-a"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]interface{})
	token := data["access_token"].(string)
	require.NotEmpty(t, token)

	w = env.do(http.MethodGet, "/api/store/customers/me", nil, map[string]string{
		middleware.HeaderStoreID: strconv.FormatInt(a.ID, 10),
		"Authorization":          "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/store/customers/me", nil, map[string]string{
		middleware.HeaderStoreID: "store-b",
		"Authorization":          "Bearer " + token,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
}

func TestRouter_StaffLogin(t *testing.T) {
	env := setupApp(t)
	require.NoError(t, env.deps.Services.User.EnsureAdmin(context.Background(), "admin", "admin123"))

	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	token := data["access_token"].(string)

	w = env.do(http.MethodGet, "/api/auth/me", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
