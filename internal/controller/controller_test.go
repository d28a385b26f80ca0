package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/pkg/cache"
	"laboutique_erp_202610/pkg/config"
)

// ==================== 测试辅助 ====================

type ctlEnv struct {
	db       *gorm.DB
	store    *model.Store
	products *service.ProductService
	carts    *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	category *service.CategoryService
}

func setupCtlEnv(t *testing.T) *ctlEnv {
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

	store := &model.Store{Name: "Boutique", Slug: "boutique", Currency: "EUR", Status: model.StoreStatusActive}
	require.NoError(t, db.Create(store).Error)

	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	categories := service.NewCategoryService(repository.NewCategoryRepository(db))
	vendors := service.NewVendorService(repository.NewVendorRepository(db))
	products := service.NewProductService(productRepo, storeRepo, categories, vendors, cache.NewMemoryStore())

	gateway := service.NewPaymentGateway(config.StripeConfig{})
	carts := service.NewCartService(cartRepo, productRepo, storeRepo, config.CheckoutConfig{ShippingFee: 500})
	orders := service.NewOrderService(orderRepo, productRepo, gateway, nil, nil)
	checkout := service.NewCheckoutService(carts, cartRepo, productRepo, orderRepo, orders, gateway, nil, nil)

	return &ctlEnv{
		db: db, store: store, products: products, carts: carts,
		checkout: checkout, orders: orders, category: categories,
	}
}

// router 模拟租户中间件；claims 为 nil 时视为匿名
func (e *ctlEnv) router(claims *middleware.UserClaims) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyStoreID, e.store.ID)
		c.Set(middleware.ContextKeyStore, e.store)
		if claims != nil {
			c.Set(middleware.ContextKeyClaims, claims)
		}
		c.Next()
	})
	return r
}

func (e *ctlEnv) product(t *testing.T, title, slug string, price int64, stock int, status string) *model.Product {
	t.Helper()
	p := &model.Product{
		StoreID: e.store.ID, Title: title, Slug: slug,
		Price: price, Stock: stock, Status: status, Currency: "EUR",
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return data
}

func staffClaims(role string, vendorID int64) *middleware.UserClaims {
	return &middleware.UserClaims{
		UserID: 1, Username: "staff", Role: role,
		VendorID: vendorID, Kind: middleware.KindStaff,
	}
}
