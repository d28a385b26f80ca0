package controller

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
)

func productRouter(e *ctlEnv, claims *middleware.UserClaims) *gin.Engine {
	ctrl := NewProductController(e.products)
	r := e.router(claims)
	r.GET("/admin/products", ctrl.GetProducts)
	r.POST("/admin/products", ctrl.CreateProduct)
	r.GET("/admin/products/:id", ctrl.GetProduct)
	r.PUT("/admin/products/:id/status", ctrl.SetStatus)
	r.POST("/admin/products/:id/stock", ctrl.AdjustStock)
	return r
}

func TestProductController_Create(t *testing.T) {
	e := setupCtlEnv(t)
	r := productRouter(e, staffClaims(middleware.RoleStaff, 0))

	tests := []struct {
		name      string
		body      gin.H
		wantCode  int
		wantError string
	}{
		{"store currency by default", gin.H{"title": "Lampe Rotin", "price": 3000, "stock": 4}, http.StatusCreated, ""},
		{"foreign currency", gin.H{"title": "Lamp", "price": 3000, "currency": "USD"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing title", gin.H{"price": 3000}, http.StatusBadRequest, ""},
		{"unknown status", gin.H{"title": "Vase", "status": "sold"}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/admin/products", tt.body, nil)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
			}
		})
	}

	var p model.Product
	require.NoError(t, e.db.Where("store_id = ?", e.store.ID).First(&p).Error)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, model.ProductStatusDraft, p.Status)
	assert.EqualValues(t, 3000, p.Price)
}

func TestProductController_GetAndScope(t *testing.T) {
	e := setupCtlEnv(t)
	vendor := &model.Vendor{StoreID: e.store.ID, Name: "Atelier", Slug: "atelier", Status: "active"}
	require.NoError(t, e.db.Create(vendor).Error)
	owned := e.product(t, "Panier", "panier", 2500, 3, model.ProductStatusActive)
	require.NoError(t, e.db.Model(owned).Update("vendor_id", vendor.ID).Error)
	other := e.product(t, "Tapis", "tapis", 9000, 1, model.ProductStatusActive)

	staff := productRouter(e, staffClaims(middleware.RoleStaff, 0))
	w := doJSON(staff, http.MethodGet, "/admin/products/"+strconv.FormatInt(other.ID, 10), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tapis", dataOf(t, w)["title"])

	assert.Equal(t, http.StatusBadRequest, doJSON(staff, http.MethodGet, "/admin/products/abc", nil, nil).Code)
	w = doJSON(staff, http.MethodGet, "/admin/products/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, w)["error"])

	vendorRouter := productRouter(e, staffClaims(middleware.RoleVendor, vendor.ID))
	assert.Equal(t, http.StatusOK, doJSON(vendorRouter, http.MethodGet, "/admin/products/"+strconv.FormatInt(owned.ID, 10), nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(vendorRouter, http.MethodGet, "/admin/products/"+strconv.FormatInt(other.ID, 10), nil, nil).Code,
		"供应商看不到其他供应商的商品")

	w = doJSON(vendorRouter, http.MethodGet, "/admin/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, dataOf(t, w)["total"])
}

func TestProductController_StockAndStatus(t *testing.T) {
	e := setupCtlEnv(t)
	p := e.product(t, "Lampe", "lampe", 3000, 2, model.ProductStatusDraft)
	r := productRouter(e, staffClaims(middleware.RoleStaff, 0))
	base := "/admin/products/" + strconv.FormatInt(p.ID, 10)

	w := doJSON(r, http.MethodPost, base+"/stock", gin.H{"delta": -5}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["error"])

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, base+"/stock", gin.H{"delta": 3}, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPut, base+"/status", gin.H{"status": "active"}, nil).Code)

	var got model.Product
	require.NoError(t, e.db.First(&got, p.ID).Error)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, model.ProductStatusActive, got.Status)
}
