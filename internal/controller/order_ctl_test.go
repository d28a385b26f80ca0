package controller

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
)

func orderRouter(e *ctlEnv) *gin.Engine {
	ctrl := NewOrderController(e.orders, nil)
	r := e.router(staffClaims(middleware.RoleStaff, 0))
	r.GET("/admin/orders", ctrl.List)
	r.GET("/admin/orders/:id", ctrl.Get)
	r.PUT("/admin/orders/:id/status", ctrl.UpdateStatus)
	r.POST("/admin/orders/:id/cancel", ctrl.Cancel)
	return r
}

// placeOrder 货到付款下单，返回订单 ID
func (e *ctlEnv) placeOrder(t *testing.T, p *model.Product, qty int) int64 {
	t.Helper()
	ctx := context.Background()
	cart, err := e.carts.GetCart(ctx, e.store.ID, "")
	require.NoError(t, err)
	_, err = e.carts.AddItem(ctx, e.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: p.ID, Quantity: qty})
	require.NoError(t, err)
	res, err := e.checkout.Checkout(ctx, e.store.ID, cart.Token, nil, &dto.CheckoutRequest{
		Email: "awa@example.com",
		Name:  "Awa Diop",
		ShippingAddress: dto.AddressDTO{
			Line1: "12 Rue Carnot", City: "Dakar", Country: "SN",
		},
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.NoError(t, err)
	return res.OrderID
}

func TestOrderController_StatusFlow(t *testing.T) {
	e := setupCtlEnv(t)
	lamp := e.product(t, "Lampe", "lampe", 3000, 5, model.ProductStatusActive)
	id := e.placeOrder(t, lamp, 1)
	r := orderRouter(e)
	path := "/admin/orders/" + strconv.FormatInt(id, 10)

	w := doJSON(r, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.OrderStatusPending, dataOf(t, w)["status"])

	tests := []struct {
		name      string
		status    string
		wantCode  int
		wantError string
	}{
		{"unknown status", "lost", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"skip ahead", model.OrderStatusShipped, http.StatusConflict, "CONFLICT"},
		{"pay", model.OrderStatusPaid, http.StatusOK, ""},
		{"pay twice", model.OrderStatusPaid, http.StatusConflict, "CONFLICT"},
		{"process", model.OrderStatusProcessing, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, path+"/status", gin.H{"status": tt.status}, nil)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
				return
			}
			assert.Equal(t, tt.status, dataOf(t, w)["status"])
		})
	}
}

func TestOrderController_CancelRestocks(t *testing.T) {
	e := setupCtlEnv(t)
	lamp := e.product(t, "Lampe", "lampe", 3000, 5, model.ProductStatusActive)
	id := e.placeOrder(t, lamp, 2)
	r := orderRouter(e)

	w := doJSON(r, http.MethodPost, "/admin/orders/"+strconv.FormatInt(id, 10)+"/cancel", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.OrderStatusCancelled, dataOf(t, w)["status"])

	var got model.Product
	require.NoError(t, e.db.First(&got, lamp.ID).Error)
	assert.Equal(t, 5, got.Stock)

	w = doJSON(r, http.MethodPost, "/admin/orders/"+strconv.FormatInt(id, 10)+"/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderController_TenantIsolation(t *testing.T) {
	e := setupCtlEnv(t)
	other := &model.Store{Name: "Autre", Slug: "autre", Currency: "EUR", Status: model.StoreStatusActive}
	require.NoError(t, e.db.Create(other).Error)
	foreign := &model.Order{StoreID: other.ID, OrderNumber: "ORD-20261019-ZZZZZZ", Email: "x@example.com", Currency: "EUR"}
	require.NoError(t, e.db.Create(foreign).Error)

	lamp := e.product(t, "Lampe", "lampe", 3000, 5, model.ProductStatusActive)
	e.placeOrder(t, lamp, 1)
	r := orderRouter(e)

	w := doJSON(r, http.MethodGet, "/admin/orders/"+strconv.FormatInt(foreign.ID, 10), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/orders", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, dataOf(t, w)["total"])
}
