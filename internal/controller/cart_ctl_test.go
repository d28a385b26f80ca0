package controller

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laboutique_erp_202610/internal/model"
)

func cartRouter(e *ctlEnv) *gin.Engine {
	ctrl := NewCartController(e.carts, e.checkout)
	r := e.router(nil)
	r.GET("/store/cart", ctrl.GetCart)
	r.DELETE("/store/cart", ctrl.ClearCart)
	r.POST("/store/cart/items", ctrl.AddItem)
	r.PUT("/store/cart/items/:id", ctrl.UpdateItem)
	r.DELETE("/store/cart/items/:id", ctrl.RemoveItem)
	r.POST("/store/checkout", ctrl.Checkout)
	return r
}

func checkoutBody(method string) gin.H {
	return gin.H{
		"email": "awa@example.com",
		"name":  "Awa Diop",
		"shipping_address": gin.H{
			"line1": "12 Rue Carnot", "city": "Dakar", "country": "SN",
		},
		"payment_method": method,
	}
}

func TestCartController_TokenEcho(t *testing.T) {
	e := setupCtlEnv(t)
	r := cartRouter(e)

	w := doJSON(r, http.MethodGet, "/store/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(HeaderCartToken)
	require.NotEmpty(t, token)
	assert.Equal(t, token, dataOf(t, w)["token"])
	assert.Equal(t, "EUR", dataOf(t, w)["currency"])

	w = doJSON(r, http.MethodGet, "/store/cart", nil, map[string]string{HeaderCartToken: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, token, w.Header().Get(HeaderCartToken), "有效 token 原样回写")
}

func TestCartController_AddAndCheckout(t *testing.T) {
	e := setupCtlEnv(t)
	lamp := e.product(t, "Lampe", "lampe", 3000, 3, model.ProductStatusActive)
	r := cartRouter(e)

	w := doJSON(r, http.MethodGet, "/store/cart", nil, nil)
	headers := map[string]string{HeaderCartToken: w.Header().Get(HeaderCartToken)}

	w = doJSON(r, http.MethodPost, "/store/cart/items", gin.H{"product_id": lamp.ID, "quantity": 0}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/store/cart/items", gin.H{"product_id": lamp.ID, "quantity": 5}, headers)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/store/cart/items", gin.H{"product_id": lamp.ID, "quantity": 2}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	totals := dataOf(t, w)["totals"].(map[string]interface{})
	assert.EqualValues(t, 6000, totals["subtotal"])
	assert.EqualValues(t, 2, totals["item_count"])

	w = doJSON(r, http.MethodPost, "/store/checkout", checkoutBody("paypal"), headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/store/checkout", checkoutBody(model.PaymentMethodCOD), headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataOf(t, w)
	assert.NotEmpty(t, data["order_number"])
	assert.EqualValues(t, 6000+500, data["total"])
	assert.Equal(t, "EUR", data["currency"])

	var got model.Product
	require.NoError(t, e.db.First(&got, lamp.ID).Error)
	assert.Equal(t, 1, got.Stock)

	w = doJSON(r, http.MethodPost, "/store/checkout", checkoutBody(model.PaymentMethodCOD), headers)
	assert.Equal(t, http.StatusBadRequest, w.Code, "购物车已在下单后删除")
}

func TestCartController_UpdateAndRemove(t *testing.T) {
	e := setupCtlEnv(t)
	vase := e.product(t, "Vase", "vase", 1500, 10, model.ProductStatusActive)
	r := cartRouter(e)

	w := doJSON(r, http.MethodPost, "/store/cart/items", gin.H{"product_id": vase.ID, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	headers := map[string]string{HeaderCartToken: w.Header().Get(HeaderCartToken)}
	items := dataOf(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	itemID := strconv.FormatInt(int64(items[0].(map[string]interface{})["item_id"].(float64)), 10)

	w = doJSON(r, http.MethodPut, "/store/cart/items/"+itemID, gin.H{"quantity": 4}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 6000, dataOf(t, w)["totals"].(map[string]interface{})["subtotal"])

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/store/cart/items/x", gin.H{"quantity": 1}, headers).Code)

	w = doJSON(r, http.MethodDelete, "/store/cart/items/"+itemID, nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dataOf(t, w)["items"])
}
