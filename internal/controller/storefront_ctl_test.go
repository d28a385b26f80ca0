package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laboutique_erp_202610/internal/model"
)

func TestStorefrontController_PublishedOnly(t *testing.T) {
	e := setupCtlEnv(t)
	e.product(t, "Lampe", "lampe", 3000, 5, model.ProductStatusActive)
	e.product(t, "Brouillon", "brouillon", 1000, 5, model.ProductStatusDraft)

	ctrl := NewStorefrontController(e.products, e.category)
	r := e.router(nil)
	r.GET("/store/info", ctrl.StoreInfo)
	r.GET("/store/products", ctrl.Products)
	r.GET("/store/products/:slug", ctrl.Product)

	w := doJSON(r, http.MethodGet, "/store/info", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EUR", dataOf(t, w)["currency"])

	w = doJSON(r, http.MethodGet, "/store/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.EqualValues(t, 1, data["total"])
	list := data["list"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "lampe", list[0].(map[string]interface{})["slug"])

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/store/products/lampe", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/store/products/brouillon", nil, nil).Code)
}
