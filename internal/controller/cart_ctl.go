package controller

import (
	"strings"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// HeaderCartToken 访客购物车标识，响应中回写当前有效 token
const HeaderCartToken = "X-Cart-Token"

// ==================== CartController 购物车与结账 ====================

type CartController struct {
	cartSvc     *service.CartService
	checkoutSvc *service.CheckoutService
}

func NewCartController(cartSvc *service.CartService, checkoutSvc *service.CheckoutService) *CartController {
	return &CartController{cartSvc: cartSvc, checkoutSvc: checkoutSvc}
}

func cartToken(ctx *gin.Context) string {
	return strings.TrimSpace(ctx.GetHeader(HeaderCartToken))
}

func (c *CartController) respondCart(ctx *gin.Context, view *dto.CartView) {
	ctx.Header(HeaderCartToken, view.Token)
	respondOK(ctx, "success", view)
}

// GetCart 查看购物车
// @Summary 查看购物车
// @Description 未携带或已过期的 token 会签发新购物车
// @Tags Cart
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string false "购物车 token"
// @Success 200 {object} dto.CartView
// @Router /store/cart [get]
func (c *CartController) GetCart(ctx *gin.Context) {
	view, err := c.cartSvc.GetCart(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondCart(ctx, view)
}

// AddItem 加入购物车
// @Summary 加入购物车
// @Description 相同商品规格合并数量，超过库存返回 409
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string false "购物车 token"
// @Param request body dto.AddCartItemRequest true "商品"
// @Success 200 {object} dto.CartView
// @Router /store/cart/items [post]
func (c *CartController) AddItem(ctx *gin.Context) {
	var req dto.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	view, err := c.cartSvc.AddItem(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondCart(ctx, view)
}

// UpdateItem 修改数量
// @Summary 修改购物车数量，0 表示移除
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string true "购物车 token"
// @Param id path int true "购物车行ID"
// @Param request body dto.UpdateCartItemRequest true "数量"
// @Success 200 {object} dto.CartView
// @Router /store/cart/items/{id} [put]
func (c *CartController) UpdateItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	view, err := c.cartSvc.UpdateItem(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx), id, req.Quantity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondCart(ctx, view)
}

// RemoveItem 移除购物车行
// @Summary 移除购物车行
// @Tags Cart
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string true "购物车 token"
// @Param id path int true "购物车行ID"
// @Success 200 {object} dto.CartView
// @Router /store/cart/items/{id} [delete]
func (c *CartController) RemoveItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.cartSvc.RemoveItem(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondCart(ctx, view)
}

// ClearCart 清空购物车
// @Summary 清空购物车
// @Tags Cart
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string true "购物车 token"
// @Success 200 {object} dto.CartView
// @Router /store/cart [delete]
func (c *CartController) ClearCart(ctx *gin.Context) {
	view, err := c.cartSvc.ClearCart(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondCart(ctx, view)
}

// Checkout 结账下单
// @Summary 结账
// @Description 单事务扣减库存并生成订单；stripe 返回 client_secret
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string true "购物车 token"
// @Param request body dto.CheckoutRequest true "收货与支付信息"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 409 {object} map[string]interface{} "库存不足"
// @Failure 502 {object} map[string]interface{} "支付创建失败"
// @Router /store/checkout [post]
func (c *CartController) Checkout(ctx *gin.Context) {
	var req dto.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	var customerID *int64
	if id := storeCustomerID(ctx); id > 0 {
		customerID = &id
	}
	resp, err := c.checkoutSvc.Checkout(ctx.Request.Context(), middleware.GetStoreID(ctx), cartToken(ctx), customerID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "下单成功", resp)
}
