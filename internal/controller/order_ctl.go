package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== OrderController 订单 ====================

type OrderController struct {
	orderSvc   *service.OrderService
	invoiceSvc *service.InvoiceService
}

func NewOrderController(orderSvc *service.OrderService, invoiceSvc *service.InvoiceService) *OrderController {
	return &OrderController{orderSvc: orderSvc, invoiceSvc: invoiceSvc}
}

// List 订单列表
// @Summary 订单列表
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param status query string false "订单状态"
// @Param payment_status query string false "支付状态"
// @Param keyword query string false "订单号 / 邮箱 / 姓名"
// @Param start_date query string false "开始日期 2006-01-02"
// @Param end_date query string false "结束日期 2006-01-02"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Order]
// @Router /admin/orders [get]
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.OrderListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.orderSvc.List(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Get 订单详情
// @Summary 订单详情
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} model.Order
// @Router /admin/orders/{id} [get]
func (c *OrderController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	order, err := c.orderSvc.Get(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", order)
}

// Stats 订单统计
// @Summary 订单统计：各状态数量与区间收入
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期"
// @Param end_date query string false "结束日期"
// @Success 200 {object} model.OrderStats
// @Router /admin/orders/stats [get]
func (c *OrderController) Stats(ctx *gin.Context) {
	var req dto.OrderStatsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	stats, err := c.orderSvc.Stats(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", stats)
}

// UpdateStatus 修改订单状态
// @Summary 修改订单状态
// @Description 按状态机校验，不允许的流转返回 409
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Param request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success 200 {object} model.Order
// @Router /admin/orders/{id}/status [put]
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	order, err := c.orderSvc.UpdateStatus(ctx.Request.Context(), middleware.GetStoreID(ctx), id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "状态已更新", order)
}

// Ship 发货
// @Summary 发货并填写运单号
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Param request body dto.ShipOrderRequest true "物流信息"
// @Success 200 {object} model.Order
// @Router /admin/orders/{id}/ship [post]
func (c *OrderController) Ship(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ShipOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	order, err := c.orderSvc.Ship(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已发货", order)
}

// Cancel 取消订单并回补库存
// @Summary 取消订单
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Param request body dto.CancelOrderRequest false "取消原因"
// @Success 200 {object} model.Order
// @Router /admin/orders/{id}/cancel [post]
func (c *OrderController) Cancel(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CancelOrderRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			respondBadRequest(ctx, err)
			return
		}
	}
	order, err := c.orderSvc.Cancel(ctx.Request.Context(), middleware.GetStoreID(ctx), id, req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "订单已取消", order)
}

// Refund 通过支付渠道退款
// @Summary 退款
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} model.Order
// @Failure 502 {object} map[string]interface{} "支付渠道失败"
// @Router /admin/orders/{id}/refund [post]
func (c *OrderController) Refund(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	order, err := c.orderSvc.Refund(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已退款", order)
}

// GenerateInvoice 为订单开具发票，已存在时直接返回
// @Summary 开具发票
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} model.Invoice
// @Router /admin/orders/{id}/invoice [post]
func (c *OrderController) GenerateInvoice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	inv, err := c.invoiceSvc.Generate(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", inv)
}
