package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/service"
)

// Stripe 回调体上限 64KB
const maxWebhookBody = 65536

// WebhookController 支付渠道回调
type WebhookController struct {
	orderSvc *service.OrderService
}

func NewWebhookController(orderSvc *service.OrderService) *WebhookController {
	return &WebhookController{orderSvc: orderSvc}
}

// Stripe 处理 Stripe 事件，重复投递不会重复变更订单
// @Summary Stripe Webhook
// @Tags Webhook
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "签名"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "签名校验失败"
// @Router /webhooks/stripe [post]
func (c *WebhookController) Stripe(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "message": "读取请求失败"})
		return
	}

	if err := c.orderSvc.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader("Stripe-Signature")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 0, "message": "received"})
}
