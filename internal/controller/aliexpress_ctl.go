package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/service"
)

// ==================== AliExpressController 授权与商品导入 ====================

type AliExpressController struct {
	aliSvc *service.AliExpressService
}

func NewAliExpressController(aliSvc *service.AliExpressService) *AliExpressController {
	return &AliExpressController{aliSvc: aliSvc}
}

// AuthorizeURL 生成授权跳转地址
// @Summary 获取 AliExpress 授权地址
// @Description state 10 分钟内有效且只能使用一次
// @Tags AliExpress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AliExpressAuthResponse
// @Router /admin/aliexpress/oauth/url [get]
func (c *AliExpressController) AuthorizeURL(ctx *gin.Context) {
	resp, err := c.aliSvc.AuthorizeURL(ctx.Request.Context(), middleware.GetStoreID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", resp)
}

// Callback 授权回调，由 AliExpress 重定向回来
// @Summary AliExpress 授权回调
// @Tags AliExpress
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "授权状态"
// @Success 200 {object} model.AliExpressToken
// @Failure 400 {object} map[string]interface{} "state 无效或已过期"
// @Router /aliexpress/callback [get]
func (c *AliExpressController) Callback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "缺少 code 或 state 参数",
		})
		return
	}

	token, err := c.aliSvc.Callback(ctx.Request.Context(), code, state)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "授权成功", gin.H{
		"store_id":   token.StoreID,
		"account":    token.Account,
		"seller_id":  token.SellerID,
		"expires_at": token.ExpiresAt,
	})
}

// Status 授权状态
// @Summary AliExpress 授权状态
// @Tags AliExpress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AliExpressStatus
// @Router /admin/aliexpress/status [get]
func (c *AliExpressController) Status(ctx *gin.Context) {
	status, err := c.aliSvc.Status(ctx.Request.Context(), middleware.GetStoreID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", status)
}

// Disconnect 解除授权
// @Summary 解除 AliExpress 授权
// @Tags AliExpress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/aliexpress/disconnect [post]
func (c *AliExpressController) Disconnect(ctx *gin.Context) {
	if err := c.aliSvc.Disconnect(ctx.Request.Context(), middleware.GetStoreID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已解除授权", nil)
}

// Import 导入单个商品
// @Summary 从 AliExpress 导入商品
// @Description 同一商品重复导入只更新；未授权返回 403
// @Tags AliExpress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportRequest true "商品链接或 ID"
// @Success 200 {object} dto.ImportResult
// @Failure 429 {object} map[string]interface{} "导入冷却中"
// @Failure 502 {object} map[string]interface{} "AliExpress 调用失败"
// @Router /admin/aliexpress/import [post]
func (c *AliExpressController) Import(ctx *gin.Context) {
	var req dto.ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	if scope := middleware.GetVendorScope(ctx); scope != 0 {
		req.VendorID = &scope
	}

	result, err := c.aliSvc.ImportProduct(ctx.Request.Context(), middleware.GetStoreID(ctx), middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "导入成功", result)
}

// ListJobs 导入记录
// @Summary 导入记录
// @Tags AliExpress
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending / running / success / failed"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.ImportJob]
// @Router /admin/aliexpress/jobs [get]
func (c *AliExpressController) ListJobs(ctx *gin.Context) {
	var req dto.ImportJobListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	req.Page, req.PageSize = model.ClampPage(req.Page, req.PageSize)

	list, total, err := c.aliSvc.ListJobs(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", dto.NewPageResult(list, total, req.Page, req.PageSize))
}
