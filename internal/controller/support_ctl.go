package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== SupportController 在线客服 ====================

type SupportController struct {
	supportSvc *service.SupportService
}

func NewSupportController(supportSvc *service.SupportService) *SupportController {
	return &SupportController{supportSvc: supportSvc}
}

// Chat 顾客发送消息
// @Summary 发送客服消息
// @Description session_token 为空时新建会话；需要人工时自动生成工单
// @Tags Support
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param request body dto.ChatRequest true "消息"
// @Success 200 {object} dto.ChatResponse
// @Failure 429 {object} map[string]interface{} "请求过于频繁"
// @Router /store/support/chat [post]
func (c *SupportController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	resp, err := c.supportSvc.SendMessage(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", resp)
}

// History 会话历史
// @Summary 会话历史
// @Tags Support
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param session path string true "会话 token"
// @Success 200 {object} dto.ChatHistory
// @Router /store/support/chat/{session} [get]
func (c *SupportController) History(ctx *gin.Context) {
	history, err := c.supportSvc.History(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Param("session"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", history)
}

// ListConversations 后台会话列表
// @Summary 会话列表
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param status query string false "open / escalated / closed"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.SupportConversation]
// @Router /admin/support/conversations [get]
func (c *SupportController) ListConversations(ctx *gin.Context) {
	var req dto.ConversationListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.supportSvc.ListConversations(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Usage AI 调用统计
// @Summary AI 用量统计
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期"
// @Param end_date query string false "结束日期"
// @Success 200 {object} dto.AIUsageResponse
// @Router /admin/support/usage [get]
func (c *SupportController) Usage(ctx *gin.Context) {
	var req dto.AIUsageRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	resp, err := c.supportSvc.Usage(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", resp)
}
