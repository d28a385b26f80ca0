package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/service"
)

// ==================== TicketController 工单 ====================

type TicketController struct {
	ticketSvc *service.TicketService
}

func NewTicketController(ticketSvc *service.TicketService) *TicketController {
	return &TicketController{ticketSvc: ticketSvc}
}

// List 工单列表
// @Summary 工单列表
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态"
// @Param priority query string false "优先级"
// @Param type query string false "类型"
// @Param assignee_id query int false "处理人"
// @Param keyword query string false "编号 / 主题 / 邮箱"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Ticket]
// @Router /admin/tickets [get]
func (c *TicketController) List(ctx *gin.Context) {
	var req dto.TicketListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.ticketSvc.List(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Get 工单详情，含评论
// @Summary 工单详情
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "工单ID"
// @Success 200 {object} model.Ticket
// @Router /admin/tickets/{id} [get]
func (c *TicketController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	t, err := c.ticketSvc.Get(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", t)
}

// Create 手动创建工单
// @Summary 创建工单
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TicketRequest true "工单"
// @Success 201 {object} model.Ticket
// @Router /admin/tickets [post]
func (c *TicketController) Create(ctx *gin.Context) {
	var req dto.TicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	t, err := c.ticketSvc.Create(ctx.Request.Context(), middleware.GetStoreID(ctx), middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", t)
}

// UpdateStatus 变更工单状态
// @Summary 变更工单状态
// @Description CLOSED 只能转为 REOPENED，CANCELLED 为终态
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "工单ID"
// @Param request body dto.TicketStatusRequest true "目标状态"
// @Success 200 {object} model.Ticket
// @Router /admin/tickets/{id}/status [put]
func (c *TicketController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TicketStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	t, err := c.ticketSvc.UpdateStatus(ctx.Request.Context(), middleware.GetStoreID(ctx), id, middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "状态已更新", t)
}

// Assign 指派处理人
// @Summary 指派工单
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "工单ID"
// @Param request body dto.AssignTicketRequest true "处理人，留空取消指派"
// @Success 200 {object} model.Ticket
// @Router /admin/tickets/{id}/assign [put]
func (c *TicketController) Assign(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AssignTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	t, err := c.ticketSvc.Assign(ctx.Request.Context(), middleware.GetStoreID(ctx), id, middleware.GetUserID(ctx), req.AssigneeID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已指派", t)
}

// AddComment 客服回复
// @Summary 添加工单评论
// @Description 非内部评论会同步到对应的客服会话
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "工单ID"
// @Param request body dto.TicketCommentRequest true "评论"
// @Success 201 {object} model.TicketComment
// @Router /admin/tickets/{id}/comments [post]
func (c *TicketController) AddComment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TicketCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	comment, err := c.ticketSvc.AddComment(ctx.Request.Context(), middleware.GetStoreID(ctx), id,
		model.CommentAuthorAgent, middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "评论成功", comment)
}

// Stats 工单统计
// @Summary 工单统计
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TicketStats
// @Router /admin/tickets/stats [get]
func (c *TicketController) Stats(ctx *gin.Context) {
	stats, err := c.ticketSvc.Stats(ctx.Request.Context(), middleware.GetStoreID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", stats)
}
