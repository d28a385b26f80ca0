package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== PageController 内容页 / 横幅 / 邮件订阅 ====================

type PageController struct {
	pageSvc *service.PageService
}

func NewPageController(pageSvc *service.PageService) *PageController {
	return &PageController{pageSvc: pageSvc}
}

// ==================== 后台：内容页 ====================

// ListPages 内容页列表
// @Summary 内容页列表
// @Tags Pages
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft / published"
// @Success 200 {array} model.Page
// @Router /admin/pages [get]
func (c *PageController) ListPages(ctx *gin.Context) {
	list, err := c.pageSvc.ListPages(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Query("status"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", list)
}

// GetPage 内容页详情
// @Summary 内容页详情
// @Tags Pages
// @Produce json
// @Security BearerAuth
// @Param id path int true "页面ID"
// @Success 200 {object} model.Page
// @Router /admin/pages/{id} [get]
func (c *PageController) GetPage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, err := c.pageSvc.GetPage(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", page)
}

// CreatePage 创建内容页
// @Summary 创建内容页
// @Tags Pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PageRequest true "页面"
// @Success 201 {object} model.Page
// @Router /admin/pages [post]
func (c *PageController) CreatePage(ctx *gin.Context) {
	var req dto.PageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	page, err := c.pageSvc.CreatePage(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", page)
}

// UpdatePage 更新内容页
// @Summary 更新内容页
// @Tags Pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "页面ID"
// @Param request body dto.PageRequest true "页面"
// @Success 200 {object} model.Page
// @Router /admin/pages/{id} [put]
func (c *PageController) UpdatePage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.PageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	page, err := c.pageSvc.UpdatePage(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", page)
}

// DeletePage 删除内容页
// @Summary 删除内容页
// @Tags Pages
// @Security BearerAuth
// @Param id path int true "页面ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/pages/{id} [delete]
func (c *PageController) DeletePage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.pageSvc.DeletePage(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "删除成功", nil)
}

// Publish 发布
// @Summary 发布内容页
// @Tags Pages
// @Security BearerAuth
// @Param id path int true "页面ID"
// @Success 200 {object} model.Page
// @Router /admin/pages/{id}/publish [post]
func (c *PageController) Publish(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, err := c.pageSvc.Publish(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已发布", page)
}

// Unpublish 撤回为草稿
// @Summary 撤回内容页
// @Tags Pages
// @Security BearerAuth
// @Param id path int true "页面ID"
// @Success 200 {object} model.Page
// @Router /admin/pages/{id}/unpublish [post]
func (c *PageController) Unpublish(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, err := c.pageSvc.Unpublish(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已撤回", page)
}

// ==================== 后台：横幅 ====================

// ListBanners 横幅列表
// @Summary 横幅列表
// @Tags Banners
// @Produce json
// @Security BearerAuth
// @Param position query string false "投放位置"
// @Success 200 {array} model.Banner
// @Router /admin/banners [get]
func (c *PageController) ListBanners(ctx *gin.Context) {
	list, err := c.pageSvc.ListBanners(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Query("position"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", list)
}

// CreateBanner 创建横幅
// @Summary 创建横幅
// @Description ends_at 必须晚于 starts_at
// @Tags Banners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BannerRequest true "横幅"
// @Success 201 {object} model.Banner
// @Router /admin/banners [post]
func (c *PageController) CreateBanner(ctx *gin.Context) {
	var req dto.BannerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	b, err := c.pageSvc.CreateBanner(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", b)
}

// UpdateBanner 更新横幅
// @Summary 更新横幅
// @Tags Banners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "横幅ID"
// @Param request body dto.BannerRequest true "横幅"
// @Success 200 {object} model.Banner
// @Router /admin/banners/{id} [put]
func (c *PageController) UpdateBanner(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.BannerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	b, err := c.pageSvc.UpdateBanner(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", b)
}

// DeleteBanner 删除横幅
// @Summary 删除横幅
// @Tags Banners
// @Security BearerAuth
// @Param id path int true "横幅ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/banners/{id} [delete]
func (c *PageController) DeleteBanner(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.pageSvc.DeleteBanner(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "删除成功", nil)
}

// ListSubscribers 邮件订阅者
// @Summary 邮件订阅者列表
// @Tags Newsletter
// @Produce json
// @Security BearerAuth
// @Param status query string false "subscribed / unsubscribed"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.NewsletterSubscriber]
// @Router /admin/newsletter/subscribers [get]
func (c *PageController) ListSubscribers(ctx *gin.Context) {
	var req dto.SubscriberListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.pageSvc.ListSubscribers(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// ==================== 前台 ====================

// PublishedPage 前台内容页，仅已发布
// @Summary 前台内容页
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param slug path string true "页面标识"
// @Success 200 {object} model.Page
// @Router /store/pages/{slug} [get]
func (c *PageController) PublishedPage(ctx *gin.Context) {
	page, err := c.pageSvc.PublishedPage(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", page)
}

// ActiveBanners 前台横幅，启用且在投放窗口内
// @Summary 前台横幅
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param position query string false "投放位置"
// @Success 200 {array} model.Banner
// @Router /store/banners [get]
func (c *PageController) ActiveBanners(ctx *gin.Context) {
	list, err := c.pageSvc.ActiveBanners(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Query("position"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", list)
}

// Subscribe 订阅邮件
// @Summary 订阅邮件
// @Tags Storefront
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param request body dto.SubscribeRequest true "邮箱"
// @Success 200 {object} model.NewsletterSubscriber
// @Router /store/newsletter/subscribe [post]
func (c *PageController) Subscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	sub, err := c.pageSvc.Subscribe(ctx.Request.Context(), middleware.GetStoreID(ctx), req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "订阅成功", sub)
}

// Unsubscribe 退订邮件
// @Summary 退订邮件
// @Tags Storefront
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param request body dto.SubscribeRequest true "邮箱"
// @Success 200 {object} map[string]interface{}
// @Router /store/newsletter/unsubscribe [post]
func (c *PageController) Unsubscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	if err := c.pageSvc.Unsubscribe(ctx.Request.Context(), middleware.GetStoreID(ctx), req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已退订", nil)
}
