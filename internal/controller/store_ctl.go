package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// StoreController 店铺（租户）管理
type StoreController struct {
	storeSvc *service.StoreService
}

func NewStoreController(storeSvc *service.StoreService) *StoreController {
	return &StoreController{storeSvc: storeSvc}
}

// ListStores 店铺列表
// @Summary 店铺列表
// @Description 平台管理员查看所有店铺，支持按名称、状态筛选
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "名称关键词"
// @Param status query string false "active / suspended"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult[model.Store]
// @Router /admin/stores [get]
func (c *StoreController) ListStores(ctx *gin.Context) {
	var req dto.StoreListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	result, err := c.storeSvc.ListStores(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// CreateStore 创建店铺
// @Summary 创建店铺
// @Tags Stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStoreRequest true "店铺信息"
// @Success 201 {object} model.Store
// @Failure 409 {object} map[string]interface{} "标识已被占用"
// @Router /admin/stores [post]
func (c *StoreController) CreateStore(ctx *gin.Context) {
	var req dto.CreateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	store, err := c.storeSvc.CreateStore(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", store)
}

// GetStore 店铺详情
// @Summary 店铺详情
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Success 200 {object} model.Store
// @Router /admin/stores/{id} [get]
func (c *StoreController) GetStore(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	store, err := c.storeSvc.GetStore(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", store)
}

// UpdateStore 更新店铺
// @Summary 更新店铺
// @Tags Stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Param request body dto.UpdateStoreRequest true "更新字段"
// @Success 200 {object} model.Store
// @Router /admin/stores/{id} [put]
func (c *StoreController) UpdateStore(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	store, err := c.storeSvc.UpdateStore(ctx.Request.Context(), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", store)
}

// SuspendStore 停用店铺
// @Summary 停用店铺
// @Description 停用后前台与后台请求均返回 403
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/stores/{id}/suspend [post]
func (c *StoreController) SuspendStore(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.storeSvc.SuspendStore(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "店铺已停用", nil)
}

// ActivateStore 启用店铺
// @Summary 启用店铺
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "店铺ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/stores/{id}/activate [post]
func (c *StoreController) ActivateStore(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.storeSvc.ActivateStore(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "店铺已启用", nil)
}

// CurrentStore 当前请求解析出的店铺
// @Summary 当前店铺
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param X-Store-ID header string false "店铺ID或标识"
// @Success 200 {object} model.Store
// @Router /admin/store [get]
func (c *StoreController) CurrentStore(ctx *gin.Context) {
	respondOK(ctx, "success", middleware.GetStore(ctx))
}
