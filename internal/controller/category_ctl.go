package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== CategoryController 分类 ====================

type CategoryController struct {
	categorySvc *service.CategoryService
}

func NewCategoryController(categorySvc *service.CategoryService) *CategoryController {
	return &CategoryController{categorySvc: categorySvc}
}

// List 分类平铺列表
// @Summary 分类列表
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Category
// @Router /admin/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	list, err := c.categorySvc.List(ctx.Request.Context(), middleware.GetStoreID(ctx), false)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", list)
}

// Tree 后台分类树，包含停用分类
// @Summary 分类树
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CategoryNode
// @Router /admin/categories/tree [get]
func (c *CategoryController) Tree(ctx *gin.Context) {
	tree, err := c.categorySvc.Tree(ctx.Request.Context(), middleware.GetStoreID(ctx), false)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", tree)
}

// Get 分类详情
// @Summary 分类详情
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Success 200 {object} model.Category
// @Router /admin/categories/{id} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	cat, err := c.categorySvc.Get(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", cat)
}

// Create 创建分类
// @Summary 创建分类
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CategoryRequest true "分类"
// @Success 201 {object} model.Category
// @Router /admin/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	cat, err := c.categorySvc.Create(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", cat)
}

// Update 更新分类
// @Summary 更新分类
// @Description 不能把分类移动到自身或其子分类下
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Param request body dto.CategoryRequest true "分类"
// @Success 200 {object} model.Category
// @Router /admin/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	cat, err := c.categorySvc.Update(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", cat)
}

// Delete 删除分类
// @Summary 删除分类
// @Description 存在子分类或商品时返回 409
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "分类ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.categorySvc.Delete(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "删除成功", nil)
}
