package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== VendorController 供应商 ====================

type VendorController struct {
	vendorSvc *service.VendorService
}

func NewVendorController(vendorSvc *service.VendorService) *VendorController {
	return &VendorController{vendorSvc: vendorSvc}
}

// List 供应商列表
// @Summary 供应商列表
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending / active / suspended"
// @Param keyword query string false "名称/邮箱"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Vendor]
// @Router /admin/vendors [get]
func (c *VendorController) List(ctx *gin.Context) {
	var req dto.VendorListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.vendorSvc.List(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Get 供应商详情
// @Summary 供应商详情
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Success 200 {object} model.Vendor
// @Router /admin/vendors/{id} [get]
func (c *VendorController) Get(ctx *gin.Context) {
	id, ok := c.vendorID(ctx)
	if !ok {
		return
	}
	v, err := c.vendorSvc.Get(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", v)
}

// Create 创建供应商，初始状态为 pending
// @Summary 创建供应商
// @Tags Vendors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VendorRequest true "供应商"
// @Success 201 {object} model.Vendor
// @Router /admin/vendors [post]
func (c *VendorController) Create(ctx *gin.Context) {
	var req dto.VendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	v, err := c.vendorSvc.Create(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondCreated(ctx, "创建成功", v)
}

// Update 更新供应商
// @Summary 更新供应商
// @Tags Vendors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Param request body dto.VendorRequest true "供应商"
// @Success 200 {object} model.Vendor
// @Router /admin/vendors/{id} [put]
func (c *VendorController) Update(ctx *gin.Context) {
	id, ok := c.vendorID(ctx)
	if !ok {
		return
	}
	var req dto.VendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	v, err := c.vendorSvc.Update(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", v)
}

// Approve 审核通过
// @Summary 审核通过供应商
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/vendors/{id}/approve [post]
func (c *VendorController) Approve(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.vendorSvc.Approve(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已审核通过", nil)
}

// Suspend 暂停供应商
// @Summary 暂停供应商
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/vendors/{id}/suspend [post]
func (c *VendorController) Suspend(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.vendorSvc.Suspend(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已暂停", nil)
}

// Delete 删除供应商
// @Summary 删除供应商
// @Description 仍有商品时返回 409
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/vendors/{id} [delete]
func (c *VendorController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.vendorSvc.Delete(ctx.Request.Context(), middleware.GetStoreID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "删除成功", nil)
}

// Stats 供应商经营统计
// @Summary 供应商统计
// @Tags Vendors
// @Produce json
// @Security BearerAuth
// @Param id path int true "供应商ID"
// @Success 200 {object} model.VendorStats
// @Router /admin/vendors/{id}/stats [get]
func (c *VendorController) Stats(ctx *gin.Context) {
	id, ok := c.vendorID(ctx)
	if !ok {
		return
	}
	stats, err := c.vendorSvc.Stats(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", stats)
}

// vendorID vendor 账号只能访问自己的记录
func (c *VendorController) vendorID(ctx *gin.Context) (int64, bool) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return 0, false
	}
	if scope := middleware.GetVendorScope(ctx); scope != 0 && scope != id {
		respondError(ctx, service.ErrVendorNotFound)
		return 0, false
	}
	return id, true
}
