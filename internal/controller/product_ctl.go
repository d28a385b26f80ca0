package controller

import (
	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/service"
)

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ==================== 查询接口 ====================

// GetProducts 后台商品列表
// @Summary 后台商品列表
// @Tags Product
// @Security BearerAuth
// @Param status query string false "draft / active / archived"
// @Param keyword query string false "标题 / SKU"
// @Param category_id query int false "分类ID"
// @Param vendor_id query int false "供应商ID"
// @Param source query string false "manual / seed / aliexpress"
// @Param sort query string false "newest / price_asc / price_desc / title"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult[model.Product]
// @Router /admin/products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if scope := middleware.GetVendorScope(c); scope != 0 {
		req.VendorID = scope
	}

	result, err := ctrl.productService.List(c.Request.Context(), middleware.GetStoreID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "success", result)
}

// GetProduct 商品详情
// @Summary 商品详情
// @Tags Product
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Success 200 {object} model.Product
// @Router /admin/products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	p, ok := ctrl.scoped(c)
	if !ok {
		return
	}
	respondOK(c, "success", p)
}

// GetProductStats 商品统计
// @Summary 商品统计：按状态计数、低库存
// @Tags Product
// @Security BearerAuth
// @Success 200 {object} model.ProductStats
// @Router /admin/products/stats [get]
func (ctrl *ProductController) GetProductStats(c *gin.Context) {
	stats, err := ctrl.productService.Stats(c.Request.Context(), middleware.GetStoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "success", stats)
}

// ==================== 写操作 ====================

// CreateProduct 创建商品
// @Summary 创建商品
// @Tags Product
// @Accept json
// @Security BearerAuth
// @Param request body dto.ProductRequest true "商品"
// @Success 201 {object} model.Product
// @Router /admin/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if scope := middleware.GetVendorScope(c); scope != 0 {
		req.VendorID = &scope
	}

	p, err := ctrl.productService.Create(c.Request.Context(), middleware.GetStoreID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "创建成功", p)
}

// UpdateProduct 更新商品
// @Summary 更新商品，variants / images 整体替换
// @Tags Product
// @Accept json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body dto.ProductRequest true "商品"
// @Success 200 {object} model.Product
// @Router /admin/products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	p, ok := ctrl.scoped(c)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if scope := middleware.GetVendorScope(c); scope != 0 {
		req.VendorID = &scope
	}

	updated, err := ctrl.productService.Update(c.Request.Context(), p.StoreID, p.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "更新成功", updated)
}

// DeleteProduct 删除商品（软删除）
// @Summary 删除商品
// @Tags Product
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	p, ok := ctrl.scoped(c)
	if !ok {
		return
	}
	if err := ctrl.productService.Delete(c.Request.Context(), p.StoreID, p.ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "删除成功", nil)
}

// SetStatus 上架 / 下架 / 归档
// @Summary 修改商品状态
// @Tags Product
// @Accept json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body dto.SetStatusRequest true "状态"
// @Success 200 {object} map[string]interface{}
// @Router /admin/products/{id}/status [put]
func (ctrl *ProductController) SetStatus(c *gin.Context) {
	p, ok := ctrl.scoped(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := ctrl.productService.SetStatus(c.Request.Context(), p.StoreID, p.ID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "状态已更新", nil)
}

// AdjustStock 调整库存
// @Summary 调整库存，delta 为负表示扣减
// @Tags Product
// @Accept json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body dto.AdjustStockRequest true "调整量"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "库存不足"
// @Router /admin/products/{id}/stock [post]
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	p, ok := ctrl.scoped(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := ctrl.productService.AdjustStock(c.Request.Context(), p.StoreID, p.ID, req.Delta, req.VariantID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "库存已更新", nil)
}

// BatchUpsert 按 (source, source_id) 批量写入
// @Summary 批量写入商品
// @Tags Product
// @Accept json
// @Security BearerAuth
// @Param request body dto.BatchUpsertRequest true "商品列表"
// @Success 200 {object} dto.BatchUpsertResult
// @Router /admin/products/batch [post]
func (ctrl *ProductController) BatchUpsert(c *gin.Context) {
	var req dto.BatchUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if scope := middleware.GetVendorScope(c); scope != 0 {
		for i := range req.Items {
			req.Items[i].VendorID = &scope
		}
	}

	result, err := ctrl.productService.BatchUpsert(c.Request.Context(), middleware.GetStoreID(c), req.Source, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "success", result)
}

// scoped 读取路径中的商品，vendor 账号看不到其他供应商的商品
func (ctrl *ProductController) scoped(c *gin.Context) (*model.Product, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	p, err := ctrl.productService.Get(c.Request.Context(), middleware.GetStoreID(c), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if scope := middleware.GetVendorScope(c); scope != 0 && (p.VendorID == nil || *p.VendorID != scope) {
		respondError(c, service.ErrProductNotFound)
		return nil, false
	}
	return p, true
}
