package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// ==================== StorefrontController 前台目录 ====================

// StorefrontController 前台商品与分类，只返回在售内容
type StorefrontController struct {
	productSvc  *service.ProductService
	categorySvc *service.CategoryService
}

func NewStorefrontController(productSvc *service.ProductService, categorySvc *service.CategoryService) *StorefrontController {
	return &StorefrontController{productSvc: productSvc, categorySvc: categorySvc}
}

// StoreInfo 当前店铺公开信息
// @Summary 店铺信息
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Success 200 {object} map[string]interface{}
// @Router /store/info [get]
func (c *StorefrontController) StoreInfo(ctx *gin.Context) {
	store := middleware.GetStore(ctx)
	respondOK(ctx, "success", gin.H{
		"id":            store.ID,
		"name":          store.Name,
		"slug":          store.Slug,
		"currency":      store.Currency,
		"logo_url":      store.LogoURL,
		"support_email": store.SupportEmail,
	})
}

// Products 商品列表
// @Summary 前台商品列表
// @Description 分类筛选包含子分类；page_size 最大 100
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param q query string false "关键词"
// @Param category query string false "分类 slug 或 ID"
// @Param vendor_id query int false "供应商ID"
// @Param min_price query int false "最低价（分）"
// @Param max_price query int false "最高价（分）"
// @Param in_stock query bool false "仅有货"
// @Param featured query bool false "仅推荐"
// @Param sort query string false "newest / price_asc / price_desc / title"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Product]
// @Router /store/products [get]
func (c *StorefrontController) Products(ctx *gin.Context) {
	var q dto.CatalogQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.productSvc.ListPublished(ctx.Request.Context(), middleware.GetStoreID(ctx), &q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Product 商品详情
// @Summary 前台商品详情
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param slug path string true "商品标识"
// @Success 200 {object} model.Product
// @Failure 404 {object} map[string]interface{}
// @Router /store/products/{slug} [get]
func (c *StorefrontController) Product(ctx *gin.Context) {
	p, err := c.productSvc.GetBySlug(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", p)
}

// Featured 推荐商品
// @Summary 推荐商品
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param limit query int false "数量" default(8)
// @Success 200 {array} model.Product
// @Router /store/featured [get]
func (c *StorefrontController) Featured(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "8"))
	list, err := c.productSvc.Featured(ctx.Request.Context(), middleware.GetStoreID(ctx), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", list)
}

// Categories 分类树
// @Summary 前台分类树
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Success 200 {array} model.CategoryNode
// @Router /store/categories [get]
func (c *StorefrontController) Categories(ctx *gin.Context) {
	tree, err := c.categorySvc.Tree(ctx.Request.Context(), middleware.GetStoreID(ctx), true)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", tree)
}

// Category 分类详情
// @Summary 前台分类详情
// @Tags Storefront
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param slug path string true "分类标识"
// @Success 200 {object} model.Category
// @Router /store/categories/{slug} [get]
func (c *StorefrontController) Category(ctx *gin.Context) {
	cat, err := c.categorySvc.GetBySlug(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !cat.IsActive {
		respondError(ctx, service.ErrCategoryNotFound)
		return
	}
	respondOK(ctx, "success", cat)
}
