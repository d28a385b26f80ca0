package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// InvoiceController 发票
type InvoiceController struct {
	invoiceSvc *service.InvoiceService
}

func NewInvoiceController(invoiceSvc *service.InvoiceService) *InvoiceController {
	return &InvoiceController{invoiceSvc: invoiceSvc}
}

// List 发票列表
// @Summary 发票列表
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param status query string false "issued / paid / void"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Invoice]
// @Router /admin/invoices [get]
func (c *InvoiceController) List(ctx *gin.Context) {
	var req dto.InvoiceListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	result, err := c.invoiceSvc.List(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// Get 发票详情
// @Summary 发票详情
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} model.Invoice
// @Router /admin/invoices/{id} [get]
func (c *InvoiceController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	inv, err := c.invoiceSvc.Get(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", inv)
}

// Void 作废发票
// @Summary 作废发票
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} model.Invoice
// @Router /admin/invoices/{id}/void [post]
func (c *InvoiceController) Void(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	inv, err := c.invoiceSvc.Void(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "发票已作废", inv)
}

// MarkPaid 标记已付款
// @Summary 标记发票已付款
// @Tags Invoice
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} model.Invoice
// @Router /admin/invoices/{id}/paid [post]
func (c *InvoiceController) MarkPaid(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	inv, err := c.invoiceSvc.MarkPaid(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "已标记付款", inv)
}

// Download 下载 PDF
// @Summary 下载发票 PDF
// @Tags Invoice
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {file} binary
// @Router /admin/invoices/{id}/pdf [get]
func (c *InvoiceController) Download(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	data, filename, err := c.invoiceSvc.Download(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, "application/pdf", data)
}
