package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
)

// 导入文件上限 20MB
const maxImportSize = 20 << 20

// CatalogIOController 目录批量导入导出
type CatalogIOController struct {
	seedSvc *service.SeedService
}

func NewCatalogIOController(seedSvc *service.SeedService) *CatalogIOController {
	return &CatalogIOController{seedSvc: seedSvc}
}

// Import 上传 JSON 或 XLSX 批量导入分类、供应商、商品
// @Summary 批量导入目录
// @Description 无效行跳过并在报告中返回行号；同一店铺有冷却时间
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true ".json 或 .xlsx"
// @Success 200 {object} service.SeedReport
// @Failure 429 {object} map[string]interface{} "冷却中"
// @Router /admin/catalog/import [post]
func (c *CatalogIOController) Import(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		respondBadRequest(ctx, err)
		return
	}
	if fh.Size > maxImportSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"code": 413, "message": "文件过大，最大 20MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondBadRequest(ctx, err)
		return
	}
	defer f.Close()

	var (
		ds      *service.Dataset
		rowErrs []service.SeedRowError
	)
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".json":
		ds, err = service.ParseSeedJSON(f)
	case ".xlsx":
		ds, rowErrs, err = service.ParseSeedXLSX(f)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "仅支持 .json 或 .xlsx 文件"})
		return
	}
	if err != nil {
		respondBadRequest(ctx, err)
		return
	}

	report, err := c.seedSvc.Seed(ctx.Request.Context(), middleware.GetStoreID(ctx), ds, service.SeedOptions{})
	if err != nil {
		respondError(ctx, err)
		return
	}
	report.Errors = append(rowErrs, report.Errors...)
	respondOK(ctx, "导入完成", report)
}

// Export 导出当前店铺目录为 XLSX，列与导入格式一致
// @Summary 导出目录
// @Tags Catalog
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /admin/catalog/export [get]
func (c *CatalogIOController) Export(ctx *gin.Context) {
	store := middleware.GetStore(ctx)
	var buf bytes.Buffer
	if err := c.seedSvc.ExportCatalog(ctx.Request.Context(), store.ID, &buf); err != nil {
		respondError(ctx, err)
		return
	}
	filename := fmt.Sprintf("%s-catalog-%s.xlsx", store.Slug, time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
