package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

// 工作表名称，与 JSON 顶层键一致
const (
	SheetCategories = "categories"
	SheetVendors    = "vendors"
	SheetProducts   = "products"
)

// ==================== 数据集 ====================

// SeedCategory 分类行
type SeedCategory struct {
	Row         int    `json:"-"`
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=140"`
	ParentSlug  string `json:"parent_slug" validate:"omitempty,max=140"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=512"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// SeedVendor 供应商行
type SeedVendor struct {
	Row           int    `json:"-"`
	Name          string `json:"name" validate:"required,max=120"`
	Slug          string `json:"slug" validate:"omitempty,max=140"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=32"`
	Description   string `json:"description"`
	LogoURL       string `json:"logo_url" validate:"omitempty,url,max=512"`
	CommissionBps *int64 `json:"commission_bps" validate:"omitempty,min=0,max=10000"`
}

// SeedProduct 商品行，金额为最小货币单位
type SeedProduct struct {
	Row            int      `json:"-"`
	Title          string   `json:"title" validate:"required,max=255"`
	Slug           string   `json:"slug" validate:"omitempty,max=200"`
	SKU            string   `json:"sku" validate:"max=100"`
	Description    string   `json:"description"`
	Price          int64    `json:"price" validate:"min=0"`
	CompareAtPrice int64    `json:"compare_at_price" validate:"min=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
	Stock          int      `json:"stock" validate:"min=0"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft active archived"`
	IsFeatured     bool     `json:"is_featured"`
	CategorySlug   string   `json:"category_slug"`
	VendorSlug     string   `json:"vendor_slug"`
	Images         []string `json:"images" validate:"dive,url"`
}

// Dataset 种子数据
type Dataset struct {
	Categories []SeedCategory `json:"categories"`
	Vendors    []SeedVendor   `json:"vendors"`
	Products   []SeedProduct  `json:"products"`
}

// SeedRowError 行级错误，Row 为文件中的行号
type SeedRowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (e SeedRowError) String() string {
	return fmt.Sprintf("%s 第 %d 行 (%s): %s", e.Sheet, e.Row, e.Key, e.Message)
}

// SeedCounts 单类数据的写入统计
type SeedCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// SeedReport 导入报告
type SeedReport struct {
	Categories SeedCounts     `json:"categories"`
	Vendors    SeedCounts     `json:"vendors"`
	Products   SeedCounts     `json:"products"`
	Errors     []SeedRowError `json:"errors,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

func (r *SeedReport) fail(counts *SeedCounts, sheet string, row int, key string, err error) {
	counts.Skipped++
	r.Errors = append(r.Errors, SeedRowError{Sheet: sheet, Row: row, Key: key, Message: err.Error()})
}

// SeedOptions 导入选项
type SeedOptions struct {
	// Copy 在 PostgreSQL 上用 COPY 批量写入商品
	Copy bool
}

// ==================== 解析 ====================

// ParseSeedJSON {categories[], vendors[], products[]}
func ParseSeedJSON(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	for i := range ds.Categories {
		ds.Categories[i].Row = i + 1
	}
	for i := range ds.Vendors {
		ds.Vendors[i].Row = i + 1
	}
	for i := range ds.Products {
		ds.Products[i].Row = i + 1
	}
	return &ds, nil
}

// ParseSeedXLSX 读取 categories / vendors / products 三个工作表，首行为列名
// 单元格格式错误的行记录到返回的错误列表，不中断解析
func ParseSeedXLSX(r io.Reader) (*Dataset, []SeedRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	ds := &Dataset{}
	var rowErrs []SeedRowError
	found := false

	for _, name := range f.GetSheetList() {
		sheet := strings.ToLower(strings.TrimSpace(name))
		if sheet != SheetCategories && sheet != SheetVendors && sheet != SheetProducts {
			continue
		}
		found = true
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			var perr error
			switch sheet {
			case SheetCategories:
				var c SeedCategory
				if c, perr = categoryFromRow(row); perr == nil {
					ds.Categories = append(ds.Categories, c)
				}
			case SheetVendors:
				var v SeedVendor
				if v, perr = vendorFromRow(row); perr == nil {
					ds.Vendors = append(ds.Vendors, v)
				}
			case SheetProducts:
				var p SeedProduct
				if p, perr = productFromRow(row); perr == nil {
					ds.Products = append(ds.Products, p)
				}
			}
			if perr != nil {
				rowErrs = append(rowErrs, SeedRowError{Sheet: sheet, Row: row.num, Message: perr.Error()})
			}
		}
	}
	if !found {
		return nil, nil, fmt.Errorf("未找到 categories / vendors / products 工作表")
	}
	return ds, rowErrs, nil
}

type sheetRow struct {
	num    int
	values map[string]string
}

func (r sheetRow) str(key string) string { return strings.TrimSpace(r.values[key]) }

func (r sheetRow) int64(key string) (int64, error) {
	v := r.str(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s 不是整数: %q", key, v)
	}
	return n, nil
}

func (r sheetRow) bool(key string) (*bool, error) {
	v := strings.ToLower(r.str(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		switch v {
		case "yes", "oui", "y":
			b = true
		case "no", "non", "n":
			b = false
		default:
			return nil, fmt.Errorf("%s 不是布尔值: %q", key, v)
		}
	}
	return &b, nil
}

func readSheet(f *excelize.File, sheet string) ([]sheetRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), " *")
	}

	var out []sheetRow
	for i, cells := range rows[1:] {
		row := sheetRow{num: i + 2, values: make(map[string]string, len(headers))}
		empty := true
		for j, cell := range cells {
			if j < len(headers) && headers[j] != "" {
				row.values[headers[j]] = cell
				if strings.TrimSpace(cell) != "" {
					empty = false
				}
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}

func categoryFromRow(r sheetRow) (SeedCategory, error) {
	c := SeedCategory{
		Row:         r.num,
		Name:        r.str("name"),
		Slug:        r.str("slug"),
		ParentSlug:  r.str("parent_slug"),
		Description: r.str("description"),
		ImageURL:    r.str("image_url"),
	}
	order, err := r.int64("sort_order")
	if err != nil {
		return c, err
	}
	c.SortOrder = int(order)
	if c.IsActive, err = r.bool("is_active"); err != nil {
		return c, err
	}
	return c, nil
}

func vendorFromRow(r sheetRow) (SeedVendor, error) {
	v := SeedVendor{
		Row:         r.num,
		Name:        r.str("name"),
		Slug:        r.str("slug"),
		Email:       r.str("email"),
		Phone:       r.str("phone"),
		Description: r.str("description"),
		LogoURL:     r.str("logo_url"),
	}
	if r.str("commission_bps") != "" {
		bps, err := r.int64("commission_bps")
		if err != nil {
			return v, err
		}
		v.CommissionBps = &bps
	}
	return v, nil
}

func productFromRow(r sheetRow) (SeedProduct, error) {
	p := SeedProduct{
		Row:          r.num,
		Title:        r.str("title"),
		Slug:         r.str("slug"),
		SKU:          r.str("sku"),
		Description:  r.str("description"),
		Currency:     strings.ToUpper(r.str("currency")),
		Status:       strings.ToLower(r.str("status")),
		CategorySlug: r.str("category_slug"),
		VendorSlug:   r.str("vendor_slug"),
	}
	var err error
	if p.Price, err = r.int64("price"); err != nil {
		return p, err
	}
	if p.CompareAtPrice, err = r.int64("compare_at_price"); err != nil {
		return p, err
	}
	stock, err := r.int64("stock")
	if err != nil {
		return p, err
	}
	p.Stock = int(stock)
	featured, err := r.bool("is_featured")
	if err != nil {
		return p, err
	}
	p.IsFeatured = featured != nil && *featured
	for _, img := range strings.Split(r.str("images"), ";") {
		if img = strings.TrimSpace(img); img != "" {
			p.Images = append(p.Images, img)
		}
	}
	return p, nil
}

// ==================== 校验 ====================

var seedValidate = validator.New()

// validateRow 校验失败时返回可读的字段错误
func validateRow(v interface{}) error {
	err := seedValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" 不能为空")
		case "email":
			msgs = append(msgs, field+" 邮箱格式错误")
		case "url":
			msgs = append(msgs, field+" 不是有效的链接")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s 必须是 %s 之一", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s 不满足 %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ==================== Service ====================

// SeedService 批量导入种子数据
type SeedService struct {
	db           *gorm.DB
	categories   *CategoryService
	vendors      *VendorService
	products     *ProductService
	categoryRepo repository.CategoryRepository
	vendorRepo   repository.VendorRepository
	productRepo  repository.ProductRepository
}

func NewSeedService(
	db *gorm.DB,
	categories *CategoryService,
	vendors *VendorService,
	products *ProductService,
	categoryRepo repository.CategoryRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
) *SeedService {
	return &SeedService{
		db:           db,
		categories:   categories,
		vendors:      vendors,
		products:     products,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
		productRepo:  productRepo,
	}
}

// Seed 依次写入分类、供应商、商品，均以 slug 为键
func (s *SeedService) Seed(ctx context.Context, storeID int64, ds *Dataset, opts SeedOptions) (*SeedReport, error) {
	start := time.Now()
	report := &SeedReport{}

	if err := s.seedCategories(ctx, storeID, ds.Categories, report); err != nil {
		return report, err
	}
	if err := s.seedVendors(ctx, storeID, ds.Vendors, report); err != nil {
		return report, err
	}

	var err error
	if opts.Copy && s.db != nil && s.db.Dialector.Name() == "postgres" {
		err = s.copyProducts(ctx, storeID, ds.Products, report)
	} else {
		if opts.Copy {
			logger.Warn("[Seed] 当前数据库不支持 COPY，改为逐行写入")
		}
		err = s.seedProducts(ctx, storeID, ds.Products, report)
	}
	report.Duration = time.Since(start)

	logger.Info("[Seed] 导入完成",
		zap.Int64("store_id", storeID),
		zap.Int("categories", report.Categories.Created+report.Categories.Updated),
		zap.Int("vendors", report.Vendors.Created+report.Vendors.Updated),
		zap.Int("products", report.Products.Created+report.Products.Updated),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("duration", report.Duration),
	)
	return report, err
}

// seedCategories 父分类先于子分类写入，父分类缺失的行报错跳过
func (s *SeedService) seedCategories(ctx context.Context, storeID int64, rows []SeedCategory, report *SeedReport) error {
	pending := make([]SeedCategory, 0, len(rows))
	for _, c := range rows {
		if err := validateRow(c); err != nil {
			report.fail(&report.Categories, SheetCategories, c.Row, c.Name, err)
			continue
		}
		if c.Slug == "" {
			c.Slug = utils.Slugify(c.Name)
		} else {
			c.Slug = utils.Slugify(c.Slug)
		}
		c.ParentSlug = utils.Slugify(c.ParentSlug)
		pending = append(pending, c)
	}

	ids := map[string]int64{}
	parentID := func(slug string) (int64, bool, error) {
		if id, ok := ids[slug]; ok {
			return id, true, nil
		}
		for _, p := range pending {
			if p.Slug == slug {
				return 0, false, nil // 同批次，等待写入
			}
		}
		existing, err := s.categoryRepo.GetBySlug(ctx, storeID, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, fmt.Errorf("父分类不存在: %s", slug)
		}
		if err != nil {
			return 0, false, err
		}
		ids[slug] = existing.ID
		return existing.ID, true, nil
	}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		var next []SeedCategory
		progressed := false
		for _, c := range pending {
			req := &dto.CategoryRequest{
				Name:        c.Name,
				Slug:        c.Slug,
				Description: c.Description,
				ImageURL:    c.ImageURL,
				SortOrder:   c.SortOrder,
				IsActive:    c.IsActive,
			}
			if c.ParentSlug != "" {
				if c.ParentSlug == c.Slug {
					report.fail(&report.Categories, SheetCategories, c.Row, c.Slug, ErrCategoryCycle)
					progressed = true
					continue
				}
				id, ready, err := parentID(c.ParentSlug)
				if err != nil {
					report.fail(&report.Categories, SheetCategories, c.Row, c.Slug, err)
					progressed = true
					continue
				}
				if !ready {
					next = append(next, c)
					continue
				}
				req.ParentID = &id
			}

			cat, created, err := s.upsertCategory(ctx, storeID, req)
			progressed = true
			if err != nil {
				report.fail(&report.Categories, SheetCategories, c.Row, c.Slug, err)
				continue
			}
			ids[cat.Slug] = cat.ID
			if created {
				report.Categories.Created++
			} else {
				report.Categories.Updated++
			}
		}
		if !progressed {
			// 剩余行互相引用，无法确定顺序
			for _, c := range next {
				report.fail(&report.Categories, SheetCategories, c.Row, c.Slug, fmt.Errorf("父分类循环引用: %s", c.ParentSlug))
			}
			break
		}
		pending = next
	}
	return nil
}

func (s *SeedService) upsertCategory(ctx context.Context, storeID int64, req *dto.CategoryRequest) (*model.Category, bool, error) {
	existing, err := s.categoryRepo.GetBySlug(ctx, storeID, req.Slug)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c, err := s.categories.Create(ctx, storeID, req)
		return c, true, err
	case err != nil:
		return nil, false, err
	}
	c, err := s.categories.Update(ctx, storeID, existing.ID, req)
	return c, false, err
}

func (s *SeedService) seedVendors(ctx context.Context, storeID int64, rows []SeedVendor, report *SeedReport) error {
	for _, v := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := validateRow(v); err != nil {
			report.fail(&report.Vendors, SheetVendors, v.Row, v.Name, err)
			continue
		}
		slug := utils.Slugify(v.Slug)
		if slug == "" {
			slug = utils.Slugify(v.Name)
		}
		req := &dto.VendorRequest{
			Name:          v.Name,
			Slug:          slug,
			Email:         v.Email,
			Phone:         v.Phone,
			Description:   v.Description,
			LogoURL:       v.LogoURL,
			CommissionBps: v.CommissionBps,
		}

		existing, err := s.vendorRepo.GetBySlug(ctx, storeID, slug)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := s.vendors.Create(ctx, storeID, req)
			if err == nil {
				// 种子数据中的供应商直接启用
				err = s.vendors.Approve(ctx, storeID, created.ID)
			}
			if err != nil {
				report.fail(&report.Vendors, SheetVendors, v.Row, slug, err)
				continue
			}
			report.Vendors.Created++
		case err != nil:
			return err
		default:
			if _, err := s.vendors.Update(ctx, storeID, existing.ID, req); err != nil {
				report.fail(&report.Vendors, SheetVendors, v.Row, slug, err)
				continue
			}
			report.Vendors.Updated++
		}
	}
	return nil
}

// productRequest 校验行并解析分类、供应商 slug
func (s *SeedService) productRequest(ctx context.Context, storeID int64, p SeedProduct, refs *slugRefs) (*dto.ProductRequest, error) {
	if err := validateRow(p); err != nil {
		return nil, err
	}
	slug := utils.Slugify(p.Slug)
	if slug == "" {
		slug = utils.Slugify(p.Title)
	}
	req := &dto.ProductRequest{
		Title:          p.Title,
		Slug:           slug,
		Description:    p.Description,
		SKU:            p.SKU,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Currency:       p.Currency,
		Stock:          p.Stock,
		Status:         p.Status,
		IsFeatured:     p.IsFeatured,
		Source:         model.ProductSourceSeed,
		SourceID:       slug,
		Images:         []dto.ImageInput{},
	}
	for _, u := range p.Images {
		req.Images = append(req.Images, dto.ImageInput{URL: u, Alt: p.Title})
	}
	currency, err := refs.storeCurrency(ctx, storeID)
	if err != nil {
		return nil, err
	}
	switch {
	case req.Currency == "":
		req.Currency = currency
	case !sameCurrency(req.Currency, currency):
		return nil, apperr.Wrap(ErrCurrencyMismatch, fmt.Errorf("%s != %s", req.Currency, currency))
	default:
		req.Currency = currency
	}
	if p.CategorySlug != "" {
		id, err := refs.category(ctx, storeID, p.CategorySlug)
		if err != nil {
			return nil, err
		}
		req.CategoryID = &id
	}
	if p.VendorSlug != "" {
		id, err := refs.vendor(ctx, storeID, p.VendorSlug)
		if err != nil {
			return nil, err
		}
		req.VendorID = &id
	}
	return req, nil
}

func (s *SeedService) seedProducts(ctx context.Context, storeID int64, rows []SeedProduct, report *SeedReport) error {
	refs := s.newSlugRefs()
	for _, p := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, err := s.productRequest(ctx, storeID, p, refs)
		if err != nil {
			report.fail(&report.Products, SheetProducts, p.Row, p.Title, err)
			continue
		}
		_, created, err := s.products.UpsertBySource(ctx, storeID, req)
		if err != nil {
			report.fail(&report.Products, SheetProducts, p.Row, req.Slug, err)
			continue
		}
		if created {
			report.Products.Created++
		} else {
			report.Products.Updated++
		}
	}
	return nil
}

// slugRefs 分类 / 供应商 slug 到 ID 的缓存
type slugRefs struct {
	categoryRepo repository.CategoryRepository
	vendorRepo   repository.VendorRepository
	products     *ProductService
	categories   map[string]int64
	vendors      map[string]int64
	currency     string
}

func (s *SeedService) newSlugRefs() *slugRefs {
	return &slugRefs{
		categoryRepo: s.categoryRepo,
		vendorRepo:   s.vendorRepo,
		products:     s.products,
		categories:   map[string]int64{},
		vendors:      map[string]int64{},
	}
}

// storeCurrency 整批只查询一次店铺币种
func (r *slugRefs) storeCurrency(ctx context.Context, storeID int64) (string, error) {
	if r.currency == "" {
		c, err := r.products.StoreCurrency(ctx, storeID)
		if err != nil {
			return "", err
		}
		r.currency = c
	}
	return r.currency, nil
}

func (r *slugRefs) category(ctx context.Context, storeID int64, slug string) (int64, error) {
	slug = utils.Slugify(slug)
	if id, ok := r.categories[slug]; ok {
		return id, nil
	}
	c, err := r.categoryRepo.GetBySlug(ctx, storeID, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("分类不存在: %s", slug)
	}
	if err != nil {
		return 0, err
	}
	r.categories[slug] = c.ID
	return c.ID, nil
}

func (r *slugRefs) vendor(ctx context.Context, storeID int64, slug string) (int64, error) {
	slug = utils.Slugify(slug)
	if id, ok := r.vendors[slug]; ok {
		return id, nil
	}
	v, err := r.vendorRepo.GetBySlug(ctx, storeID, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("供应商不存在: %s", slug)
	}
	if err != nil {
		return 0, err
	}
	r.vendors[slug] = v.ID
	return v.ID, nil
}

// copyProducts PostgreSQL 快速路径，变体不在此路径写入
func (s *SeedService) copyProducts(ctx context.Context, storeID int64, rows []SeedProduct, report *SeedReport) error {
	refs := s.newSlugRefs()
	batch := make([]repository.CopyProductRow, 0, len(rows))
	seen := map[string]bool{}
	for _, p := range rows {
		req, err := s.productRequest(ctx, storeID, p, refs)
		if err != nil {
			report.fail(&report.Products, SheetProducts, p.Row, p.Title, err)
			continue
		}
		if seen[req.Slug] {
			report.fail(&report.Products, SheetProducts, p.Row, req.Slug, ErrSlugTaken)
			continue
		}
		seen[req.Slug] = true

		status := req.Status
		if status == "" {
			status = model.ProductStatusDraft
		}
		row := repository.CopyProductRow{
			Product: model.Product{
				StoreID:        storeID,
				CategoryID:     req.CategoryID,
				VendorID:       req.VendorID,
				Title:          req.Title,
				Slug:           req.Slug,
				Description:    req.Description,
				SKU:            req.SKU,
				Price:          req.Price,
				CompareAtPrice: req.CompareAtPrice,
				Currency:       req.Currency,
				Stock:          req.Stock,
				Status:         status,
				IsFeatured:     req.IsFeatured,
				Source:         model.ProductSourceSeed,
				SourceID:       req.Slug,
			},
		}
		for _, img := range req.Images {
			row.Images = append(row.Images, img.URL)
		}
		batch = append(batch, row)
	}
	if len(batch) == 0 {
		return nil
	}

	res, err := repository.CopyProducts(ctx, s.db, storeID, batch)
	if err != nil {
		return fmt.Errorf("COPY 写入商品失败: %w", err)
	}
	report.Products.Created += res.Inserted
	report.Products.Updated += res.Updated
	report.Products.Skipped += res.Skipped
	return nil
}

// ==================== 演示数据 ====================

var (
	demoCategories = []struct{ name, parent string }{
		{"Maison", ""}, {"Luminaires", "maison"}, {"Textile", "maison"},
		{"Mode", ""}, {"Bijoux", "mode"}, {"Sacs", "mode"},
		{"Beauté", ""},
	}
	demoVendors   = []string{"Atelier Dakar", "Maison Lumière", "Tissage & Co"}
	demoAdjective = []string{"Élégant", "Artisanal", "Vintage", "Moderne", "Naturel", "Tressé", "Doré", "Minimaliste"}
	demoNoun      = map[string][]string{
		"luminaires": {"Lampe", "Suspension", "Applique", "Bougeoir"},
		"textile":    {"Coussin", "Plaid", "Tapis", "Nappe"},
		"bijoux":     {"Collier", "Bracelet", "Boucles", "Bague"},
		"sacs":       {"Cabas", "Pochette", "Sac", "Panier"},
		"beaute":     {"Savon", "Huile", "Beurre de karité", "Parfum"},
	}
)

// DemoDataset 生成 n 个演示商品，相同 seed 结果一致
func DemoDataset(n int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &Dataset{}
	for i, c := range demoCategories {
		ds.Categories = append(ds.Categories, SeedCategory{
			Row: i + 1, Name: c.name, Slug: utils.Slugify(c.name), ParentSlug: c.parent, SortOrder: i,
		})
	}
	for i, v := range demoVendors {
		bps := int64(800 + 200*i)
		ds.Vendors = append(ds.Vendors, SeedVendor{
			Row: i + 1, Name: v, Slug: utils.Slugify(v),
			Email: utils.Slugify(v) + "@example.com", CommissionBps: &bps,
		})
	}

	leafs := []string{"luminaires", "textile", "bijoux", "sacs", "beaute"}
	for i := 0; i < n; i++ {
		cat := leafs[rng.Intn(len(leafs))]
		nouns := demoNoun[cat]
		title := fmt.Sprintf("%s %s %d", nouns[rng.Intn(len(nouns))], demoAdjective[rng.Intn(len(demoAdjective))], i+1)
		price := int64(500 + rng.Intn(200)*100)
		p := SeedProduct{
			Row:          i + 1,
			Title:        title,
			SKU:          fmt.Sprintf("DEMO-%05d", i+1),
			Description:  "Produit de démonstration.",
			Price:        price,
			Stock:        rng.Intn(50),
			Status:       model.ProductStatusActive,
			IsFeatured:   rng.Intn(10) == 0,
			CategorySlug: cat,
			VendorSlug:   utils.Slugify(demoVendors[rng.Intn(len(demoVendors))]),
			Images:       []string{fmt.Sprintf("https://picsum.photos/seed/demo-%d/800/800", i+1)},
		}
		if rng.Intn(3) == 0 {
			p.CompareAtPrice = price + price/5
		}
		ds.Products = append(ds.Products, p)
	}
	return ds
}

// ==================== 导出 ====================

var (
	categoryColumns = []string{"name", "slug", "parent_slug", "description", "image_url", "sort_order", "is_active"}
	vendorColumns   = []string{"name", "slug", "email", "phone", "description", "logo_url", "commission_bps"}
	productColumns  = []string{"title", "slug", "sku", "description", "price", "compare_at_price", "currency",
		"stock", "status", "is_featured", "category_slug", "vendor_slug", "images"}
)

// ExportCatalog 把店铺目录写成与导入格式一致的工作簿
func (s *SeedService) ExportCatalog(ctx context.Context, storeID int64, w io.Writer) error {
	categories, err := s.categoryRepo.ListByStore(ctx, storeID, false)
	if err != nil {
		return err
	}
	catSlugs := make(map[int64]string, len(categories))
	for _, c := range categories {
		catSlugs[c.ID] = c.Slug
	}

	var vendors []model.Vendor
	for page := 1; ; page++ {
		list, total, err := s.vendorRepo.List(ctx, repository.VendorFilter{StoreID: storeID, Page: page, PageSize: 100})
		if err != nil {
			return err
		}
		vendors = append(vendors, list...)
		if len(list) == 0 || int64(len(vendors)) >= total {
			break
		}
	}
	vendorSlugs := make(map[int64]string, len(vendors))
	for _, v := range vendors {
		vendorSlugs[v.ID] = v.Slug
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetCategories)
	for _, name := range []string{SheetVendors, SheetProducts} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	sw := newSheetWriter(f, headerStyle)
	sw.header(SheetCategories, categoryColumns)
	for _, c := range categories {
		parent := ""
		if c.ParentID != nil {
			parent = catSlugs[*c.ParentID]
		}
		sw.row(SheetCategories, c.Name, c.Slug, parent, c.Description, c.ImageURL, c.SortOrder, c.IsActive)
	}

	sw.header(SheetVendors, vendorColumns)
	for _, v := range vendors {
		sw.row(SheetVendors, v.Name, v.Slug, v.Email, v.Phone, v.Description, v.LogoURL, v.CommissionBps)
	}

	sw.header(SheetProducts, productColumns)
	exported := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		list, total, err := s.productRepo.List(ctx, repository.ProductFilter{
			StoreID: storeID, Sort: repository.SortTitle, Page: page, PageSize: 100, Preload: true,
		})
		if err != nil {
			return err
		}
		for _, p := range list {
			var images []string
			for _, img := range p.Images {
				images = append(images, img.URL)
			}
			cat, vendor := "", ""
			if p.CategoryID != nil {
				cat = catSlugs[*p.CategoryID]
			}
			if p.VendorID != nil {
				vendor = vendorSlugs[*p.VendorID]
			}
			sw.row(SheetProducts, p.Title, p.Slug, p.SKU, p.Description, p.Price, p.CompareAtPrice, p.Currency,
				p.Stock, p.Status, p.IsFeatured, cat, vendor, strings.Join(images, ";"))
		}
		exported += len(list)
		if len(list) == 0 || int64(exported) >= total {
			break
		}
	}
	if sw.err != nil {
		return sw.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("生成工作簿失败: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	logger.Info("[Seed] 目录导出完成",
		zap.Int64("store_id", storeID),
		zap.Int("categories", len(categories)),
		zap.Int("vendors", len(vendors)),
		zap.Int("products", exported))
	return err
}

// sheetWriter 逐行写入，记录第一个错误
type sheetWriter struct {
	f     *excelize.File
	style int
	next  map[string]int
	err   error
}

func newSheetWriter(f *excelize.File, style int) *sheetWriter {
	return &sheetWriter{f: f, style: style, next: map[string]int{}}
}

func (w *sheetWriter) header(sheet string, cols []string) {
	values := make([]interface{}, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	w.row(sheet, values...)
	if w.err != nil || w.style == 0 {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.style)
}

func (w *sheetWriter) row(sheet string, values ...interface{}) {
	if w.err != nil {
		return
	}
	w.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}
