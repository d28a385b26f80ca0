package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/cache"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

const (
	// LowStockThreshold 低库存阈值
	LowStockThreshold = 5
	productCacheTTL   = 5 * time.Minute
)

// ProductService 商品管理与前台目录
type ProductService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	categories  *CategoryService
	vendors     *VendorService
	cache       cache.Store
	lowStock    int
}

func NewProductService(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	categories *CategoryService,
	vendors *VendorService,
	store cache.Store,
) *ProductService {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		categories:  categories,
		vendors:     vendors,
		cache:       store,
		lowStock:    LowStockThreshold,
	}
}

// SetLowStockThreshold 覆盖低库存阈值
func (s *ProductService) SetLowStockThreshold(n int) {
	if n > 0 {
		s.lowStock = n
	}
}

// StoreCurrency 店铺唯一计价币种，商品价格必须使用该币种
func (s *ProductService) StoreCurrency(ctx context.Context, storeID int64) (string, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrStoreNotFound
	}
	if err != nil {
		return "", err
	}
	if store.Currency == "" {
		return "USD", nil
	}
	return strings.ToUpper(store.Currency), nil
}

// ==================== 后台管理 ====================

func (s *ProductService) Create(ctx context.Context, storeID int64, req *dto.ProductRequest) (*model.Product, error) {
	p := &model.Product{StoreID: storeID, Source: model.ProductSourceManual}
	if err := s.apply(ctx, storeID, p, req); err != nil {
		return nil, err
	}

	err := s.productRepo.Transaction(ctx, func(txRepo repository.ProductRepository) error {
		slug, err := uniqueProductSlug(ctx, txRepo, storeID, req.Slug, req.Title, 0)
		if err != nil {
			return err
		}
		p.Slug = slug
		if err := txRepo.Create(ctx, p); err != nil {
			return err
		}
		return replaceChildren(ctx, txRepo, p.ID, req)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("[Catalog] 商品已创建", zap.Int64("store_id", storeID), zap.Int64("product_id", p.ID))
	return s.Get(ctx, storeID, p.ID)
}

func (s *ProductService) Update(ctx context.Context, storeID, id int64, req *dto.ProductRequest) (*model.Product, error) {
	p, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	oldSlug := p.Slug
	if err := s.apply(ctx, storeID, p, req); err != nil {
		return nil, err
	}

	err = s.productRepo.Transaction(ctx, func(txRepo repository.ProductRepository) error {
		if req.Slug != "" && utils.Slugify(req.Slug) != p.Slug {
			slug := utils.Slugify(req.Slug)
			taken, err := txRepo.SlugExists(ctx, storeID, slug, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrSlugTaken
			}
			p.Slug = slug
		}
		if err := txRepo.Update(ctx, p); err != nil {
			return err
		}
		return replaceChildren(ctx, txRepo, p.ID, req)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, storeID, oldSlug, p.Slug)
	return s.Get(ctx, storeID, id)
}

// Delete 软删除，历史订单仍保留快照
func (s *ProductService) Delete(ctx context.Context, storeID, id int64) error {
	p, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	s.invalidate(ctx, storeID, p.Slug)
	return nil
}

func (s *ProductService) Get(ctx context.Context, storeID, id int64) (*model.Product, error) {
	p, err := s.productRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) List(ctx context.Context, storeID int64, req *dto.ProductListRequest) (*dto.PageResult[model.Product], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	filter := repository.ProductFilter{
		StoreID:  storeID,
		Status:   req.Status,
		Keyword:  req.Keyword,
		VendorID: req.VendorID,
		Source:   req.Source,
		Sort:     req.Sort,
		Page:     page,
		PageSize: pageSize,
		Preload:  true,
	}
	if req.CategoryID > 0 {
		filter.CategoryIDs = []int64{req.CategoryID}
	}
	list, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

func (s *ProductService) SetStatus(ctx context.Context, storeID, id int64, status string) error {
	if !validProductStatus(status) {
		return ErrInvalidStatus
	}
	p, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.UpdateFields(ctx, storeID, id, map[string]interface{}{"status": status}); err != nil {
		return err
	}
	s.invalidate(ctx, storeID, p.Slug)
	return nil
}

// AdjustStock 增减库存，扣减不能使库存为负
func (s *ProductService) AdjustStock(ctx context.Context, storeID, id int64, delta int, variantID *int64) error {
	if delta == 0 {
		return ErrInvalidQuantity
	}
	p, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}

	if variantID != nil {
		if _, err := s.productRepo.GetVariant(ctx, id, *variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}
		if delta > 0 {
			err = s.productRepo.IncrementVariantStock(ctx, *variantID, delta)
		} else {
			err = s.productRepo.DecrementVariantStock(ctx, *variantID, -delta)
		}
	} else if delta > 0 {
		err = s.productRepo.IncrementStock(ctx, id, delta)
	} else {
		err = s.productRepo.DecrementStock(ctx, id, -delta)
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return ErrInsufficientStock
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, storeID, p.Slug)
	return nil
}

// Stats 商品概览
func (s *ProductService) Stats(ctx context.Context, storeID int64) (*model.ProductStats, error) {
	counts, err := s.productRepo.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stats := &model.ProductStats{
		Active:   counts[model.ProductStatusActive],
		Draft:    counts[model.ProductStatusDraft],
		Archived: counts[model.ProductStatusArchived],
	}
	for _, c := range counts {
		stats.Total += c
	}
	if stats.LowStock, err = s.productRepo.CountLowStock(ctx, storeID, s.lowStock); err != nil {
		return nil, err
	}
	if stats.Featured, err = s.productRepo.CountFeatured(ctx, storeID); err != nil {
		return nil, err
	}
	return stats, nil
}

// ==================== 批量写入 ====================

// BatchUpsert 以 (store, source, source_id) 为键批量写入，单行失败不影响其余行
func (s *ProductService) BatchUpsert(ctx context.Context, storeID int64, source string, items []dto.ProductRequest) (*dto.BatchUpsertResult, error) {
	result := &dto.BatchUpsertResult{}
	for i := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item := &items[i]
		if item.Source == "" {
			item.Source = source
		}
		_, created, err := s.UpsertBySource(ctx, storeID, item)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.BatchError{Index: i, Key: item.SourceID, Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	logger.Info("[Catalog] 批量写入完成",
		zap.Int64("store_id", storeID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// UpsertBySource 存在则更新，否则创建，返回是否新建
func (s *ProductService) UpsertBySource(ctx context.Context, storeID int64, req *dto.ProductRequest) (*model.Product, bool, error) {
	if req.Source == "" || req.SourceID == "" {
		return nil, false, fmt.Errorf("source 和 source_id 不能为空")
	}

	p := &model.Product{StoreID: storeID}
	if err := s.apply(ctx, storeID, p, req); err != nil {
		return nil, false, err
	}

	created := false
	var oldSlug string
	err := s.productRepo.Transaction(ctx, func(txRepo repository.ProductRepository) error {
		existing, err := txRepo.GetBySource(ctx, storeID, req.Source, req.SourceID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			slug, err := uniqueProductSlug(ctx, txRepo, storeID, req.Slug, req.Title, 0)
			if err != nil {
				return err
			}
			p.Slug = slug
			if err := txRepo.Create(ctx, p); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			oldSlug = existing.Slug
			p.BaseModel = existing.BaseModel
			p.AuditMixin = existing.AuditMixin
			p.Slug = existing.Slug
			if err := txRepo.Update(ctx, p); err != nil {
				return err
			}
		}
		return replaceChildren(ctx, txRepo, p.ID, req)
	})
	if err != nil {
		return nil, false, err
	}
	if oldSlug != "" {
		s.invalidate(ctx, storeID, oldSlug)
	}
	return p, created, nil
}

// ==================== 前台目录 ====================

// ListPublished 只返回在售商品，分类筛选包含子孙分类
func (s *ProductService) ListPublished(ctx context.Context, storeID int64, q *dto.CatalogQuery) (*dto.PageResult[model.Product], error) {
	page, pageSize := model.ClampPage(q.Page, q.PageSize)
	filter := repository.ProductFilter{
		StoreID:  storeID,
		Status:   model.ProductStatusActive,
		Keyword:  q.Keyword,
		VendorID: q.VendorID,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		InStock:  q.InStock,
		Featured: q.Featured,
		Sort:     q.Sort,
		Page:     page,
		PageSize: pageSize,
		Preload:  true,
	}
	if ref := strings.TrimSpace(q.Category); ref != "" {
		ids, err := s.categoryScope(ctx, storeID, ref)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	list, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// GetBySlug 前台商品详情，带缓存
func (s *ProductService) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Product, error) {
	key := productCacheKey(storeID, slug)
	var cached model.Product
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return &cached, nil
	}

	p, err := s.productRepo.GetBySlug(ctx, storeID, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.IsPurchasable() {
		return nil, ErrProductNotFound
	}
	if err := cache.SetJSON(ctx, s.cache, key, p, productCacheTTL); err != nil {
		logger.Warn("[Catalog] 写入商品缓存失败", zap.String("key", key), zap.Error(err))
	}
	return p, nil
}

// Featured 首页推荐
func (s *ProductService) Featured(ctx context.Context, storeID int64, limit int) ([]model.Product, error) {
	_, limit = model.ClampPage(1, limit)
	list, _, err := s.productRepo.List(ctx, repository.ProductFilter{
		StoreID:  storeID,
		Status:   model.ProductStatusActive,
		Featured: true,
		Page:     1,
		PageSize: limit,
		Preload:  true,
	})
	return list, err
}

// ==================== 内部方法 ====================

// apply 把请求写入 model，校验分类 / 供应商归属
func (s *ProductService) apply(ctx context.Context, storeID int64, p *model.Product, req *dto.ProductRequest) error {
	if req.CategoryID != nil && *req.CategoryID > 0 {
		if _, err := s.categories.Get(ctx, storeID, *req.CategoryID); err != nil {
			return err
		}
		p.CategoryID = req.CategoryID
	} else {
		p.CategoryID = nil
	}
	if req.VendorID != nil && *req.VendorID > 0 {
		if _, err := s.vendors.Get(ctx, storeID, *req.VendorID); err != nil {
			return err
		}
		p.VendorID = req.VendorID
	} else {
		p.VendorID = nil
	}

	status := req.Status
	if status == "" {
		status = p.Status
	}
	if status == "" {
		status = model.ProductStatusDraft
	}
	if !validProductStatus(status) {
		return ErrInvalidStatus
	}

	storeCurrency, err := s.StoreCurrency(ctx, storeID)
	if err != nil {
		return err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = storeCurrency
	}
	if currency != storeCurrency {
		return apperr.Wrap(ErrCurrencyMismatch, fmt.Errorf("%s != %s", currency, storeCurrency))
	}

	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.SKU = req.SKU
	p.Price = req.Price
	p.CompareAtPrice = req.CompareAtPrice
	p.Currency = currency
	p.Stock = req.Stock
	p.Status = status
	p.IsFeatured = req.IsFeatured
	if len(req.Attributes) > 0 {
		p.Attributes = datatypes.JSON(req.Attributes)
	}
	if req.Source != "" {
		p.Source = req.Source
		p.SourceID = req.SourceID
		p.SourceURL = req.SourceURL
	}
	if p.Source == "" {
		p.Source = model.ProductSourceManual
	}
	return nil
}

// categoryScope 分类参数可为 ID 或 slug
func (s *ProductService) categoryScope(ctx context.Context, storeID int64, ref string) ([]int64, error) {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		c, err := s.categories.GetBySlug(ctx, storeID, ref)
		if err != nil {
			return nil, err
		}
		id = c.ID
	}
	return s.categories.Descendants(ctx, storeID, id)
}

func (s *ProductService) invalidate(ctx context.Context, storeID int64, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, productCacheKey(storeID, slug))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("[Catalog] 清理商品缓存失败", zap.Strings("keys", keys), zap.Error(err))
	}
}

func productCacheKey(storeID int64, slug string) string {
	return fmt.Sprintf("product:%d:%s", storeID, slug)
}

func validProductStatus(status string) bool {
	switch status {
	case model.ProductStatusDraft, model.ProductStatusActive, model.ProductStatusArchived:
		return true
	}
	return false
}

func uniqueProductSlug(ctx context.Context, repo repository.ProductRepository, storeID int64, slug, title string, excludeID int64) (string, error) {
	base := utils.Slugify(slug)
	if base == "" {
		base = utils.Slugify(title)
	}
	return utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return repo.SlugExists(ctx, storeID, candidate, excludeID)
	})
}

// replaceChildren 请求中带了变体 / 图片才整体替换
func replaceChildren(ctx context.Context, repo repository.ProductRepository, productID int64, req *dto.ProductRequest) error {
	if req.Variants != nil {
		variants := make([]model.ProductVariant, 0, len(req.Variants))
		for _, v := range req.Variants {
			options, err := json.Marshal(v.Options)
			if err != nil {
				return err
			}
			variants = append(variants, model.ProductVariant{
				SKU:         v.SKU,
				Name:        v.Name,
				Options:     datatypes.JSON(options),
				Price:       v.Price,
				Stock:       v.Stock,
				SourceSKUID: v.SourceSKUID,
				ImageURL:    v.ImageURL,
			})
		}
		if err := repo.ReplaceVariants(ctx, productID, variants); err != nil {
			return err
		}
	}
	if req.Images != nil {
		images := make([]model.ProductImage, 0, len(req.Images))
		for i, img := range req.Images {
			images = append(images, model.ProductImage{URL: img.URL, Alt: img.Alt, SortOrder: i})
		}
		if err := repo.ReplaceImages(ctx, productID, images); err != nil {
			return err
		}
	}
	return nil
}
