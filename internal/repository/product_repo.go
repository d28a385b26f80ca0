package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ErrInsufficientStock 条件扣减库存失败
var ErrInsufficientStock = errors.New("库存不足")

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Product, error)
	GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Product, error)
	GetBySource(ctx context.Context, storeID int64, source, sourceID string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, storeID, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, storeID, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error)

	// 库存
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementStock(ctx context.Context, productID int64, qty int) error
	DecrementVariantStock(ctx context.Context, variantID int64, qty int) error
	IncrementVariantStock(ctx context.Context, variantID int64, qty int) error
	GetVariant(ctx context.Context, productID, variantID int64) (*model.ProductVariant, error)

	// 变体 / 图片
	ReplaceVariants(ctx context.Context, productID int64, variants []model.ProductVariant) error
	ReplaceImages(ctx context.Context, productID int64, images []model.ProductImage) error

	// 统计
	CountByStatus(ctx context.Context, storeID int64) (map[string]int64, error)
	CountLowStock(ctx context.Context, storeID int64, threshold int) (int64, error)
	CountFeatured(ctx context.Context, storeID int64) (int64, error)

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
	Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error
}

// ==================== 过滤条件 ====================

// ProductFilter 商品过滤条件
type ProductFilter struct {
	StoreID     int64
	Status      string
	Keyword     string
	CategoryIDs []int64
	VendorID    int64
	MinPrice    int64
	MaxPrice    int64
	InStock     bool
	Featured    bool
	Source      string
	Sort        string // newest | price_asc | price_desc | title
	Page        int
	PageSize    int
	Preload     bool
}

// ==================== 排序 ====================

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
)

func sortClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC, id DESC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortTitle:
		return "title ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Vendor").
		Preload("Category")
}

func (r *productRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Product, error) {
	var product model.Product
	err := r.preloaded(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Product, error) {
	var product model.Product
	err := r.preloaded(ctx).
		Where("store_id = ? AND slug = ?", storeID, slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetBySource(ctx context.Context, storeID int64, source, sourceID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND source = ? AND source_id = ?", storeID, source, sourceID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Variants", "Images", "Vendor", "Category").Save(product).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, storeID, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, storeID, id int64) error {
	return r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&model.Product{}).Error
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{}).Where("store_id = ?", filter.StoreID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.VendorID > 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.ClampPage(filter.Page, filter.PageSize)
	if filter.Preload {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
	}
	err := query.
		Order(sortClause(filter.Sort)).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("store_id = ? AND slug = ?", storeID, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ==================== 库存 ====================

// DecrementStock 条件更新，stock >= qty 才会扣减
func (r *productRepo) DecrementStock(ctx context.Context, productID int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) IncrementStock(ctx context.Context, productID int64, qty int) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *productRepo) DecrementVariantStock(ctx context.Context, variantID int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) IncrementVariantStock(ctx context.Context, variantID int64, qty int) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *productRepo) GetVariant(ctx context.Context, productID, variantID int64) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, variantID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ==================== 变体 / 图片 ====================

// ReplaceVariants 整体替换变体（导入与种子数据使用）
func (r *productRepo) ReplaceVariants(ctx context.Context, productID int64, variants []model.ProductVariant) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ID = 0
		variants[i].ProductID = productID
	}
	return db.Create(&variants).Error
}

func (r *productRepo) ReplaceImages(ctx context.Context, productID int64, images []model.ProductImage) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = 0
		images[i].ProductID = productID
		if images[i].SortOrder == 0 {
			images[i].SortOrder = i
		}
	}
	return db.Create(&images).Error
}

// ==================== 统计 ====================

func (r *productRepo) CountByStatus(ctx context.Context, storeID int64) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("status, COUNT(*) as count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64)
	for _, r := range results {
		stats[r.Status] = r.Count
	}
	return stats, nil
}

func (r *productRepo) CountLowStock(ctx context.Context, storeID int64, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("store_id = ? AND status = ? AND stock <= ?", storeID, model.ProductStatusActive, threshold).
		Count(&count).Error
	return count, err
}

func (r *productRepo) CountFeatured(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("store_id = ? AND is_featured = ?", storeID, true).
		Count(&count).Error
	return count, err
}

// ==================== 事务 ====================

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
