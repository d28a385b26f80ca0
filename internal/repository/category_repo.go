package repository

import (
	"context"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, storeID, id int64) error
	ListByStore(ctx context.Context, storeID int64, activeOnly bool) ([]model.Category, error)
	SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
	ProductCounts(ctx context.Context, storeID int64) (map[int64]int64, error)

	WithTx(tx *gorm.DB) CategoryRepository
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, slug).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, storeID, id int64) error {
	return r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&model.Category{}).Error
}

func (r *categoryRepo) ListByStore(ctx context.Context, storeID int64, activeOnly bool) ([]model.Category, error) {
	var list []model.Category
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order ASC, name ASC").Find(&list).Error
	return list, err
}

// SlugExists 软删除的记录仍占用唯一索引，因此用 Unscoped
func (r *categoryRepo) SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.Category{}).
		Where("store_id = ? AND slug = ?", storeID, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *categoryRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *categoryRepo) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// ProductCounts 每个分类下的在售商品数
func (r *categoryRepo) ProductCounts(ctx context.Context, storeID int64) (map[int64]int64, error) {
	type result struct {
		CategoryID int64
		Count      int64
	}
	var results []result
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, COUNT(*) as count").
		Where("store_id = ? AND status = ? AND category_id IS NOT NULL", storeID, model.ProductStatusActive).
		Group("category_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(results))
	for _, r := range results {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepo{db: tx}
}
