package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺（租户）仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	GetBySlug(ctx context.Context, slug string) (*model.Store, error)
	Resolve(ctx context.Context, idOrSlug string) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error)
	ListActive(ctx context.Context) ([]model.Store, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// StoreFilter 店铺过滤条件
type StoreFilter struct {
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) GetBySlug(ctx context.Context, slug string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Resolve 请求头里可以是数字 ID 也可以是 slug
func (r *storeRepo) Resolve(ctx context.Context, idOrSlug string) (*model.Store, error) {
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil && id > 0 {
		return r.GetByID(ctx, id)
	}
	return r.GetBySlug(ctx, idOrSlug)
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *storeRepo) List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error) {
	var stores []model.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Store{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.ClampPage(filter.Page, filter.PageSize)
	err := query.
		Order("id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&stores).Error

	return stores, total, err
}

func (r *storeRepo) ListActive(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Order("id ASC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Store{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
