package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// PageRepository 内容页 / 横幅 / 订阅仓储接口
type PageRepository interface {
	// 内容页
	CreatePage(ctx context.Context, page *model.Page) error
	GetPage(ctx context.Context, storeID, id int64) (*model.Page, error)
	GetPageBySlug(ctx context.Context, storeID int64, slug string) (*model.Page, error)
	UpdatePage(ctx context.Context, page *model.Page) error
	DeletePage(ctx context.Context, storeID, id int64) error
	ListPages(ctx context.Context, storeID int64, status string) ([]model.Page, error)
	PageSlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error)

	// 横幅
	CreateBanner(ctx context.Context, banner *model.Banner) error
	GetBanner(ctx context.Context, storeID, id int64) (*model.Banner, error)
	UpdateBanner(ctx context.Context, banner *model.Banner) error
	DeleteBanner(ctx context.Context, storeID, id int64) error
	ListBanners(ctx context.Context, storeID int64, position string) ([]model.Banner, error)
	ListLiveBanners(ctx context.Context, storeID int64, position string, now time.Time) ([]model.Banner, error)

	// 订阅
	GetSubscriber(ctx context.Context, storeID int64, email string) (*model.NewsletterSubscriber, error)
	SaveSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error
	ListSubscribers(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.NewsletterSubscriber, int64, error)
}

// ==================== 仓储实现 ====================

type pageRepo struct {
	db *gorm.DB
}

// NewPageRepository 创建内容页仓储
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepo{db: db}
}

func (r *pageRepo) CreatePage(ctx context.Context, page *model.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepo) GetPage(ctx context.Context, storeID, id int64) (*model.Page, error) {
	var p model.Page
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pageRepo) GetPageBySlug(ctx context.Context, storeID int64, slug string) (*model.Page, error) {
	var p model.Page
	if err := r.db.WithContext(ctx).Where("store_id = ? AND slug = ?", storeID, slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pageRepo) UpdatePage(ctx context.Context, page *model.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *pageRepo) DeletePage(ctx context.Context, storeID, id int64) error {
	return r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&model.Page{}).Error
}

func (r *pageRepo) ListPages(ctx context.Context, storeID int64, status string) ([]model.Page, error) {
	var list []model.Page
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("title ASC").Find(&list).Error
	return list, err
}

func (r *pageRepo) PageSlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.Page{}).Where("store_id = ? AND slug = ?", storeID, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *pageRepo) CreateBanner(ctx context.Context, banner *model.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *pageRepo) GetBanner(ctx context.Context, storeID, id int64) (*model.Banner, error) {
	var b model.Banner
	if err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pageRepo) UpdateBanner(ctx context.Context, banner *model.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *pageRepo) DeleteBanner(ctx context.Context, storeID, id int64) error {
	return r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&model.Banner{}).Error
}

func (r *pageRepo) ListBanners(ctx context.Context, storeID int64, position string) ([]model.Banner, error) {
	var list []model.Banner
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if position != "" {
		query = query.Where("position = ?", position)
	}
	err := query.Order("sort_order ASC, id ASC").Find(&list).Error
	return list, err
}

// ListLiveBanners 处于投放窗口的横幅
func (r *pageRepo) ListLiveBanners(ctx context.Context, storeID int64, position string, now time.Time) ([]model.Banner, error) {
	var list []model.Banner
	query := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Where("(starts_at IS NULL OR starts_at <= ?)", now).
		Where("(ends_at IS NULL OR ends_at > ?)", now)
	if position != "" {
		query = query.Where("position = ?", position)
	}
	err := query.Order("sort_order ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *pageRepo) GetSubscriber(ctx context.Context, storeID int64, email string) (*model.NewsletterSubscriber, error) {
	var s model.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("store_id = ? AND email = ?", storeID, email).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pageRepo) SaveSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *pageRepo) ListSubscribers(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.NewsletterSubscriber, int64, error) {
	var list []model.NewsletterSubscriber
	var total int64
	query := r.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, pageSize = model.ClampPage(page, pageSize)
	err := query.Order("id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&list).Error
	return list, total, err
}
