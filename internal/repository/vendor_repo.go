package repository

import (
	"context"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// VendorRepository 供应商仓储接口
type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Vendor, error)
	GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Vendor, error)
	Update(ctx context.Context, vendor *model.Vendor) error
	UpdateStatus(ctx context.Context, storeID, id int64, status string) error
	Delete(ctx context.Context, storeID, id int64) error
	List(ctx context.Context, filter VendorFilter) ([]model.Vendor, int64, error)
	SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context, id int64) (*model.VendorStats, error)
}

// VendorFilter 供应商过滤条件
type VendorFilter struct {
	StoreID  int64
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type vendorRepo struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓储
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepo{db: db}
}

func (r *vendorRepo) Create(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("store_id = ? AND slug = ?", storeID, slug).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) Update(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *vendorRepo) UpdateStatus(ctx context.Context, storeID, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Update("status", status).Error
}

func (r *vendorRepo) Delete(ctx context.Context, storeID, id int64) error {
	return r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&model.Vendor{}).Error
}

func (r *vendorRepo) List(ctx context.Context, filter VendorFilter) ([]model.Vendor, int64, error) {
	var vendors []model.Vendor
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Vendor{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.ClampPage(filter.Page, filter.PageSize)
	err := query.
		Order("name ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&vendors).Error
	return vendors, total, err
}

func (r *vendorRepo) SlugExists(ctx context.Context, storeID int64, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.Vendor{}).
		Where("store_id = ? AND slug = ?", storeID, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *vendorRepo) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("vendor_id = ?", id).Count(&count).Error
	return count, err
}

// Stats 商品数、销量与销售额；已取消和已退款的订单不计入
func (r *vendorRepo) Stats(ctx context.Context, id int64) (*model.VendorStats, error) {
	stats := &model.VendorStats{VendorID: id}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Where("vendor_id = ?", id).Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("vendor_id = ? AND status = ?", id, model.ProductStatusActive).
		Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}

	var sales struct {
		Items int64
		Gross int64
	}
	err := db.Model(&model.OrderItem{}).
		Select("COALESCE(SUM(order_items.quantity), 0) as items, COALESCE(SUM(order_items.line_total), 0) as gross").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ? AND orders.status NOT IN ?", id,
			[]string{model.OrderStatusCancelled, model.OrderStatusRefunded}).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	stats.OrderItemCount = sales.Items
	stats.GrossSales = sales.Gross
	return stats, nil
}
