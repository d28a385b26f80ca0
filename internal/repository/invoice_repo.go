package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// InvoiceRepository 发票仓储接口
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Invoice, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Invoice, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.Invoice, int64, error)
	CountForYear(ctx context.Context, storeID int64, year int) (int64, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓储
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Omit("Order").Create(invoice).Error
}

func (r *invoiceRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByOrderID(ctx context.Context, orderID int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *invoiceRepo) List(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.Invoice, int64, error) {
	var list []model.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("store_id = ?", storeID)
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

// CountForYear 当年已开票数量（含作废），用于生成连续编号
func (r *invoiceRepo) CountForYear(ctx context.Context, storeID int64, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&model.Invoice{}).
		Where("store_id = ? AND invoice_number LIKE ?", storeID, fmt.Sprintf("INV-%04d-%%", year)).
		Count(&count).Error
	return count, err
}
