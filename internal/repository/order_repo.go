package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, storeID int64, number string) (*model.Order, error)
	GetByPaymentRef(ctx context.Context, ref string) (*model.Order, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatusIf(ctx context.Context, id int64, from string, fields map[string]interface{}) (bool, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context, storeID int64) (map[string]int64, error)
	Revenue(ctx context.Context, storeID int64, start, end time.Time) (int64, int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)

	WithTx(tx *gorm.DB) OrderRepository
	Transaction(ctx context.Context, fn func(txRepo OrderRepository, tx *gorm.DB) error) error
}

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件
type OrderFilter struct {
	StoreID       int64
	CustomerID    int64
	Status        string
	PaymentStatus string
	Keyword       string
	StartTime     time.Time
	EndTime       time.Time
	Page          int
	PageSize      int
}

// ==================== 仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

// Create 订单与明细一并写入
func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) GetByNumber(ctx context.Context, storeID int64, number string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND order_number = ?", storeID, number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByPaymentRef 支付回调按支付单号查找，不限定店铺
func (r *orderRepo) GetByPaymentRef(ctx context.Context, ref string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_ref = ?", ref).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateStatusIf 乐观并发：仅当当前状态仍为 from 时更新
func (r *orderRepo) UpdateStatusIf(ctx context.Context, id int64, from string, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("store_id = ?", filter.StoreID)

	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("(LOWER(order_number) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?)", like, like, like)
	}
	if !filter.StartTime.IsZero() {
		query = query.Where("created_at >= ?", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		query = query.Where("created_at <= ?", filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.ClampPage(filter.Page, filter.PageSize)
	err := query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) CountByStatus(ctx context.Context, storeID int64) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
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

// Revenue 已支付订单的销售额与单数（退款不计）
func (r *orderRepo) Revenue(ctx context.Context, storeID int64, start, end time.Time) (int64, int64, error) {
	var result struct {
		Revenue int64
		Orders  int64
	}
	query := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0) as revenue, COUNT(*) as orders").
		Where("store_id = ? AND payment_status = ?", storeID, model.PaymentStatusPaid)
	if !start.IsZero() {
		query = query.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		query = query.Where("created_at <= ?", end)
	}
	err := query.Scan(&result).Error
	return result.Revenue, result.Orders, err
}

func (r *orderRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Order{}).
		Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepo{db: tx}
}

// Transaction 同时把 tx 交给回调，便于其他仓储加入同一事务
func (r *orderRepo) Transaction(ctx context.Context, fn func(txRepo OrderRepository, tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx), tx)
	})
}
