package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// CartRepository 购物车仓储接口
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByToken(ctx context.Context, storeID int64, token string) (*model.Cart, error)
	Touch(ctx context.Context, cartID int64, expiresAt time.Time) error
	AttachCustomer(ctx context.Context, cartID, customerID int64) error
	Delete(ctx context.Context, cartID int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// 购物车行
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, qty int, unitPrice int64) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	ClearItems(ctx context.Context, cartID int64) error

	WithTx(tx *gorm.DB) CartRepository
}

// ==================== 仓储实现 ====================

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepo) GetByToken(ctx context.Context, storeID int64, token string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Variant").
		Where("store_id = ? AND token = ?", storeID, token).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) Touch(ctx context.Context, cartID int64, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("expires_at", expiresAt).Error
}

func (r *cartRepo) AttachCustomer(ctx context.Context, cartID, customerID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("customer_id", customerID).Error
}

// Delete 物理删除购物车及其明细
func (r *cartRepo) Delete(ctx context.Context, cartID int64) error {
	db := r.db.WithContext(ctx).Unscoped()
	if err := db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Cart{}, cartID).Error
}

// DeleteExpired 清理过期购物车，返回删除数量
func (r *cartRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&model.Cart{}).Select("id").Where("expires_at < ?", before)
		if err := tx.Unscoped().Where("cart_id IN (?)", expired).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("expires_at < ?", before).Delete(&model.Cart{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *cartRepo) AddItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, qty int, unitPrice int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Updates(map[string]interface{}{"quantity": qty, "unit_price": unitPrice})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepo) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepo) ClearItems(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepo) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepo{db: tx}
}
