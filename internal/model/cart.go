package model

import "time"

// Cart 购物车，游客通过 Token 标识
type Cart struct {
	BaseModel
	StoreID    int64      `gorm:"index;not null" json:"store_id"`
	Token      string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	CustomerID *int64     `gorm:"index" json:"customer_id"`
	Currency   string     `gorm:"size:3;default:USD" json:"currency"`
	ExpiresAt  time.Time  `gorm:"index" json:"expires_at"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// Expired 是否已过期
func (c *Cart) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type CartItem struct {
	BaseModel
	CartID    int64  `gorm:"index;not null" json:"cart_id"`
	ProductID int64  `gorm:"index;not null" json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	UnitPrice int64  `json:"unit_price"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal 行小计
func (i *CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// SameLine 商品与规格均一致
func (i *CartItem) SameLine(productID int64, variantID *int64) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}

// CartTotals 购物车金额汇总
type CartTotals struct {
	ItemCount   int    `json:"item_count"`
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shipping_fee"`
	Tax         int64  `json:"tax"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}
