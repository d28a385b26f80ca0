package dto

import (
	"time"

	"laboutique_erp_202610/internal/model"
)

// ==================== 购物车 ====================

// AddCartItemRequest 加入购物车
type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateCartItemRequest 修改数量，0 表示移除
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=999"`
}

// CartLine 购物车行
type CartLine struct {
	ItemID      int64  `json:"item_id"`
	ProductID   int64  `json:"product_id"`
	VariantID   *int64 `json:"variant_id,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	VariantName string `json:"variant_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
	Available   bool   `json:"available"`
}

// CartView 购物车视图
type CartView struct {
	Token     string           `json:"token"`
	Currency  string           `json:"currency"`
	ExpiresAt time.Time        `json:"expires_at"`
	Items     []CartLine       `json:"items"`
	Totals    model.CartTotals `json:"totals"`
}

// ==================== 结账 ====================

// CheckoutRequest 结账
type CheckoutRequest struct {
	Email           string     `json:"email" binding:"required,email"`
	Name            string     `json:"name" binding:"required,max=120"`
	Phone           string     `json:"phone" binding:"max=32"`
	ShippingAddress AddressDTO `json:"shipping_address" binding:"required"`
	PaymentMethod   string     `json:"payment_method" binding:"required,oneof=stripe cod"`
	Notes           string     `json:"notes" binding:"max=2000"`
}

// CheckoutResponse 结账结果
type CheckoutResponse struct {
	OrderID      int64  `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	Total        int64  `json:"total"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	PaymentRef   string `json:"payment_ref,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}
