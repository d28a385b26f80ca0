package model

import (
	"time"
)

// ==================== 订单状态 ====================

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// ==================== 支付状态 ====================

const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// ==================== 支付方式 ====================

const (
	PaymentMethodStripe = "stripe"
	PaymentMethodCOD    = "cod"
)

// orderTransitions 允许的状态流转
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

// CanTransitionOrder 校验订单状态流转
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidOrderStatus 是否为已知状态
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	// --- 内部管理字段 ---
	BaseModel
	AuditMixin
	StoreID     int64  `gorm:"index:idx_order_store_status;not null" json:"store_id"`
	OrderNumber string `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	CustomerID  *int64 `gorm:"index" json:"customer_id"`

	// --- 顾客信息 ---
	Email           string  `gorm:"size:255;index" json:"email"`
	Name            string  `gorm:"size:120" json:"name"`
	Phone           string  `gorm:"size:32" json:"phone"`
	ShippingAddress Address `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	// --- 状态 ---
	Status        string `gorm:"size:20;index:idx_order_store_status;default:pending" json:"status"`
	PaymentStatus string `gorm:"size:20;index;default:unpaid" json:"payment_status"`
	PaymentMethod string `gorm:"size:20" json:"payment_method"`
	PaymentRef    string `gorm:"size:128;index" json:"payment_ref"` // 例如 Stripe PaymentIntent ID

	// --- 金额（最小货币单位） ---
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shipping_fee"`
	Tax         int64  `json:"tax"`
	Discount    int64  `json:"discount"`
	Total       int64  `json:"total"`
	Currency    string `gorm:"size:3" json:"currency"`

	// --- 履约 ---
	TrackingNumber string `gorm:"size:100" json:"tracking_number"`
	Carrier        string `gorm:"size:64" json:"carrier"`
	Notes          string `gorm:"type:text" json:"notes"`

	// --- 时间节点 ---
	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细，下单时快照商品信息
type OrderItem struct {
	BaseModel
	OrderID   int64  `gorm:"index;not null" json:"order_id"`
	ProductID int64  `gorm:"index" json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	VendorID  *int64 `gorm:"index" json:"vendor_id"`
	Title     string `gorm:"size:255" json:"title"`
	SKU       string `gorm:"size:100" json:"sku"`
	Variant   string `gorm:"size:255" json:"variant"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStats 订单统计
type OrderStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	Revenue    int64            `json:"revenue"`
	PaidOrders int64            `json:"paid_orders"`
	AvgOrder   int64            `json:"avg_order"`
}
