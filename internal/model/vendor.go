package model

// ==================== 供应商状态 ====================

const (
	VendorStatusPending   = "pending"
	VendorStatusActive    = "active"
	VendorStatusSuspended = "suspended"
)

// Vendor 供应商 / 入驻商家
type Vendor struct {
	BaseModel
	AuditMixin
	StoreID       int64  `gorm:"uniqueIndex:idx_vendor_store_slug;not null" json:"store_id"`
	Name          string `gorm:"size:120;not null" json:"name"`
	Slug          string `gorm:"size:140;uniqueIndex:idx_vendor_store_slug;not null" json:"slug"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:32" json:"phone"`
	Description   string `gorm:"type:text" json:"description"`
	LogoURL       string `gorm:"size:512" json:"logo_url"`
	Status        string `gorm:"size:20;index;default:pending" json:"status"`
	CommissionBps int64  `gorm:"default:1000" json:"commission_bps"` // 平台抽成，万分比
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorStats 供应商经营统计
type VendorStats struct {
	VendorID       int64 `json:"vendor_id"`
	ProductCount   int64 `json:"product_count"`
	ActiveProducts int64 `json:"active_products"`
	OrderItemCount int64 `json:"order_item_count"`
	GrossSales     int64 `json:"gross_sales"`
	Commission     int64 `json:"commission"`
}
