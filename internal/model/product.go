package model

import (
	"gorm.io/datatypes"
)

// ==================== 商品状态 ====================

const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// ==================== 商品来源 ====================

const (
	ProductSourceManual     = "manual"
	ProductSourceSeed       = "seed"
	ProductSourceAliExpress = "aliexpress"
)

type Product struct {
	// --- 内部管理字段 ---
	BaseModel
	AuditMixin
	StoreID    int64  `gorm:"uniqueIndex:idx_product_store_slug;index:idx_product_store_status;not null" json:"store_id"`
	VendorID   *int64 `gorm:"index" json:"vendor_id"`
	CategoryID *int64 `gorm:"index" json:"category_id"`

	// --- 基本信息 ---
	Title       string `gorm:"size:255;not null" json:"title"`
	Slug        string `gorm:"size:280;uniqueIndex:idx_product_store_slug;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	SKU         string `gorm:"size:100;index" json:"sku"`

	// --- 价格与库存（最小货币单位） ---
	Price          int64  `gorm:"default:0" json:"price"`
	CompareAtPrice int64  `gorm:"default:0" json:"compare_at_price"`
	Currency       string `gorm:"size:3;default:USD" json:"currency"`
	Stock          int    `gorm:"default:0" json:"stock"`

	// --- 状态 ---
	Status     string `gorm:"size:20;index:idx_product_store_status;default:draft" json:"status"`
	IsFeatured bool   `gorm:"default:false;index" json:"is_featured"`

	// --- 来源追踪（导入 / 种子数据） ---
	Source    string `gorm:"size:20;default:manual;index:idx_product_source" json:"source"`
	SourceID  string `gorm:"size:64;index:idx_product_source" json:"source_id"`
	SourceURL string `gorm:"size:512" json:"source_url"`

	// --- 扩展属性 ---
	Attributes datatypes.JSON `json:"attributes"`

	// --- 关联关系 ---
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Vendor   *Vendor          `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// IsPurchasable 前台可售
func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive && !p.DeletedAt.Valid
}

// PrimaryImage 主图
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	best := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best.URL
}

type ProductVariant struct {
	BaseModel
	ProductID   int64          `gorm:"index;not null" json:"product_id"`
	SKU         string         `gorm:"size:100;index" json:"sku"`
	Name        string         `gorm:"size:255" json:"name"`   // 例如 "White / L"
	Options     datatypes.JSON `json:"options"`                // {"Color":"White","Size":"L"}
	Price       int64          `gorm:"default:0" json:"price"` // 0 表示沿用商品价格
	Stock       int            `gorm:"default:0" json:"stock"`
	SourceSKUID string         `gorm:"size:64" json:"source_sku_id"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type ProductImage struct {
	BaseModel
	ProductID int64  `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	Alt       string `gorm:"size:255" json:"alt"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// ProductStats 商品统计
type ProductStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Draft    int64 `json:"draft"`
	Archived int64 `json:"archived"`
	LowStock int64 `json:"low_stock"`
	Featured int64 `json:"featured"`
}
