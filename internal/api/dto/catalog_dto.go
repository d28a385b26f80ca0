package dto

import "encoding/json"

// ==================== 分类 ====================

// CategoryRequest 创建/更新分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Slug        string `json:"slug" binding:"omitempty,max=140"`
	ParentID    *int64 `json:"parent_id"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=512"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// ==================== 供应商 ====================

// VendorRequest 创建/更新供应商
type VendorRequest struct {
	Name          string `json:"name" binding:"required,max=120"`
	Slug          string `json:"slug" binding:"omitempty,max=140"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" binding:"max=32"`
	Description   string `json:"description"`
	LogoURL       string `json:"logo_url" binding:"omitempty,max=512"`
	CommissionBps *int64 `json:"commission_bps" binding:"omitempty,min=0,max=10000"`
}

// VendorListRequest 供应商列表
type VendorListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending active suspended"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ==================== 商品 ====================

// VariantInput 商品规格
type VariantInput struct {
	SKU         string            `json:"sku" binding:"max=100"`
	Name        string            `json:"name" binding:"required,max=255"`
	Options     map[string]string `json:"options"`
	Price       int64             `json:"price" binding:"min=0"`
	Stock       int               `json:"stock" binding:"min=0"`
	SourceSKUID string            `json:"source_sku_id"`
	ImageURL    string            `json:"image_url"`
}

// ImageInput 商品图片
type ImageInput struct {
	URL string `json:"url" binding:"required,max=1024"`
	Alt string `json:"alt" binding:"max=255"`
}

// ProductRequest 创建/更新商品，金额为最小货币单位
type ProductRequest struct {
	Title          string          `json:"title" binding:"required,max=255"`
	Slug           string          `json:"slug" binding:"omitempty,max=200"`
	Description    string          `json:"description"`
	SKU            string          `json:"sku" binding:"max=100"`
	Price          int64           `json:"price" binding:"min=0"`
	CompareAtPrice int64           `json:"compare_at_price" binding:"min=0"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	Stock          int             `json:"stock" binding:"min=0"`
	Status         string          `json:"status" binding:"omitempty,oneof=draft active archived"`
	IsFeatured     bool            `json:"is_featured"`
	CategoryID     *int64          `json:"category_id"`
	VendorID       *int64          `json:"vendor_id"`
	Attributes     json.RawMessage `json:"attributes"`
	Variants       []VariantInput  `json:"variants" binding:"dive"`
	Images         []ImageInput    `json:"images" binding:"dive"`

	// 批量导入时使用
	Source    string `json:"source"`
	SourceID  string `json:"source_id"`
	SourceURL string `json:"source_url"`
}

// ProductListRequest 后台商品列表
type ProductListRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=draft active archived"`
	Keyword    string `form:"keyword"`
	CategoryID int64  `form:"category_id"`
	VendorID   int64  `form:"vendor_id"`
	Source     string `form:"source"`
	Sort       string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc title"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// CatalogQuery 前台商品查询
type CatalogQuery struct {
	Keyword  string `form:"q"`
	Category string `form:"category"` // 分类 slug 或 ID
	VendorID int64  `form:"vendor_id"`
	MinPrice int64  `form:"min_price"`
	MaxPrice int64  `form:"max_price"`
	InStock  bool   `form:"in_stock"`
	Featured bool   `form:"featured"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc title"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// SetStatusRequest 修改状态
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdjustStockRequest 调整库存，delta 可为负
type AdjustStockRequest struct {
	Delta     int    `json:"delta" binding:"required"`
	VariantID *int64 `json:"variant_id"`
}

// BatchUpsertResult 批量写入结果
type BatchUpsertResult struct {
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors,omitempty"`
}

// BatchError 单行错误
type BatchError struct {
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// BatchUpsertRequest 批量写入，单次最多 500 条
type BatchUpsertRequest struct {
	Source string           `json:"source" binding:"required,max=32"`
	Items  []ProductRequest `json:"items" binding:"required,min=1,max=500,dive"`
}
