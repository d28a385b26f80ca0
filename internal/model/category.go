package model

// Category 商品分类，支持多级
type Category struct {
	BaseModel
	AuditMixin
	StoreID     int64  `gorm:"uniqueIndex:idx_category_store_slug;not null" json:"store_id"`
	ParentID    *int64 `gorm:"index" json:"parent_id"`
	Name        string `gorm:"size:120;not null" json:"name"`
	Slug        string `gorm:"size:140;uniqueIndex:idx_category_store_slug;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryNode 树形结构输出
type CategoryNode struct {
	Category
	ProductCount int64           `json:"product_count"`
	Children     []*CategoryNode `json:"children"`
}
