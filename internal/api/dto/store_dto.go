package dto

import "encoding/json"

// CreateStoreRequest 创建店铺
type CreateStoreRequest struct {
	Name         string          `json:"name" binding:"required,max=120"`
	Slug         string          `json:"slug" binding:"omitempty,max=80"`
	Currency     string          `json:"currency" binding:"omitempty,len=3"`
	SupportEmail string          `json:"support_email" binding:"omitempty,email"`
	LogoURL      string          `json:"logo_url" binding:"omitempty,url"`
	Settings     json.RawMessage `json:"settings"`
}

// UpdateStoreRequest 更新店铺，nil 字段不修改
type UpdateStoreRequest struct {
	Name         *string         `json:"name" binding:"omitempty,max=120"`
	Currency     *string         `json:"currency" binding:"omitempty,len=3"`
	SupportEmail *string         `json:"support_email" binding:"omitempty,email"`
	LogoURL      *string         `json:"logo_url"`
	Settings     json.RawMessage `json:"settings"`
}

// StoreListRequest 店铺列表
type StoreListRequest struct {
	Keyword  string `form:"keyword"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
