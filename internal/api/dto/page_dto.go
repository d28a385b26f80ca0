package dto

import "time"

// PageRequest 内容页
type PageRequest struct {
	Title           string `json:"title" binding:"required,max=255"`
	Slug            string `json:"slug" binding:"max=140"`
	Body            string `json:"body"`
	MetaTitle       string `json:"meta_title" binding:"max=255"`
	MetaDescription string `json:"meta_description" binding:"max=512"`
	Publish         bool   `json:"publish"`
}

// BannerRequest 横幅
type BannerRequest struct {
	Title     string     `json:"title" binding:"max=255"`
	ImageURL  string     `json:"image_url" binding:"required,max=1024"`
	LinkURL   string     `json:"link_url" binding:"max=1024"`
	Position  string     `json:"position" binding:"max=32"`
	SortOrder int        `json:"sort_order"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	IsActive  *bool      `json:"is_active"`
}

// SubscribeRequest 订阅 / 退订
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// SubscriberListRequest 订阅者列表
type SubscriberListRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
