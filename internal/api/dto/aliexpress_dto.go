package dto

import (
	"time"

	"laboutique_erp_202610/internal/model"
)

// AliExpressAuthResponse 授权跳转地址
type AliExpressAuthResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AliExpressStatus 店铺授权状态
type AliExpressStatus struct {
	Configured      bool       `json:"configured"`
	Connected       bool       `json:"connected"`
	Status          string     `json:"status"`
	Account         string     `json:"account"`
	SellerID        string     `json:"seller_id"`
	ExpiresAt       *time.Time `json:"expires_at"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
	LastError       string     `json:"last_error"`
}

// ImportRequest 导入单个 AliExpress 商品
type ImportRequest struct {
	URL        string `json:"url" binding:"required,max=1024"` // 商品链接或商品 ID
	CategoryID *int64 `json:"category_id"`
	VendorID   *int64 `json:"vendor_id"`
	MarkupBps  *int64 `json:"markup_bps" binding:"omitempty,min=0,max=100000"`
	Status     string `json:"status" binding:"omitempty,oneof=draft active"`
}

// ImportResult 导入结果
type ImportResult struct {
	Job     *model.ImportJob `json:"job"`
	Product *model.Product   `json:"product"`
	Created bool             `json:"created"`
}

// ImportJobListRequest 导入记录列表
type ImportJobListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending running success failed"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
