package dto

// ==================== 订单 ====================

// OrderListRequest 订单列表，日期格式 2006-01-02
type OrderListRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Keyword       string `form:"keyword"` // 订单号 / 邮箱 / 姓名
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
}

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ShipOrderRequest 发货
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
	Carrier        string `json:"carrier" binding:"max=64"`
}

// CancelOrderRequest 取消订单
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderStatsRequest 统计区间，默认最近 30 天
type OrderStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ==================== 发票 ====================

// InvoiceListRequest 发票列表
type InvoiceListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=issued paid void"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
