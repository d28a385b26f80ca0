package dto

import (
	"time"

	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
)

// ==================== 客服会话 ====================

// ChatRequest 顾客发送消息，session_token 为空时新建会话
type ChatRequest struct {
	SessionToken string `json:"session_token" binding:"max=64"`
	Message      string `json:"message" binding:"required,max=4000"`
	Email        string `json:"email" binding:"omitempty,email,max=255"`
	Name         string `json:"name" binding:"max=120"`
}

// ChatResponse 助手回复
type ChatResponse struct {
	SessionToken   string `json:"session_token"`
	ConversationID int64  `json:"conversation_id"`
	Reply          string `json:"reply"`
	Status         string `json:"status"`
	Escalated      bool   `json:"escalated"`
	TicketNumber   string `json:"ticket_number,omitempty"`
}

// ChatHistory 会话历史
type ChatHistory struct {
	SessionToken string                 `json:"session_token"`
	Status       string                 `json:"status"`
	TicketID     *int64                 `json:"ticket_id,omitempty"`
	Messages     []model.SupportMessage `json:"messages"`
}

// ConversationListRequest 后台会话列表
type ConversationListRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// AIUsageRequest AI 用量统计区间
type AIUsageRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// AIUsageResponse AI 用量统计
type AIUsageResponse struct {
	From    time.Time                    `json:"from"`
	To      time.Time                    `json:"to"`
	Summary *repository.AIUsageStats     `json:"summary"`
	Daily   []repository.DailyUsageStats `json:"daily"`
}

// ==================== 工单 ====================

// TicketRequest 后台手动创建工单
type TicketRequest struct {
	Subject     string `json:"subject" binding:"required,max=255"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL URGENT"`
	Type        string `json:"type" binding:"omitempty,oneof=SUPPORT COMPLAINT QUESTION RETURN_REQUEST ORDER_ISSUE"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Name        string `json:"name" binding:"max=120"`
	OrderID     *int64 `json:"order_id"`
}

// TicketListRequest 工单列表
type TicketListRequest struct {
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	Type       string `form:"type"`
	AssigneeID int64  `form:"assignee_id"`
	Keyword    string `form:"keyword"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// TicketStatusRequest 变更工单状态，note 记为系统备注
type TicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=2000"`
}

// AssignTicketRequest assignee_id 为空表示取消指派
type AssignTicketRequest struct {
	AssigneeID *int64 `json:"assignee_id"`
}

// TicketCommentRequest 工单评论
type TicketCommentRequest struct {
	Body     string `json:"body" binding:"required,max=8000"`
	Internal bool   `json:"internal"`
}
