package model

import (
	"fmt"
	"time"
)

// ==================== 工单状态 ====================

const (
	TicketStatusOpen       = "OPEN"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusOnHold     = "ON_HOLD"
	TicketStatusResolved   = "RESOLVED"
	TicketStatusClosed     = "CLOSED"
	TicketStatusReopened   = "REOPENED"
	TicketStatusCancelled  = "CANCELLED"
	TicketStatusEscalated  = "ESCALATED"
)

// ==================== 优先级 ====================

const (
	TicketPriorityLow      = "LOW"
	TicketPriorityMedium   = "MEDIUM"
	TicketPriorityHigh     = "HIGH"
	TicketPriorityCritical = "CRITICAL"
	TicketPriorityUrgent   = "URGENT"
)

// ==================== 工单类型 ====================

const (
	TicketTypeSupport       = "SUPPORT"
	TicketTypeComplaint     = "COMPLAINT"
	TicketTypeQuestion      = "QUESTION"
	TicketTypeReturnRequest = "RETURN_REQUEST"
	TicketTypeOrderIssue    = "ORDER_ISSUE"
)

// ==================== 评论作者 ====================

const (
	CommentAuthorCustomer = "customer"
	CommentAuthorAgent    = "agent"
	CommentAuthorSystem   = "system"
)

var ticketStatuses = []string{
	TicketStatusOpen, TicketStatusInProgress, TicketStatusOnHold, TicketStatusResolved,
	TicketStatusClosed, TicketStatusReopened, TicketStatusCancelled, TicketStatusEscalated,
}

// IsValidTicketStatus 是否为已知状态
func IsValidTicketStatus(s string) bool {
	for _, v := range ticketStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidTicketPriority 是否为已知优先级
func IsValidTicketPriority(p string) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsValidTicketType 是否为已知类型
func IsValidTicketType(t string) bool {
	switch t {
	case TicketTypeSupport, TicketTypeComplaint, TicketTypeQuestion, TicketTypeReturnRequest, TicketTypeOrderIssue:
		return true
	}
	return false
}

// CanTransitionTicket 工单状态流转规则
// CLOSED 只能重开，CANCELLED 为终态，RESOLVED 只能关闭或重开
func CanTransitionTicket(from, to string) bool {
	if from == to || !IsValidTicketStatus(to) {
		return false
	}
	switch from {
	case TicketStatusClosed:
		return to == TicketStatusReopened
	case TicketStatusCancelled:
		return false
	case TicketStatusResolved:
		return to == TicketStatusClosed || to == TicketStatusReopened
	}
	return true
}

// FormatTicketNumber TKT-00000042
func FormatTicketNumber(seq int64) string {
	return fmt.Sprintf("TKT-%08d", seq)
}

// Ticket 客服工单
type Ticket struct {
	BaseModel
	AuditMixin
	StoreID        int64      `gorm:"uniqueIndex:idx_ticket_store_number;index:idx_ticket_store_status;not null" json:"store_id"`
	TicketNumber   string     `gorm:"size:20;uniqueIndex:idx_ticket_store_number;not null" json:"ticket_number"`
	Subject        string     `gorm:"size:255;not null" json:"subject"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"size:20;index:idx_ticket_store_status;default:OPEN" json:"status"`
	Priority       string     `gorm:"size:20;index;default:MEDIUM" json:"priority"`
	Type           string     `gorm:"size:20;default:SUPPORT" json:"type"`
	Email          string     `gorm:"size:255" json:"email"`
	Name           string     `gorm:"size:120" json:"name"`
	ConversationID *int64     `gorm:"index" json:"conversation_id"`
	OrderID        *int64     `gorm:"index" json:"order_id"`
	AssigneeID     *int64     `gorm:"index" json:"assignee_id"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	ClosedAt       *time.Time `json:"closed_at"`

	Comments []TicketComment `gorm:"foreignKey:TicketID" json:"comments,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketComment struct {
	BaseModel
	TicketID   int64  `gorm:"index;not null" json:"ticket_id"`
	AuthorType string `gorm:"size:20;not null" json:"author_type"`
	AuthorID   int64  `gorm:"default:0" json:"author_id"`
	Body       string `gorm:"type:text;not null" json:"body"`
	Internal   bool   `gorm:"default:false" json:"internal"` // 内部备注，不回传给顾客
}

func (TicketComment) TableName() string {
	return "ticket_comments"
}

// TicketStats 工单统计
type TicketStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
	Open       int64            `json:"open"`
}
