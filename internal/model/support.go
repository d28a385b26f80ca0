package model

// ==================== 会话状态 ====================

const (
	ConversationStatusOpen      = "open"
	ConversationStatusEscalated = "escalated"
	ConversationStatusClosed    = "closed"
)

// ==================== 消息角色 ====================

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleAgent     = "agent"
	MessageRoleSystem    = "system"
)

// SupportConversation 客服会话
type SupportConversation struct {
	BaseModel
	StoreID      int64  `gorm:"index;not null" json:"store_id"`
	SessionToken string `gorm:"size:64;uniqueIndex;not null" json:"session_token"`
	CustomerID   *int64 `gorm:"index" json:"customer_id"`
	Email        string `gorm:"size:255" json:"email"`
	Name         string `gorm:"size:120" json:"name"`
	Status       string `gorm:"size:20;index;default:open" json:"status"`
	TicketID     *int64 `gorm:"index" json:"ticket_id"`

	Messages []SupportMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (SupportConversation) TableName() string {
	return "support_conversations"
}

// IsEscalated 已转人工
func (c *SupportConversation) IsEscalated() bool {
	return c.Status == ConversationStatusEscalated
}

type SupportMessage struct {
	BaseModel
	ConversationID int64  `gorm:"index;not null" json:"conversation_id"`
	Role           string `gorm:"size:20;not null" json:"role"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Tokens         int    `gorm:"default:0" json:"tokens"`
}

func (SupportMessage) TableName() string {
	return "support_messages"
}
