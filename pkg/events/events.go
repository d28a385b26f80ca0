package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 事件类型
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	TicketEscalated    = "ticket.escalated"
	ProductImported    = "product.imported"
)

// Envelope 统一事件信封
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	StoreID    int64           `json:"store_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, storeID int64, eventType string, data interface{}) error
	Close()
}

// NewEnvelope 构造事件信封
func NewEnvelope(storeID int64, eventType string, data interface{}) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化事件失败: %w", err)
	}
	return &Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		StoreID:    storeID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}, nil
}

// Subject laboutique.<store>.<event>
func Subject(prefix string, storeID int64, eventType string) string {
	if prefix == "" {
		prefix = "laboutique"
	}
	return fmt.Sprintf("%s.%d.%s", prefix, storeID, eventType)
}

// ==================== Noop ====================

// NoopPublisher 未配置消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, storeID int64, eventType string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() {}

// ==================== Recorder ====================

// Recorder 记录已发布事件，测试使用
type Recorder struct {
	mu     sync.Mutex
	Events []Envelope
}

func (r *Recorder) Publish(ctx context.Context, storeID int64, eventType string, data interface{}) error {
	env, err := NewEnvelope(storeID, eventType, data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.Events = append(r.Events, *env)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() {}

// Types 已发布事件类型列表
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
