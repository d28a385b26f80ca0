package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/logger"
)

// 推送消息类型
const (
	TypeNewOrder        = "new_order"
	TypeOrderStatus     = "order_status"
	TypeTicketEscalated = "ticket_escalated"
	TypeImportDone      = "import_done"
)

// Message 推送给后台的消息
type Message struct {
	Type    string      `json:"type"`
	StoreID int64       `json:"store_id"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// Notifier 服务层只依赖此接口
type Notifier interface {
	Notify(storeID int64, msgType string, payload interface{})
}

// NopNotifier 不推送
type NopNotifier struct{}

func (NopNotifier) Notify(storeID int64, msgType string, payload interface{}) {}

// Hub 按店铺维护后台连接
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	count map[int64]int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		count:      make(map[int64]int),
	}
}

// Run 事件循环，clients 只在此 goroutine 内修改
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.StoreID] == nil {
				h.clients[c.StoreID] = make(map[*Client]struct{})
			}
			h.clients[c.StoreID][c] = struct{}{}
			h.setCount(c.StoreID)
			logger.Debug("[WS] 客户端已连接", zap.Int64("store_id", c.StoreID), zap.Int64("user_id", c.UserID))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warn("[WS] 消息序列化失败", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			for c := range h.clients[msg.StoreID] {
				select {
				case c.Send <- data:
				default:
					// 发送缓冲已满，视为慢连接断开
					h.remove(c)
				}
			}

		case <-h.done:
			for storeID, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
				delete(h.clients, storeID)
			}
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.StoreID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.StoreID)
	}
	h.setCount(c.StoreID)
}

func (h *Hub) setCount(storeID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.clients[storeID]); n > 0 {
		h.count[storeID] = n
	} else {
		delete(h.count, storeID)
	}
}

// Register 注册客户端，Hub 已停止时返回 false
func (h *Hub) Register(c *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister 注销客户端
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Notify 非阻塞投递，队列满时丢弃
func (h *Hub) Notify(storeID int64, msgType string, payload interface{}) {
	msg := &Message{Type: msgType, StoreID: storeID, Payload: payload, SentAt: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("[WS] 推送队列已满，丢弃消息", zap.String("type", msgType), zap.Int64("store_id", storeID))
	}
}

// ClientCount 店铺在线连接数
func (h *Hub) ClientCount(storeID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count[storeID]
}

// Stop 关闭所有连接并退出 Run
func (h *Hub) Stop() {
	close(h.done)
}
