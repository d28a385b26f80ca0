package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client 一个后台 websocket 连接
type Client struct {
	StoreID int64
	UserID  int64
	Send    chan []byte

	hub  *Hub
	conn *websocket.Conn
}

// NewClient conn 为空时只通过 Send 通道收消息（测试）
func NewClient(hub *Hub, conn *websocket.Conn, storeID, userID int64) *Client {
	return &Client{
		StoreID: storeID,
		UserID:  userID,
		Send:    make(chan []byte, sendBuffer),
		hub:     hub,
		conn:    conn,
	}
}

// ReadPump 只处理 pong 与关闭，后台不向服务端发消息
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("[WS] 读取失败", zap.Int64("user_id", c.UserID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump 推送消息并定时 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
