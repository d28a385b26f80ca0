package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/retry"
)

// NATSPublisher 基于 NATS 的事件发布
type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	retrier *retry.Retrier
}

// NewNATSPublisher 连接 NATS，断线自动重连
func NewNATSPublisher(cfg config.NATSConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("laboutique"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("[NATS] 连接断开", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("[NATS] 已重连", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: cfg.SubjectPrefix,
		retrier: retry.NewRetrier(retry.Config{
			MaxRetries:     2,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     time.Second,
		}),
	}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, storeID int64, eventType string, data interface{}) error {
	env, err := NewEnvelope(storeID, eventType, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	subject := Subject(p.prefix, storeID, eventType)
	res := p.retrier.Do(ctx, "nats.publish", func(ctx context.Context) error {
		return p.conn.Publish(subject, payload)
	})
	return res.Err()
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// New 未配置 NATS 地址时返回 Noop
func New(cfg config.NATSConfig) Publisher {
	if cfg.URL == "" {
		logger.Info("[NATS] 未配置，事件发布已关闭")
		return NoopPublisher{}
	}
	pub, err := NewNATSPublisher(cfg)
	if err != nil {
		logger.Warn("[NATS] 连接失败，事件发布已关闭", zap.Error(err))
		return NoopPublisher{}
	}
	logger.Info("[NATS] 连接成功", zap.String("url", cfg.URL))
	return pub
}

// PublishSafe 发布失败只记日志，不影响主流程
func PublishSafe(ctx context.Context, p Publisher, storeID int64, eventType string, data interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, storeID, eventType, data); err != nil {
		logger.Warn("[Events] 发布失败",
			zap.String("type", eventType),
			zap.Int64("store_id", storeID),
			zap.Error(err),
		)
	}
}
