package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/config"
)

// ==================== 接口定义 ====================

// PaymentResult 创建支付的结果
type PaymentResult struct {
	Method       string `json:"method"`
	Reference    string `json:"reference,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status"`
}

// PaymentEvent 支付回调归一化后的事件
type PaymentEvent struct {
	ID        string
	Type      string
	Reference string
	Amount    int64
	Currency  string
}

// 回调事件类型
const (
	PaymentEventSucceeded = "payment_intent.succeeded"
	PaymentEventFailed    = "payment_intent.payment_failed"
)

// PaymentProvider 支付渠道
type PaymentProvider interface {
	Method() string
	CreatePayment(ctx context.Context, order *model.Order) (*PaymentResult, error)
	Refund(ctx context.Context, order *model.Order) error
}

var ErrPaymentMethodUnsupported = apperr.NewValidationError("不支持的支付方式")

// PaymentGateway 按支付方式路由
type PaymentGateway struct {
	providers map[string]PaymentProvider
	stripe    *StripeProvider
}

// NewPaymentGateway 未配置 Stripe 时只提供货到付款
func NewPaymentGateway(cfg config.StripeConfig) *PaymentGateway {
	g := &PaymentGateway{providers: map[string]PaymentProvider{}}
	g.Register(CODProvider{})
	if cfg.SecretKey != "" {
		g.stripe = NewStripeProvider(cfg.SecretKey, cfg.WebhookSecret)
		g.Register(g.stripe)
	}
	return g
}

func (g *PaymentGateway) Register(p PaymentProvider) {
	g.providers[p.Method()] = p
}

func (g *PaymentGateway) Provider(method string) (PaymentProvider, error) {
	p, ok := g.providers[method]
	if !ok {
		return nil, ErrPaymentMethodUnsupported
	}
	return p, nil
}

// Supports 支付方式是否可用
func (g *PaymentGateway) Supports(method string) bool {
	_, ok := g.providers[method]
	return ok
}

// ParseWebhook 校验 Stripe 签名并解析事件
func (g *PaymentGateway) ParseWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	if g.stripe == nil {
		return nil, apperr.NewValidationError("未配置 Stripe")
	}
	return g.stripe.ParseWebhook(payload, signature)
}

// ==================== 货到付款 ====================

type CODProvider struct{}

func (CODProvider) Method() string { return model.PaymentMethodCOD }

func (CODProvider) CreatePayment(ctx context.Context, order *model.Order) (*PaymentResult, error) {
	return &PaymentResult{Method: model.PaymentMethodCOD, Status: model.PaymentStatusUnpaid}, nil
}

// Refund 线下退款，无需远程调用
func (CODProvider) Refund(ctx context.Context, order *model.Order) error {
	return nil
}

// ==================== Stripe ====================

type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, nil), webhookSecret: webhookSecret}
}

func (p *StripeProvider) Method() string { return model.PaymentMethodStripe }

func (p *StripeProvider) CreatePayment(ctx context.Context, order *model.Order) (*PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.Total),
		Currency: stripe.String(strings.ToLower(order.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(order.Email),
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + order.OrderNumber)
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("store_id", fmt.Sprintf("%d", order.StoreID))

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return &PaymentResult{
		Method:       model.PaymentMethodStripe,
		Reference:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (p *StripeProvider) Refund(ctx context.Context, order *model.Order) error {
	if order.PaymentRef == "" {
		return apperr.NewValidationError("订单缺少支付流水号")
	}
	params := &stripe.RefundParams{PaymentIntent: stripe.String(order.PaymentRef)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + order.OrderNumber)
	if _, err := p.api.Refunds.New(params); err != nil {
		return wrapStripeError(err)
	}
	return nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.NewValidationError("签名校验失败"), err)
	}

	out := &PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(out.Type, "payment_intent.") && event.Data != nil {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, apperr.Wrap(apperr.NewValidationError("事件数据解析失败"), err)
		}
		out.Reference = pi.ID
		out.Amount = pi.Amount
		out.Currency = strings.ToUpper(string(pi.Currency))
	}
	return out, nil
}

// wrapStripeError 保留 HTTP 状态供统一分类
func wrapStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode >= 500 || se.HTTPStatusCode == 429 {
			return apperr.NewExternalError("stripe", err)
		}
		return apperr.Wrap(apperr.NewValidationError("支付失败: "+se.Msg), err)
	}
	return apperr.NewExternalError("stripe", err)
}
