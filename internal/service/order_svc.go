package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/realtime"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/logger"
)

const dateLayout = "2006-01-02"

// OrderService 订单管理：状态机、发货、取消、退款、支付回调
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     *PaymentGateway
	invoices    *InvoiceService
	publisher   events.Publisher
	notifier    realtime.Notifier
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	gateway *PaymentGateway,
	publisher events.Publisher,
	notifier realtime.Notifier,
) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
	}
}

// SetInvoiceService 支付成功时同步发票状态
func (s *OrderService) SetInvoiceService(inv *InvoiceService) {
	s.invoices = inv
}

// ==================== 查询 ====================

func (s *OrderService) List(ctx context.Context, storeID int64, req *dto.OrderListRequest) (*dto.PageResult[model.Order], error) {
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		StoreID:       storeID,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Keyword:       req.Keyword,
		StartTime:     start,
		EndTime:       end,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

func (s *OrderService) Get(ctx context.Context, storeID, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// ListByCustomer 顾客自己的订单
func (s *OrderService) ListByCustomer(ctx context.Context, storeID, customerID int64, page, pageSize int) (*dto.PageResult[model.Order], error) {
	page, pageSize = model.ClampPage(page, pageSize)
	list, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		StoreID:    storeID,
		CustomerID: customerID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// Stats 各状态数量与区间销售额，默认最近 30 天
func (s *OrderService) Stats(ctx context.Context, storeID int64, req *dto.OrderStatsRequest) (*model.OrderStats, error) {
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		start = s.now().AddDate(0, 0, -30)
	}

	byStatus, err := s.orderRepo.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	revenue, paid, err := s.orderRepo.Revenue(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &model.OrderStats{ByStatus: byStatus, Revenue: revenue, PaidOrders: paid}
	for _, c := range byStatus {
		stats.Total += c
	}
	if paid > 0 {
		stats.AvgOrder = revenue / paid
	}
	return stats, nil
}

// ==================== 状态流转 ====================

// UpdateStatus 通用入口，取消和退款走各自流程
func (s *OrderService) UpdateStatus(ctx context.Context, storeID, id int64, status string) (*model.Order, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	switch status {
	case model.OrderStatusCancelled:
		return s.Cancel(ctx, storeID, id, "")
	case model.OrderStatusRefunded:
		return s.Refund(ctx, storeID, id)
	}

	order, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.orderRepo, order, status, nil); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, order, status)
	return s.Get(ctx, storeID, id)
}

// Ship 发货并记录物流单号
func (s *OrderService) Ship(ctx context.Context, storeID, id int64, req *dto.ShipOrderRequest) (*model.Order, error) {
	order, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"tracking_number": strings.TrimSpace(req.TrackingNumber),
		"carrier":         req.Carrier,
	}
	if err := s.transition(ctx, s.orderRepo, order, model.OrderStatusShipped, fields); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, order, model.OrderStatusShipped)
	return s.Get(ctx, storeID, id)
}

// Cancel 取消订单并回补库存；已支付的先退款
func (s *OrderService) Cancel(ctx context.Context, storeID, id int64, reason string) (*model.Order, error) {
	order, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionOrder(order.Status, model.OrderStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	fields := map[string]interface{}{}
	if order.PaymentStatus == model.PaymentStatusPaid {
		if err := s.refundPayment(ctx, order); err != nil {
			return nil, err
		}
		fields["payment_status"] = model.PaymentStatusRefunded
	}
	if reason != "" {
		fields["notes"] = strings.TrimSpace(order.Notes + "\n取消原因: " + reason)
	}

	if err := s.cancelAndRestock(ctx, order, fields); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, order, model.OrderStatusCancelled)
	return s.Get(ctx, storeID, id)
}

// Refund 通过支付渠道退款
func (s *OrderService) Refund(ctx context.Context, storeID, id int64) (*model.Order, error) {
	order, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionOrder(order.Status, model.OrderStatusRefunded) {
		return nil, ErrInvalidTransition
	}
	if err := s.refundPayment(ctx, order); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"payment_status": model.PaymentStatusRefunded}
	if err := s.transition(ctx, s.orderRepo, order, model.OrderStatusRefunded, fields); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, order, model.OrderStatusRefunded)
	return s.Get(ctx, storeID, id)
}

// ==================== 支付回调 ====================

// HandleWebhook 校验签名后处理支付事件
func (s *OrderService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	return s.HandlePaymentEvent(ctx, ev)
}

// HandlePaymentEvent 幂等：重复事件不会重复变更
func (s *OrderService) HandlePaymentEvent(ctx context.Context, ev *PaymentEvent) error {
	if ev.Reference == "" {
		return nil
	}
	order, err := s.orderRepo.GetByPaymentRef(ctx, ev.Reference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("[Payment] 回调找不到订单", zap.String("ref", ev.Reference), zap.String("event", ev.Type))
		return nil
	}
	if err != nil {
		return err
	}

	switch ev.Type {
	case PaymentEventSucceeded:
		if order.PaymentStatus == model.PaymentStatusPaid {
			return nil
		}
		if order.Status != model.OrderStatusPending {
			// 已取消等状态只记录支付结果
			return s.orderRepo.UpdateFields(ctx, order.ID, map[string]interface{}{"payment_status": model.PaymentStatusPaid})
		}
		if err := s.transition(ctx, s.orderRepo, order, model.OrderStatusPaid, nil); err != nil {
			if errors.Is(err, ErrOrderStatusConflict) {
				return nil
			}
			return err
		}
		s.afterTransition(ctx, order, model.OrderStatusPaid)
	case PaymentEventFailed:
		if order.PaymentStatus != model.PaymentStatusUnpaid {
			return nil
		}
		return s.orderRepo.UpdateFields(ctx, order.ID, map[string]interface{}{"payment_status": model.PaymentStatusFailed})
	}
	return nil
}

// ==================== 内部方法 ====================

// transition 校验状态机并以乐观锁更新，附带各节点时间戳
func (s *OrderService) transition(ctx context.Context, repo repository.OrderRepository, order *model.Order, to string, extra map[string]interface{}) error {
	if !model.CanTransitionOrder(order.Status, to) {
		return ErrInvalidTransition
	}
	now := s.now()
	fields := map[string]interface{}{"status": to}
	switch to {
	case model.OrderStatusPaid:
		fields["payment_status"] = model.PaymentStatusPaid
		fields["paid_at"] = now
	case model.OrderStatusShipped:
		fields["shipped_at"] = now
	case model.OrderStatusDelivered:
		fields["delivered_at"] = now
	case model.OrderStatusCancelled:
		fields["cancelled_at"] = now
	}
	for k, v := range extra {
		fields[k] = v
	}

	ok, err := repo.UpdateStatusIf(ctx, order.ID, order.Status, fields)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderStatusConflict
	}
	return nil
}

func (s *OrderService) cancelAndRestock(ctx context.Context, order *model.Order, extra map[string]interface{}) error {
	return s.orderRepo.Transaction(ctx, func(txOrders repository.OrderRepository, tx *gorm.DB) error {
		if err := s.transition(ctx, txOrders, order, model.OrderStatusCancelled, extra); err != nil {
			return err
		}
		products := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			var err error
			if item.VariantID != nil {
				err = products.IncrementVariantStock(ctx, *item.VariantID, item.Quantity)
			} else {
				err = products.IncrementStock(ctx, item.ProductID, item.Quantity)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *OrderService) refundPayment(ctx context.Context, order *model.Order) error {
	if order.PaymentStatus != model.PaymentStatusPaid {
		return nil
	}
	provider, err := s.gateway.Provider(order.PaymentMethod)
	if err != nil {
		return err
	}
	if err := provider.Refund(ctx, order); err != nil {
		return apperr.NewExternalError("退款失败", err)
	}
	return nil
}

// afterTransition 事件、推送与发票同步，失败只记日志
func (s *OrderService) afterTransition(ctx context.Context, order *model.Order, to string) {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"from":         order.Status,
		"to":           to,
	}
	events.PublishSafe(ctx, s.publisher, order.StoreID, events.OrderStatusChanged, payload)
	s.notifier.Notify(order.StoreID, realtime.TypeOrderStatus, payload)

	if to == model.OrderStatusPaid && s.invoices != nil {
		if err := s.invoices.MarkOrderPaid(ctx, order.ID); err != nil {
			logger.Warn("[Order] 同步发票状态失败", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
	logger.Info("[Order] 状态变更",
		zap.Int64("order_id", order.ID),
		zap.String("from", order.Status),
		zap.String("to", to),
	)
}

// parseDateRange 结束日期包含当天
func parseDateRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse(dateLayout, start); err != nil {
			return from, to, apperr.NewValidationError("开始日期格式应为 YYYY-MM-DD")
		}
	}
	if end != "" {
		if to, err = time.Parse(dateLayout, end); err != nil {
			return from, to, apperr.NewValidationError("结束日期格式应为 YYYY-MM-DD")
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
