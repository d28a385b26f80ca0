package service

import (
	"context"
	"errors"
	"fmt"
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
	"laboutique_erp_202610/pkg/utils"
)

// CheckoutService 购物车结账
type CheckoutService struct {
	carts       *CartService
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	orders      *OrderService
	gateway     *PaymentGateway
	publisher   events.Publisher
	notifier    realtime.Notifier
	now         func() time.Time
}

func NewCheckoutService(
	carts *CartService,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	orders *OrderService,
	gateway *PaymentGateway,
	publisher events.Publisher,
	notifier realtime.Notifier,
) *CheckoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &CheckoutService{
		carts:       carts,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		orders:      orders,
		gateway:     gateway,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Checkout 单事务完成：重新计价、条件扣库存、生成订单、删除购物车
// 提交后再创建支付；支付创建失败则取消订单并回补库存
func (s *CheckoutService) Checkout(ctx context.Context, storeID int64, token string, customerID *int64, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if token == "" {
		return nil, ErrCartEmpty
	}
	provider, err := s.gateway.Provider(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	pricing, store, err := s.carts.Pricing(ctx, storeID)
	if err != nil {
		return nil, err
	}
	number, err := s.newOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	err = s.orderRepo.Transaction(ctx, func(txOrders repository.OrderRepository, tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)

		cart, err := carts.GetByToken(ctx, storeID, token)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartEmpty
		}
		if err != nil {
			return err
		}
		if cart.Expired(s.now()) || len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		currency := cart.Currency
		if currency == "" {
			currency = store.Currency
		}

		items := make([]model.OrderItem, 0, len(cart.Items))
		var subtotal int64
		count := 0
		for _, line := range cart.Items {
			item, err := s.reserveLine(ctx, products, storeID, currency, line)
			if err != nil {
				return err
			}
			subtotal += item.LineTotal
			count += item.Quantity
			items = append(items, *item)
		}

		totals := pricing.Totals(subtotal, count, currency)
		order = &model.Order{
			StoreID:         storeID,
			OrderNumber:     number,
			CustomerID:      customerID,
			Email:           strings.ToLower(strings.TrimSpace(req.Email)),
			Name:            strings.TrimSpace(req.Name),
			Phone:           req.Phone,
			ShippingAddress: toAddress(req.ShippingAddress),
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusUnpaid,
			PaymentMethod:   req.PaymentMethod,
			Subtotal:        totals.Subtotal,
			ShippingFee:     totals.ShippingFee,
			Tax:             totals.Tax,
			Total:           totals.Total,
			Currency:        currency,
			Notes:           req.Notes,
			Items:           items,
		}
		if err := txOrders.Create(ctx, order); err != nil {
			return err
		}
		return carts.Delete(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	payment, err := provider.CreatePayment(ctx, order)
	if err != nil {
		logger.Error("[Checkout] 创建支付失败，订单回滚", zap.String("order_number", order.OrderNumber), zap.Error(err))
		if _, cerr := s.orders.Cancel(ctx, storeID, order.ID, "支付创建失败"); cerr != nil {
			logger.Error("[Checkout] 取消订单失败", zap.String("order_number", order.OrderNumber), zap.Error(cerr))
		}
		return nil, apperr.NewExternalError("支付", err)
	}
	if payment.Reference != "" {
		if err := s.orderRepo.UpdateFields(ctx, order.ID, map[string]interface{}{"payment_ref": payment.Reference}); err != nil {
			return nil, err
		}
		order.PaymentRef = payment.Reference
	}

	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"currency":     order.Currency,
		"items":        len(order.Items),
	}
	events.PublishSafe(ctx, s.publisher, storeID, events.OrderPlaced, payload)
	s.notifier.Notify(storeID, realtime.TypeNewOrder, payload)
	logger.Info("[Checkout] 下单成功",
		zap.Int64("store_id", storeID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total),
	)

	return &dto.CheckoutResponse{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Total:        order.Total,
		Currency:     order.Currency,
		Status:       order.Status,
		PaymentRef:   payment.Reference,
		ClientSecret: payment.ClientSecret,
	}, nil
}

// reserveLine 按当前价格计价并条件扣减库存
func (s *CheckoutService) reserveLine(ctx context.Context, products repository.ProductRepository, storeID int64, currency string, line model.CartItem) (*model.OrderItem, error) {
	if line.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := products.GetByID(ctx, storeID, line.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, err
	}
	if product.Status != model.ProductStatusActive {
		return nil, apperr.Wrap(ErrProductUnavailable, fmt.Errorf("%s", product.Title))
	}
	if !sameCurrency(product.Currency, currency) {
		return nil, apperr.Wrap(ErrCurrencyMismatch, fmt.Errorf("%s: %s", product.Title, product.Currency))
	}

	item := &model.OrderItem{
		ProductID: product.ID,
		VendorID:  product.VendorID,
		Title:     product.Title,
		SKU:       product.SKU,
		Quantity:  line.Quantity,
	}
	var variant *model.ProductVariant
	if line.VariantID != nil {
		variant, err = products.GetVariant(ctx, product.ID, *line.VariantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		if err != nil {
			return nil, err
		}
		item.VariantID = line.VariantID
		item.Variant = variant.Name
		if variant.SKU != "" {
			item.SKU = variant.SKU
		}
		err = products.DecrementVariantStock(ctx, variant.ID, line.Quantity)
	} else {
		err = products.DecrementStock(ctx, product.ID, line.Quantity)
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, apperr.Wrap(ErrInsufficientStock, fmt.Errorf("%s", product.Title))
	}
	if err != nil {
		return nil, err
	}

	item.UnitPrice = unitPrice(product, variant)
	item.LineTotal = item.UnitPrice * int64(item.Quantity)
	return item, nil
}

// newOrderNumber ORD-YYYYMMDD-XXXXXX
func (s *CheckoutService) newOrderNumber(ctx context.Context) (string, error) {
	prefix := "ORD-" + s.now().Format("20060102") + "-"
	for i := 0; i < 5; i++ {
		code, err := utils.GenerateCode(6)
		if err != nil {
			return "", err
		}
		number := prefix + code
		exists, err := s.orderRepo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", apperr.NewInternalError("生成订单号失败", nil)
}
