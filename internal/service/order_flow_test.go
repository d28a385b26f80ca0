package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/events"
)

// ==================== 测试替身 ====================

type fakeStripe struct {
	mu        sync.Mutex
	createErr error
	refunds   []string
	seq       int
}

func (f *fakeStripe) Method() string { return model.PaymentMethodStripe }

func (f *fakeStripe) CreatePayment(ctx context.Context, order *model.Order) (*PaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	ref := fmt.Sprintf("pi_%d", f.seq)
	return &PaymentResult{Method: f.Method(), Reference: ref, ClientSecret: ref + "_secret", Status: "requires_payment_method"}, nil
}

func (f *fakeStripe) Refund(ctx context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, order.PaymentRef)
	return nil
}

type notifyRecorder struct {
	mu    sync.Mutex
	types []string
}

func (n *notifyRecorder) Notify(storeID int64, msgType string, payload interface{}) {
	n.mu.Lock()
	n.types = append(n.types, msgType)
	n.mu.Unlock()
}

type shopFixture struct {
	db       *gorm.DB
	store    *model.Store
	carts    *CartService
	checkout *CheckoutService
	orders   *OrderService
	invoices *InvoiceService
	stripe   *fakeStripe
	events   *events.Recorder
	notifier *notifyRecorder
	dir      string
}

func newShopFixture(t *testing.T) (*shopFixture, context.Context) {
	t.Helper()
	db := setupServiceDB(t)
	store := seedStore(t, db, "boutique")

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	gateway := NewPaymentGateway(config.StripeConfig{})
	stripe := &fakeStripe{}
	gateway.Register(stripe)

	rec := &events.Recorder{}
	notifier := &notifyRecorder{}

	dir := t.TempDir()
	local, err := NewLocalStorage(config.StorageConfig{LocalDir: dir})
	require.NoError(t, err)

	carts := NewCartService(cartRepo, productRepo, storeRepo, config.CheckoutConfig{
		ShippingFee:      500,
		FreeShippingFrom: 10000,
		TaxBps:           1000,
	})
	invoices := NewInvoiceService(repository.NewInvoiceRepository(db), orderRepo, storeRepo, NewStorageServiceWithProvider(local))
	orders := NewOrderService(orderRepo, productRepo, gateway, rec, notifier)
	orders.SetInvoiceService(invoices)
	checkout := NewCheckoutService(carts, cartRepo, productRepo, orderRepo, orders, gateway, rec, notifier)

	return &shopFixture{
		db: db, store: store, carts: carts, checkout: checkout, orders: orders,
		invoices: invoices, stripe: stripe, events: rec, notifier: notifier, dir: dir,
	}, context.Background()
}

func (f *shopFixture) product(t *testing.T, title string, price int64, stock int, status string) *model.Product {
	t.Helper()
	p := &model.Product{
		StoreID: f.store.ID, Title: title, Slug: strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Price: price, Stock: stock, Status: status, Currency: "EUR",
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *shopFixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, productID).Error)
	return p.Stock
}

func checkoutRequest(method string) *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		Email: "Awa@Example.com",
		Name:  "Awa Diop",
		ShippingAddress: dto.AddressDTO{
			Line1: "12 Rue Carnot", City: "Dakar", Country: "sn",
		},
		PaymentMethod: method,
	}
}

// ==================== 购物车 ====================

func TestPricing_Totals(t *testing.T) {
	p := Pricing{ShippingFee: 500, FreeShippingFrom: 10000, TaxBps: 1000}

	tests := []struct {
		name     string
		subtotal int64
		items    int
		want     model.CartTotals
	}{
		{"empty cart has no shipping", 0, 0, model.CartTotals{Currency: "EUR"}},
		{"below threshold", 4000, 2, model.CartTotals{ItemCount: 2, Subtotal: 4000, ShippingFee: 500, Tax: 400, Total: 4900, Currency: "EUR"}},
		{"at threshold ships free", 10000, 1, model.CartTotals{ItemCount: 1, Subtotal: 10000, Tax: 1000, Total: 11000, Currency: "EUR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Totals(tt.subtotal, tt.items, "EUR"))
		})
	}
}

func TestPricingFor_StoreOverride(t *testing.T) {
	cfg := config.CheckoutConfig{ShippingFee: 500, TaxBps: 1000}
	store := &model.Store{Settings: []byte(`{"shipping_fee":0,"tax_bps":1800}`)}

	got := PricingFor(cfg, store)
	assert.EqualValues(t, 0, got.ShippingFee)
	assert.EqualValues(t, 1800, got.TaxBps)

	assert.Equal(t, Pricing{ShippingFee: 500, TaxBps: 1000}, PricingFor(cfg, &model.Store{}))
}

func TestCartService_AddMergeAndGuards(t *testing.T) {
	f, ctx := newShopFixture(t)
	lamp := f.product(t, "Lamp", 3000, 3, model.ProductStatusActive)
	draft := f.product(t, "Draft", 100, 10, model.ProductStatusDraft)

	other := seedStore(t, f.db, "other")
	foreign := &model.Product{StoreID: other.ID, Title: "Foreign", Slug: "foreign", Price: 1, Stock: 9, Status: model.ProductStatusActive}
	require.NoError(t, f.db.Create(foreign).Error)

	cart, err := f.carts.GetCart(ctx, f.store.ID, "")
	require.NoError(t, err)
	require.NotEmpty(t, cart.Token)
	assert.Equal(t, "EUR", cart.Currency)

	cart, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "相同商品应合并")
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.EqualValues(t, 6000+500+600, cart.Totals.Total)

	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 2})
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: draft.ID, Quantity: 1})
	assert.True(t, errors.Is(err, ErrProductUnavailable))

	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: foreign.ID, Quantity: 1})
	assert.True(t, errors.Is(err, ErrProductNotFound))

	cart, err = f.carts.UpdateItem(ctx, f.store.ID, cart.Token, cart.Items[0].ItemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, cart.Totals.Total)
}

func TestCartService_RejectsForeignCurrency(t *testing.T) {
	f, ctx := newShopFixture(t)
	lamp := f.product(t, "Lamp", 3000, 3, model.ProductStatusActive)
	usd := f.product(t, "Usd Lamp", 1999, 3, model.ProductStatusActive)
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", usd.ID).Update("currency", "USD").Error)

	cart, err := f.carts.GetCart(ctx, f.store.ID, "")
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: usd.ID, Quantity: 1})
	assert.True(t, errors.Is(err, ErrCurrencyMismatch), "got %v", err)

	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 1})
	require.NoError(t, err)

	// 加购后商品改为其他币种
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", lamp.ID).Update("currency", "USD").Error)

	view, err := f.carts.GetCart(ctx, f.store.ID, cart.Token)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].Available)
	assert.EqualValues(t, 0, view.Totals.Subtotal)

	_, err = f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodCOD))
	assert.True(t, errors.Is(err, ErrCurrencyMismatch), "got %v", err)
	assert.Equal(t, 3, f.stock(t, lamp.ID))

	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.EqualValues(t, 0, orders)
}

func TestCartService_Variants(t *testing.T) {
	f, ctx := newShopFixture(t)
	dress := f.product(t, "Dress", 4500, 0, model.ProductStatusActive)
	small := &model.ProductVariant{ProductID: dress.ID, Name: "S", Price: 0, Stock: 2}
	large := &model.ProductVariant{ProductID: dress.ID, Name: "L", Price: 5000, Stock: 1}
	require.NoError(t, f.db.Create(small).Error)
	require.NoError(t, f.db.Create(large).Error)

	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")
	_, err := f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: dress.ID, Quantity: 1})
	assert.True(t, errors.Is(err, ErrVariantRequired))

	cart, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: dress.ID, VariantID: &small.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: dress.ID, VariantID: &large.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.EqualValues(t, 4500, cart.Items[0].UnitPrice, "规格价格为 0 时沿用商品价格")
	assert.EqualValues(t, 5000, cart.Items[1].UnitPrice)
	assert.Equal(t, "L", cart.Items[1].VariantName)
}

func TestCartService_ExpiredTokenIssuesNewCart(t *testing.T) {
	f, ctx := newShopFixture(t)
	cart, err := f.carts.GetCart(ctx, f.store.ID, "")
	require.NoError(t, err)

	f.carts.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	fresh, err := f.carts.GetCart(ctx, f.store.ID, cart.Token)
	require.NoError(t, err)
	assert.NotEqual(t, cart.Token, fresh.Token)

	_, err = f.carts.ClearCart(ctx, f.store.ID, cart.Token)
	assert.True(t, errors.Is(err, ErrCartEmpty))

	f.carts.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }
	n, err := f.carts.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// ==================== 结账 ====================

func TestCheckout_CODSuccess(t *testing.T) {
	f, ctx := newShopFixture(t)
	lamp := f.product(t, "Lamp", 3000, 3, model.ProductStatusActive)

	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")
	_, err := f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 2})
	require.NoError(t, err)

	// 下单前调价，以当前价格为准
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", lamp.ID).Update("price", 3500).Error)

	res, err := f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodCOD))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.OrderNumber, "ORD-"+time.Now().Format("20060102")+"-"))
	assert.Len(t, res.OrderNumber, len("ORD-20060102-")+6)
	assert.EqualValues(t, 7000+500+700, res.Total)
	assert.Empty(t, res.ClientSecret)

	assert.Equal(t, 1, f.stock(t, lamp.ID))

	order, err := f.orders.Get(ctx, f.store.ID, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", order.Email)
	assert.Equal(t, "SN", order.ShippingAddress.Country)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Lamp", order.Items[0].Title)
	assert.EqualValues(t, 3500, order.Items[0].UnitPrice)

	_, err = f.carts.ClearCart(ctx, f.store.ID, cart.Token)
	assert.True(t, errors.Is(err, ErrCartEmpty), "购物车应在下单后删除")

	assert.Contains(t, f.events.Types(), events.OrderPlaced)
	assert.Contains(t, f.notifier.types, "new_order")
}

func TestCheckout_OutOfStockRollsBack(t *testing.T) {
	f, ctx := newShopFixture(t)
	lamp := f.product(t, "Lamp", 3000, 5, model.ProductStatusActive)
	rug := f.product(t, "Rug", 9000, 1, model.ProductStatusActive)

	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")
	_, err := f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: rug.ID, Quantity: 1})
	require.NoError(t, err)

	// 另一位顾客抢先买走了地毯
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", rug.ID).Update("stock", 0).Error)

	_, err = f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodCOD))
	assert.True(t, errors.Is(err, ErrInsufficientStock), "got %v", err)

	assert.Equal(t, 5, f.stock(t, lamp.ID), "已扣减的库存应回滚")
	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.EqualValues(t, 0, orders)

	view, err := f.carts.GetCart(ctx, f.store.ID, cart.Token)
	require.NoError(t, err)
	assert.Equal(t, cart.Token, view.Token)
	assert.Len(t, view.Items, 2)
}

func TestCheckout_Guards(t *testing.T) {
	f, ctx := newShopFixture(t)
	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")

	_, err := f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodCOD))
	assert.True(t, errors.Is(err, ErrCartEmpty))

	_, err = f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest("bitcoin"))
	assert.True(t, errors.Is(err, ErrPaymentMethodUnsupported))
}

func TestCheckout_PaymentFailureCancelsOrder(t *testing.T) {
	f, ctx := newShopFixture(t)
	lamp := f.product(t, "Lamp", 3000, 3, model.ProductStatusActive)
	f.stripe.createErr = errors.New("card_declined")

	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")
	_, err := f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodStripe))
	require.Error(t, err)

	var order model.Order
	require.NoError(t, f.db.First(&order).Error)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
	assert.Equal(t, 3, f.stock(t, lamp.ID))
}

// ==================== 订单与支付 ====================

func placeStripeOrder(t *testing.T, f *shopFixture, ctx context.Context, qty int) (*dto.CheckoutResponse, *model.Product) {
	t.Helper()
	lamp := f.product(t, fmt.Sprintf("Lamp %d", time.Now().UnixNano()), 3000, 5, model.ProductStatusActive)
	cart, _ := f.carts.GetCart(ctx, f.store.ID, "")
	_, err := f.carts.AddItem(ctx, f.store.ID, cart.Token, &dto.AddCartItemRequest{ProductID: lamp.ID, Quantity: qty})
	require.NoError(t, err)
	res, err := f.checkout.Checkout(ctx, f.store.ID, cart.Token, nil, checkoutRequest(model.PaymentMethodStripe))
	require.NoError(t, err)
	return res, lamp
}

func TestOrderService_WebhookIsIdempotent(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, _ := placeStripeOrder(t, f, ctx, 1)
	require.NotEmpty(t, res.ClientSecret)

	ev := &PaymentEvent{Type: PaymentEventSucceeded, Reference: res.PaymentRef}
	require.NoError(t, f.orders.HandlePaymentEvent(ctx, ev))
	require.NoError(t, f.orders.HandlePaymentEvent(ctx, ev))

	order, _ := f.orders.Get(ctx, f.store.ID, res.OrderID)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.NotNil(t, order.PaidAt)

	changed := 0
	for _, typ := range f.events.Types() {
		if typ == events.OrderStatusChanged {
			changed++
		}
	}
	assert.Equal(t, 1, changed, "重复回调不应重复发布事件")

	// 失败事件不会覆盖已支付状态
	require.NoError(t, f.orders.HandlePaymentEvent(ctx, &PaymentEvent{Type: PaymentEventFailed, Reference: res.PaymentRef}))
	order, _ = f.orders.Get(ctx, f.store.ID, res.OrderID)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)

	assert.NoError(t, f.orders.HandlePaymentEvent(ctx, &PaymentEvent{Type: PaymentEventSucceeded, Reference: "pi_unknown"}))
}

func TestOrderService_StatusMachine(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, _ := placeStripeOrder(t, f, ctx, 1)
	id := res.OrderID

	_, err := f.orders.UpdateStatus(ctx, f.store.ID, id, model.OrderStatusShipped)
	assert.True(t, errors.Is(err, ErrInvalidTransition), "pending 不能直接发货")

	_, err = f.orders.UpdateStatus(ctx, f.store.ID, id, "lost")
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	steps := []string{model.OrderStatusPaid, model.OrderStatusProcessing}
	for _, st := range steps {
		_, err := f.orders.UpdateStatus(ctx, f.store.ID, id, st)
		require.NoError(t, err, st)
	}
	order, err := f.orders.Ship(ctx, f.store.ID, id, &dto.ShipOrderRequest{TrackingNumber: " LX123 ", Carrier: "DHL"})
	require.NoError(t, err)
	assert.Equal(t, "LX123", order.TrackingNumber)
	assert.NotNil(t, order.ShippedAt)

	_, err = f.orders.Cancel(ctx, f.store.ID, id, "")
	assert.True(t, errors.Is(err, ErrInvalidTransition), "已发货不能取消")

	_, err = f.orders.UpdateStatus(ctx, f.store.ID, id, model.OrderStatusDelivered)
	require.NoError(t, err)

	order, err = f.orders.Refund(ctx, f.store.ID, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefunded, order.Status)
	assert.Equal(t, model.PaymentStatusRefunded, order.PaymentStatus)
	assert.Equal(t, []string{res.PaymentRef}, f.stripe.refunds)
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, lamp := placeStripeOrder(t, f, ctx, 2)
	assert.Equal(t, 3, f.stock(t, lamp.ID))

	require.NoError(t, f.orders.HandlePaymentEvent(ctx, &PaymentEvent{Type: PaymentEventSucceeded, Reference: res.PaymentRef}))

	order, err := f.orders.Cancel(ctx, f.store.ID, res.OrderID, "client a changé d'avis")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
	assert.Equal(t, model.PaymentStatusRefunded, order.PaymentStatus)
	assert.NotNil(t, order.CancelledAt)
	assert.Contains(t, order.Notes, "client a changé d'avis")
	assert.Equal(t, 5, f.stock(t, lamp.ID))
	assert.Len(t, f.stripe.refunds, 1)
}

func TestOrderService_ListAndStats(t *testing.T) {
	f, ctx := newShopFixture(t)
	first, _ := placeStripeOrder(t, f, ctx, 1)
	placeStripeOrder(t, f, ctx, 1)
	require.NoError(t, f.orders.HandlePaymentEvent(ctx, &PaymentEvent{Type: PaymentEventSucceeded, Reference: first.PaymentRef}))

	page, err := f.orders.List(ctx, f.store.ID, &dto.OrderListRequest{PaymentStatus: model.PaymentStatusPaid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = f.orders.List(ctx, f.store.ID, &dto.OrderListRequest{Keyword: "awa@"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	_, err = f.orders.List(ctx, f.store.ID, &dto.OrderListRequest{StartDate: "2024/01/01"})
	assert.Error(t, err)

	stats, err := f.orders.Stats(ctx, f.store.ID, &dto.OrderStatsRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.PaidOrders)
	assert.EqualValues(t, first.Total, stats.Revenue)
	assert.EqualValues(t, first.Total, stats.AvgOrder)
}

// ==================== 发票 ====================

func TestInvoiceService_GenerateAndPay(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, _ := placeStripeOrder(t, f, ctx, 1)

	_, err := f.invoices.Generate(ctx, f.store.ID, res.OrderID)
	assert.True(t, errors.Is(err, ErrInvoiceNotAllowed), "未支付的待处理订单不能开票")

	_, err = f.orders.UpdateStatus(ctx, f.store.ID, res.OrderID, model.OrderStatusPaid)
	require.NoError(t, err)

	inv, err := f.invoices.Generate(ctx, f.store.ID, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-000001", time.Now().Year()), inv.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, res.Total, inv.Total)

	again, err := f.invoices.Generate(ctx, f.store.ID, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID, "重复开票返回已有发票")

	second, _ := placeStripeOrder(t, f, ctx, 1)
	_, err = f.orders.UpdateStatus(ctx, f.store.ID, second.OrderID, model.OrderStatusPaid)
	require.NoError(t, err)
	inv2, err := f.invoices.Generate(ctx, f.store.ID, second.OrderID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-000002", time.Now().Year()), inv2.InvoiceNumber)

	voided, err := f.invoices.Void(ctx, f.store.ID, inv2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusVoid, voided.Status)
	_, err = f.invoices.MarkPaid(ctx, f.store.ID, inv2.ID)
	assert.True(t, errors.Is(err, ErrInvoiceVoid))
}

func TestInvoiceService_MarkedPaidWithOrder(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, _ := placeStripeOrder(t, f, ctx, 1)
	require.NoError(t, f.db.Model(&model.Order{}).Where("id = ?", res.OrderID).Update("status", model.OrderStatusPaid).Error)

	inv, err := f.invoices.Generate(ctx, f.store.ID, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusIssued, inv.Status)

	_, err = f.orders.UpdateStatus(ctx, f.store.ID, res.OrderID, model.OrderStatusProcessing)
	require.NoError(t, err)
	require.NoError(t, f.invoices.MarkOrderPaid(ctx, res.OrderID))

	got, err := f.invoices.Get(ctx, f.store.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
	assert.NotNil(t, got.PaidAt)
}

func TestInvoiceService_Download(t *testing.T) {
	f, ctx := newShopFixture(t)
	res, _ := placeStripeOrder(t, f, ctx, 1)
	_, err := f.orders.UpdateStatus(ctx, f.store.ID, res.OrderID, model.OrderStatusPaid)
	require.NoError(t, err)
	inv, err := f.invoices.Generate(ctx, f.store.ID, res.OrderID)
	require.NoError(t, err)

	data, filename, err := f.invoices.Download(ctx, f.store.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber+".pdf", filename)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	key := InvoiceKey(f.store.ID, inv.InvoiceNumber)
	_, err = os.Stat(filepath.Join(f.dir, filepath.FromSlash(key)))
	assert.NoError(t, err)

	got, _ := f.invoices.Get(ctx, f.store.ID, inv.ID)
	assert.Equal(t, key, got.PDFKey)
}
