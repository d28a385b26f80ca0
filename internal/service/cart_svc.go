package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/logger"
)

// DefaultCartTTL 购物车闲置过期时间
const DefaultCartTTL = 7 * 24 * time.Hour

// ==================== 计价规则 ====================

// Pricing 运费与税率
type Pricing struct {
	ShippingFee      int64
	FreeShippingFrom int64 // 0 表示不包邮
	TaxBps           int64
}

// storeSettings 店铺 settings 中可覆盖的计价字段
type storeSettings struct {
	ShippingFee      *int64 `json:"shipping_fee"`
	FreeShippingFrom *int64 `json:"free_shipping_from"`
	TaxBps           *int64 `json:"tax_bps"`
}

// PricingFor 全局配置叠加店铺覆盖
func PricingFor(cfg config.CheckoutConfig, store *model.Store) Pricing {
	p := Pricing{ShippingFee: cfg.ShippingFee, FreeShippingFrom: cfg.FreeShippingFrom, TaxBps: cfg.TaxBps}
	if store == nil || len(store.Settings) == 0 {
		return p
	}
	var s storeSettings
	if err := json.Unmarshal(store.Settings, &s); err != nil {
		logger.Warn("[Cart] 店铺配置解析失败", zap.Int64("store_id", store.ID), zap.Error(err))
		return p
	}
	if s.ShippingFee != nil {
		p.ShippingFee = *s.ShippingFee
	}
	if s.FreeShippingFrom != nil {
		p.FreeShippingFrom = *s.FreeShippingFrom
	}
	if s.TaxBps != nil {
		p.TaxBps = *s.TaxBps
	}
	return p
}

// Totals subtotal + 运费 + 税
func (p Pricing) Totals(subtotal int64, itemCount int, currency string) model.CartTotals {
	t := model.CartTotals{ItemCount: itemCount, Subtotal: subtotal, Currency: currency}
	if itemCount > 0 && (p.FreeShippingFrom <= 0 || subtotal < p.FreeShippingFrom) {
		t.ShippingFee = p.ShippingFee
	}
	t.Tax = subtotal * p.TaxBps / 10000
	t.Total = t.Subtotal + t.ShippingFee + t.Tax
	return t
}

// ==================== 购物车服务 ====================

// CartService 游客购物车，以 token 标识
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	cfg         config.CheckoutConfig
	now         func() time.Time
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	cfg config.CheckoutConfig,
) *CartService {
	if cfg.CartTTL <= 0 {
		cfg.CartTTL = DefaultCartTTL
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// GetCart token 为空、不存在或已过期时签发新购物车
func (s *CartService) GetCart(ctx context.Context, storeID int64, token string) (*dto.CartView, error) {
	cart, err := s.loadOrCreate(ctx, storeID, token)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem 相同商品规格合并数量
func (s *CartService) AddItem(ctx context.Context, storeID int64, token string, req *dto.AddCartItemRequest) (*dto.CartView, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.loadOrCreate(ctx, storeID, token)
	if err != nil {
		return nil, err
	}

	product, variant, err := s.resolveLine(ctx, storeID, cart.Currency, req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}

	var existing *model.CartItem
	for i := range cart.Items {
		if cart.Items[i].SameLine(req.ProductID, req.VariantID) {
			existing = &cart.Items[i]
			break
		}
	}
	qty := req.Quantity
	if existing != nil {
		qty += existing.Quantity
	}
	if qty > availableStock(product, variant) {
		return nil, ErrInsufficientStock
	}

	price := unitPrice(product, variant)
	if existing != nil {
		err = s.cartRepo.UpdateItemQuantity(ctx, cart.ID, existing.ID, qty, price)
	} else {
		err = s.cartRepo.AddItem(ctx, &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			VariantID: req.VariantID,
			Quantity:  qty,
			UnitPrice: price,
		})
	}
	if err != nil {
		return nil, err
	}
	return s.touchAndView(ctx, storeID, cart)
}

// UpdateItem 数量为 0 时删除该行
func (s *CartService) UpdateItem(ctx context.Context, storeID int64, token string, itemID int64, qty int) (*dto.CartView, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	if qty == 0 {
		return s.RemoveItem(ctx, storeID, token, itemID)
	}
	cart, err := s.load(ctx, storeID, token)
	if err != nil {
		return nil, err
	}
	item := findItem(cart, itemID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	product, variant, err := s.resolveLine(ctx, storeID, cart.Currency, item.ProductID, item.VariantID)
	if err != nil {
		return nil, err
	}
	if qty > availableStock(product, variant) {
		return nil, ErrInsufficientStock
	}
	if err := s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, qty, unitPrice(product, variant)); err != nil {
		return nil, err
	}
	return s.touchAndView(ctx, storeID, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, storeID int64, token string, itemID int64) (*dto.CartView, error) {
	cart, err := s.load(ctx, storeID, token)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.touchAndView(ctx, storeID, cart)
}

func (s *CartService) ClearCart(ctx context.Context, storeID int64, token string) (*dto.CartView, error) {
	cart, err := s.load(ctx, storeID, token)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.touchAndView(ctx, storeID, cart)
}

// AttachCustomer 登录后把购物车关联到顾客
func (s *CartService) AttachCustomer(ctx context.Context, storeID int64, token string, customerID int64) error {
	cart, err := s.load(ctx, storeID, token)
	if err != nil {
		return err
	}
	return s.cartRepo.AttachCustomer(ctx, cart.ID, customerID)
}

// CleanupExpired 定时任务：清理过期购物车
func (s *CartService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.cartRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("[Cart] 已清理过期购物车", zap.Int64("count", n))
	}
	return n, nil
}

// Pricing 店铺当前计价规则
func (s *CartService) Pricing(ctx context.Context, storeID int64) (Pricing, *model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Pricing{}, nil, ErrStoreNotFound
	}
	if err != nil {
		return Pricing{}, nil, err
	}
	return PricingFor(s.cfg, store), store, nil
}

// ==================== 内部方法 ====================

// load 只读取未过期的购物车
func (s *CartService) load(ctx context.Context, storeID int64, token string) (*model.Cart, error) {
	if token == "" {
		return nil, ErrCartEmpty
	}
	cart, err := s.cartRepo.GetByToken(ctx, storeID, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartEmpty
	}
	if err != nil {
		return nil, err
	}
	if cart.Expired(s.now()) {
		return nil, ErrCartEmpty
	}
	return cart, nil
}

func (s *CartService) loadOrCreate(ctx context.Context, storeID int64, token string) (*model.Cart, error) {
	if token != "" {
		cart, err := s.cartRepo.GetByToken(ctx, storeID, token)
		switch {
		case err == nil && !cart.Expired(s.now()):
			return cart, nil
		case err == nil:
			if err := s.cartRepo.Delete(ctx, cart.ID); err != nil {
				return nil, err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	_, store, err := s.Pricing(ctx, storeID)
	if err != nil {
		return nil, err
	}
	currency := store.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	cart := &model.Cart{
		StoreID:   storeID,
		Token:     uuid.NewString(),
		Currency:  currency,
		ExpiresAt: s.now().Add(s.cfg.CartTTL),
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) touchAndView(ctx context.Context, storeID int64, cart *model.Cart) (*dto.CartView, error) {
	if err := s.cartRepo.Touch(ctx, cart.ID, s.now().Add(s.cfg.CartTTL)); err != nil {
		return nil, err
	}
	fresh, err := s.cartRepo.GetByToken(ctx, storeID, cart.Token)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, fresh)
}

func (s *CartService) view(ctx context.Context, cart *model.Cart) (*dto.CartView, error) {
	pricing, _, err := s.Pricing(ctx, cart.StoreID)
	if err != nil {
		return nil, err
	}

	v := &dto.CartView{
		Token:     cart.Token,
		Currency:  cart.Currency,
		ExpiresAt: cart.ExpiresAt,
		Items:     make([]dto.CartLine, 0, len(cart.Items)),
	}
	var subtotal int64
	count := 0
	for _, item := range cart.Items {
		line := dto.CartLine{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if p := item.Product; p != nil {
			line.Title = p.Title
			line.Slug = p.Slug
			line.Available = p.Status == model.ProductStatusActive &&
				sameCurrency(p.Currency, cart.Currency) &&
				item.Quantity <= availableStock(p, item.Variant)
			if line.Available {
				line.UnitPrice = unitPrice(p, item.Variant)
			}
		}
		if item.Variant != nil {
			line.VariantName = item.Variant.Name
			line.ImageURL = item.Variant.ImageURL
		}
		line.LineTotal = line.UnitPrice * int64(line.Quantity)
		if line.Available {
			subtotal += line.LineTotal
			count += line.Quantity
		}
		v.Items = append(v.Items, line)
	}
	v.Totals = pricing.Totals(subtotal, count, cart.Currency)
	return v, nil
}

// resolveLine 校验商品归属、状态、币种与规格
func (s *CartService) resolveLine(ctx context.Context, storeID int64, currency string, productID int64, variantID *int64) (*model.Product, *model.ProductVariant, error) {
	product, err := s.productRepo.GetByID(ctx, storeID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrProductNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if product.Status != model.ProductStatusActive {
		return nil, nil, ErrProductUnavailable
	}
	if !sameCurrency(product.Currency, currency) {
		return nil, nil, ErrCurrencyMismatch
	}

	if variantID == nil {
		if len(product.Variants) > 0 {
			return nil, nil, ErrVariantRequired
		}
		return product, nil, nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == *variantID {
			return product, &product.Variants[i], nil
		}
	}
	return nil, nil, ErrVariantNotFound
}

func findItem(cart *model.Cart, itemID int64) *model.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return &cart.Items[i]
		}
	}
	return nil
}

// unitPrice 规格价格为 0 时沿用商品价格
func unitPrice(p *model.Product, v *model.ProductVariant) int64 {
	if v != nil && v.Price > 0 {
		return v.Price
	}
	return p.Price
}

// sameCurrency 价格只能在同一币种下相加
func sameCurrency(a, b string) bool {
	return strings.EqualFold(a, b)
}

func availableStock(p *model.Product, v *model.ProductVariant) int {
	if v != nil {
		return v.Stock
	}
	return p.Stock
}
