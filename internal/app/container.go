package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/controller"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/realtime"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/internal/router"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/pkg/cache"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/logger"
)

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       cache.Store
	Publisher   events.Publisher
	Hub         *realtime.Hub
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Store      repository.StoreRepository
	User       repository.UserRepository
	Customer   repository.CustomerRepository
	Category   repository.CategoryRepository
	Vendor     repository.VendorRepository
	Product    repository.ProductRepository
	Cart       repository.CartRepository
	Order      repository.OrderRepository
	Invoice    repository.InvoiceRepository
	Page       repository.PageRepository
	Support    repository.SupportRepository
	Ticket     repository.TicketRepository
	AiCallLog  repository.AICallLogRepository
	AliExpress repository.AliExpressRepository
}

// Services 服务集合
type Services struct {
	User       *service.UserService
	Store      *service.StoreService
	Category   *service.CategoryService
	Vendor     *service.VendorService
	Product    *service.ProductService
	Cart       *service.CartService
	Checkout   *service.CheckoutService
	Order      *service.OrderService
	Invoice    *service.InvoiceService
	Payment    *service.PaymentGateway
	Page       *service.PageService
	Support    *service.SupportService
	Ticket     *service.TicketService
	Customer   *service.CustomerService
	Storage    *service.StorageService
	AliExpress *service.AliExpressService
	Seed       *service.SeedService
}

// Options 可替换的外部依赖，测试中注入假实现
type Options struct {
	Cache     cache.Store
	Publisher events.Publisher
	Assistant service.Assistant
	Storage   *service.StorageService
}

// ==================== 初始化函数 ====================

// Build 组装仓库、服务与控制器
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) (*Dependencies, error) {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessExpire,
		RefreshTokenTTL: cfg.JWT.RefreshExpire,
		Issuer:          cfg.JWT.Issuer,
	})

	deps := &Dependencies{
		Config:    cfg,
		DB:        db,
		Cache:     opts.Cache,
		Publisher: opts.Publisher,
		Hub:       realtime.NewHub(),
		Repos:     initRepositories(db),
	}
	if deps.Cache == nil {
		deps.Cache = cache.New(ctx, cfg.Redis, "laboutique:")
	}
	if deps.Publisher == nil {
		deps.Publisher = events.New(cfg.NATS)
	}

	storage := opts.Storage
	if storage == nil {
		s, err := service.NewStorageService(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("初始化存储服务失败: %w", err)
		}
		storage = s
	}

	assistant := opts.Assistant
	if assistant == nil {
		a, err := service.NewAssistant(ctx, cfg.AI)
		if err != nil {
			// 大模型不可用时退回静态回复，会话仍可转人工
			logger.Warn("AI 客服初始化失败，使用静态回复", zap.Error(err))
			a = service.StaticAssistant{}
		}
		assistant = a
	}

	deps.Services = initServices(cfg, deps, storage, assistant)
	deps.Controllers = initControllers(deps)
	return deps, nil
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Store:      repository.NewStoreRepository(db),
		User:       repository.NewUserRepository(db),
		Customer:   repository.NewCustomerRepository(db),
		Category:   repository.NewCategoryRepository(db),
		Vendor:     repository.NewVendorRepository(db),
		Product:    repository.NewProductRepository(db),
		Cart:       repository.NewCartRepository(db),
		Order:      repository.NewOrderRepository(db),
		Invoice:    repository.NewInvoiceRepository(db),
		Page:       repository.NewPageRepository(db),
		Support:    repository.NewSupportRepository(db),
		Ticket:     repository.NewTicketRepository(db),
		AiCallLog:  repository.NewAICallLogRepository(db),
		AliExpress: repository.NewAliExpressRepository(db),
	}
}

// initServices 初始化业务服务
func initServices(cfg *config.Config, deps *Dependencies, storage *service.StorageService, assistant service.Assistant) *Services {
	repos := deps.Repos
	svc := &Services{
		User:     service.NewUserService(repos.User),
		Store:    service.NewStoreService(repos.Store),
		Category: service.NewCategoryService(repos.Category),
		Vendor:   service.NewVendorService(repos.Vendor),
		Page:     service.NewPageService(repos.Page),
		Storage:  storage,
		Payment:  service.NewPaymentGateway(cfg.Stripe),
		Customer: service.NewCustomerService(repos.Customer, repos.Order),
	}

	// -------- 目录 --------
	svc.Product = service.NewProductService(repos.Product, repos.Store, svc.Category, svc.Vendor, deps.Cache)
	svc.Product.SetLowStockThreshold(cfg.Checkout.LowStockThreshold)

	// -------- 交易 --------
	svc.Cart = service.NewCartService(repos.Cart, repos.Product, repos.Store, cfg.Checkout)
	svc.Order = service.NewOrderService(repos.Order, repos.Product, svc.Payment, deps.Publisher, deps.Hub)
	svc.Invoice = service.NewInvoiceService(repos.Invoice, repos.Order, repos.Store, storage)
	svc.Order.SetInvoiceService(svc.Invoice)
	svc.Checkout = service.NewCheckoutService(
		svc.Cart, repos.Cart, repos.Product, repos.Order, svc.Order,
		svc.Payment, deps.Publisher, deps.Hub,
	)

	// -------- 客服 --------
	svc.Ticket = service.NewTicketService(repos.Ticket, repos.Support)
	svc.Support = service.NewSupportService(
		repos.Support, repos.Store, repos.AiCallLog, svc.Ticket,
		assistant, deps.Publisher, deps.Hub,
	)
	svc.Support.SetHistoryLimit(cfg.AI.HistoryLimit)

	// -------- 导入 --------
	svc.AliExpress = service.NewAliExpressService(
		service.NewAliExpressClient(cfg.AliExpress), repos.AliExpress, svc.Product,
		storage, deps.Cache, deps.Publisher, deps.Hub, cfg.AliExpress,
	)
	svc.Seed = service.NewSeedService(
		deps.DB, svc.Category, svc.Vendor, svc.Product,
		repos.Category, repos.Vendor, repos.Product,
	)
	return svc
}

// initControllers 初始化所有控制器
func initControllers(deps *Dependencies) *router.Controllers {
	svc := deps.Services
	return &router.Controllers{
		Auth:       controller.NewAuthController(svc.User),
		User:       controller.NewUserController(svc.User),
		Store:      controller.NewStoreController(svc.Store),
		Category:   controller.NewCategoryController(svc.Category),
		Vendor:     controller.NewVendorController(svc.Vendor),
		Product:    controller.NewProductController(svc.Product),
		Order:      controller.NewOrderController(svc.Order, svc.Invoice),
		Invoice:    controller.NewInvoiceController(svc.Invoice),
		Page:       controller.NewPageController(svc.Page),
		Support:    controller.NewSupportController(svc.Support),
		Ticket:     controller.NewTicketController(svc.Ticket),
		Customer:   controller.NewCustomerController(svc.Customer, svc.Cart),
		AliExpress: controller.NewAliExpressController(svc.AliExpress),
		CatalogIO:  controller.NewCatalogIOController(svc.Seed),
		Storefront: controller.NewStorefrontController(svc.Product, svc.Category),
		Cart:       controller.NewCartController(svc.Cart, svc.Checkout),
		Realtime:   controller.NewRealtimeController(deps.Hub, deps.Repos.Store),
		Webhook:    controller.NewWebhookController(svc.Order),
	}
}

// Router 构建 HTTP 引擎
func (d *Dependencies) Router() *gin.Engine {
	if d.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := router.Options{Resolver: d.Repos.Store}
	if d.Config.Storage.Provider == "local" {
		opts.UploadDir = d.Config.Storage.LocalDir
	}
	return router.SetupRouter(d.Controllers, opts)
}

// Close 释放外部连接
func (d *Dependencies) Close() {
	d.Hub.Stop()
	d.Publisher.Close()
}
