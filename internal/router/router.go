package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "laboutique_erp_202610/docs"
	"laboutique_erp_202610/internal/controller"
	"laboutique_erp_202610/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Store      *controller.StoreController
	Category   *controller.CategoryController
	Vendor     *controller.VendorController
	Product    *controller.ProductController
	Order      *controller.OrderController
	Invoice    *controller.InvoiceController
	Page       *controller.PageController
	Support    *controller.SupportController
	Ticket     *controller.TicketController
	Customer   *controller.CustomerController
	AliExpress *controller.AliExpressController
	CatalogIO  *controller.CatalogIOController
	Storefront *controller.StorefrontController
	Cart       *controller.CartController
	Realtime   *controller.RealtimeController
	Webhook    *controller.WebhookController
}

// Options 路由依赖
type Options struct {
	Resolver  middleware.StoreResolver
	UploadDir string // 本地存储目录，为空时不挂载 /uploads

	LoginEvery  time.Duration
	LoginBurst  int
	ChatEvery   time.Duration
	ChatBurst   int
	ImportEvery time.Duration
	ExportEvery time.Duration
}

func (o *Options) withDefaults() {
	if o.LoginEvery <= 0 {
		o.LoginEvery = 6 * time.Second
	}
	if o.LoginBurst <= 0 {
		o.LoginBurst = 5
	}
	if o.ChatEvery <= 0 {
		o.ChatEvery = 3 * time.Second
	}
	if o.ChatBurst <= 0 {
		o.ChatBurst = 5
	}
	if o.ImportEvery <= 0 {
		o.ImportEvery = time.Minute
	}
	if o.ExportEvery <= 0 {
		o.ExportEvery = 30 * time.Second
	}
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	opts.withDefaults()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.AccessLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("/api")
	registerAuthRoutes(api, ctrls, opts)
	registerAdminRoutes(api, ctrls, opts)
	registerStoreRoutes(api, ctrls, opts)

	// 第三方回调，不走登录
	api.POST("/webhooks/stripe", ctrls.Webhook.Stripe)
	api.GET("/aliexpress/callback", ctrls.AliExpress.Callback)

	return r
}

// ==================== 后台账号 ====================

func registerAuthRoutes(api *gin.RouterGroup, ctrls *Controllers, opts Options) {
	loginLimiter := middleware.NewKeyedLimiter(opts.LoginEvery, opts.LoginBurst)

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter, middleware.KeyByIP), ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.RefreshToken)

		authed := auth.Group("", middleware.JWTAuth(middleware.KindStaff))
		authed.GET("/me", ctrls.Auth.Profile)
		authed.PUT("/password", ctrls.Auth.ChangePassword)
	}
}

// ==================== 后台管理 ====================

func registerAdminRoutes(api *gin.RouterGroup, ctrls *Controllers, opts Options) {
	// 浏览器 websocket 无法带 Authorization 头，在控制器内校验 query token
	api.GET("/admin/ws", ctrls.Realtime.Connect)

	admin := api.Group("/admin", middleware.JWTAuth(middleware.KindStaff), middleware.AuditContext())

	// -------- 平台级：仅管理员 --------
	platform := admin.Group("", middleware.RequireRole(middleware.RoleAdmin))
	{
		platform.GET("/stores", ctrls.Store.ListStores)
		platform.POST("/stores", ctrls.Store.CreateStore)
		platform.GET("/stores/:id", ctrls.Store.GetStore)
		platform.PUT("/stores/:id", ctrls.Store.UpdateStore)
		platform.POST("/stores/:id/suspend", ctrls.Store.SuspendStore)
		platform.POST("/stores/:id/activate", ctrls.Store.ActivateStore)

		platform.GET("/users", ctrls.User.ListUsers)
		platform.POST("/users", ctrls.User.CreateUser)
		platform.GET("/users/:id", ctrls.User.GetUser)
		platform.PUT("/users/:id", ctrls.User.UpdateUser)
		platform.PUT("/users/:id/password", ctrls.User.ResetPassword)
		platform.DELETE("/users/:id", ctrls.User.DeleteUser)
	}

	// -------- 店铺级：解析租户并校验归属 --------
	tenant := admin.Group("", middleware.TenantMiddleware(opts.Resolver), middleware.RequireStoreAccess())
	tenant.GET("/store", ctrls.Store.CurrentStore)

	// vendor 账号可见，控制器内按 vendor 收敛数据范围
	{
		tenant.GET("/products", ctrls.Product.GetProducts)
		tenant.GET("/products/stats", ctrls.Product.GetProductStats)
		tenant.POST("/products", ctrls.Product.CreateProduct)
		tenant.POST("/products/batch", ctrls.Product.BatchUpsert)
		tenant.GET("/products/:id", ctrls.Product.GetProduct)
		tenant.PUT("/products/:id", ctrls.Product.UpdateProduct)
		tenant.DELETE("/products/:id", ctrls.Product.DeleteProduct)
		tenant.PUT("/products/:id/status", ctrls.Product.SetStatus)
		tenant.POST("/products/:id/stock", ctrls.Product.AdjustStock)

		tenant.GET("/vendors/:id", ctrls.Vendor.Get)
		tenant.PUT("/vendors/:id", ctrls.Vendor.Update)
		tenant.GET("/vendors/:id/stats", ctrls.Vendor.Stats)

		tenant.GET("/categories", ctrls.Category.List)
		tenant.GET("/categories/tree", ctrls.Category.Tree)
		tenant.GET("/categories/:id", ctrls.Category.Get)

		tenant.POST("/aliexpress/import", ctrls.AliExpress.Import)
		tenant.GET("/aliexpress/jobs", ctrls.AliExpress.ListJobs)
	}

	staff := tenant.Group("", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff))
	{
		staff.POST("/categories", ctrls.Category.Create)
		staff.PUT("/categories/:id", ctrls.Category.Update)
		staff.DELETE("/categories/:id", ctrls.Category.Delete)

		staff.GET("/vendors", ctrls.Vendor.List)
		staff.POST("/vendors", ctrls.Vendor.Create)
		staff.POST("/vendors/:id/approve", ctrls.Vendor.Approve)
		staff.POST("/vendors/:id/suspend", ctrls.Vendor.Suspend)
		staff.DELETE("/vendors/:id", ctrls.Vendor.Delete)

		orders := staff.Group("/orders")
		orders.GET("", ctrls.Order.List)
		orders.GET("/stats", ctrls.Order.Stats)
		orders.GET("/:id", ctrls.Order.Get)
		orders.PUT("/:id/status", ctrls.Order.UpdateStatus)
		orders.POST("/:id/ship", ctrls.Order.Ship)
		orders.POST("/:id/cancel", ctrls.Order.Cancel)
		orders.POST("/:id/refund", ctrls.Order.Refund)
		orders.POST("/:id/invoice", ctrls.Order.GenerateInvoice)

		invoices := staff.Group("/invoices")
		invoices.GET("", ctrls.Invoice.List)
		invoices.GET("/:id", ctrls.Invoice.Get)
		invoices.POST("/:id/void", ctrls.Invoice.Void)
		invoices.POST("/:id/paid", ctrls.Invoice.MarkPaid)
		invoices.GET("/:id/pdf", ctrls.Invoice.Download)

		pages := staff.Group("/pages")
		pages.GET("", ctrls.Page.ListPages)
		pages.POST("", ctrls.Page.CreatePage)
		pages.GET("/:id", ctrls.Page.GetPage)
		pages.PUT("/:id", ctrls.Page.UpdatePage)
		pages.DELETE("/:id", ctrls.Page.DeletePage)
		pages.POST("/:id/publish", ctrls.Page.Publish)
		pages.POST("/:id/unpublish", ctrls.Page.Unpublish)

		banners := staff.Group("/banners")
		banners.GET("", ctrls.Page.ListBanners)
		banners.POST("", ctrls.Page.CreateBanner)
		banners.PUT("/:id", ctrls.Page.UpdateBanner)
		banners.DELETE("/:id", ctrls.Page.DeleteBanner)

		staff.GET("/newsletter/subscribers", ctrls.Page.ListSubscribers)

		tickets := staff.Group("/tickets")
		tickets.GET("", ctrls.Ticket.List)
		tickets.POST("", ctrls.Ticket.Create)
		tickets.GET("/stats", ctrls.Ticket.Stats)
		tickets.GET("/:id", ctrls.Ticket.Get)
		tickets.PUT("/:id/status", ctrls.Ticket.UpdateStatus)
		tickets.PUT("/:id/assign", ctrls.Ticket.Assign)
		tickets.POST("/:id/comments", ctrls.Ticket.AddComment)

		staff.GET("/support/conversations", ctrls.Support.ListConversations)
		staff.GET("/support/usage", ctrls.Support.Usage)

		staff.GET("/customers", ctrls.Customer.ListCustomers)

		staff.GET("/aliexpress/oauth/url", ctrls.AliExpress.AuthorizeURL)
		staff.GET("/aliexpress/status", ctrls.AliExpress.Status)
		staff.POST("/aliexpress/disconnect", ctrls.AliExpress.Disconnect)

		cooldown := middleware.NewCooldown()
		staff.POST("/catalog/import",
			middleware.StoreCooldown(cooldown, middleware.ActionImport, opts.ImportEvery),
			ctrls.CatalogIO.Import)
		staff.GET("/catalog/export",
			middleware.StoreCooldown(cooldown, middleware.ActionExport, opts.ExportEvery),
			ctrls.CatalogIO.Export)
	}
}

// ==================== 店铺前台 ====================

func registerStoreRoutes(api *gin.RouterGroup, ctrls *Controllers, opts Options) {
	chatLimiter := middleware.NewKeyedLimiter(opts.ChatEvery, opts.ChatBurst)
	loginLimiter := middleware.NewKeyedLimiter(opts.LoginEvery, opts.LoginBurst)

	// 先解析租户再读可选 Token，前台必须显式携带店铺头
	store := api.Group("/store", middleware.TenantMiddleware(opts.Resolver), middleware.OptionalAuth())
	{
		store.GET("/info", ctrls.Storefront.StoreInfo)
		store.GET("/products", ctrls.Storefront.Products)
		store.GET("/products/:slug", ctrls.Storefront.Product)
		store.GET("/featured", ctrls.Storefront.Featured)
		store.GET("/categories", ctrls.Storefront.Categories)
		store.GET("/categories/:slug", ctrls.Storefront.Category)

		store.GET("/cart", ctrls.Cart.GetCart)
		store.DELETE("/cart", ctrls.Cart.ClearCart)
		store.POST("/cart/items", ctrls.Cart.AddItem)
		store.PUT("/cart/items/:id", ctrls.Cart.UpdateItem)
		store.DELETE("/cart/items/:id", ctrls.Cart.RemoveItem)
		store.POST("/checkout", ctrls.Cart.Checkout)

		store.GET("/pages/:slug", ctrls.Page.PublishedPage)
		store.GET("/banners", ctrls.Page.ActiveBanners)
		store.POST("/newsletter/subscribe", ctrls.Page.Subscribe)
		store.POST("/newsletter/unsubscribe", ctrls.Page.Unsubscribe)

		store.POST("/support/chat", middleware.RateLimit(chatLimiter, middleware.KeyByStoreAndIP), ctrls.Support.Chat)
		store.GET("/support/chat/:session", ctrls.Support.History)

		customers := store.Group("/customers")
		customers.POST("/register", ctrls.Customer.Register)
		customers.POST("/login", middleware.RateLimit(loginLimiter, middleware.KeyByStoreAndIP), ctrls.Customer.Login)
		customers.GET("/me", ctrls.Customer.Profile)
		customers.PUT("/me", ctrls.Customer.UpdateProfile)
		customers.GET("/me/orders", ctrls.Customer.MyOrders)
	}
}
