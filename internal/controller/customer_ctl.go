package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/pkg/logger"
)

// ==================== CustomerController 顾客账号 ====================

type CustomerController struct {
	customerSvc *service.CustomerService
	cartSvc     *service.CartService
}

func NewCustomerController(customerSvc *service.CustomerService, cartSvc *service.CartService) *CustomerController {
	return &CustomerController{customerSvc: customerSvc, cartSvc: cartSvc}
}

// storeCustomerID 顾客 Token 只在签发它的店铺内有效
func storeCustomerID(ctx *gin.Context) int64 {
	claims := middleware.GetUserClaims(ctx)
	if claims == nil || claims.Kind != middleware.KindCustomer || claims.StoreID != middleware.GetStoreID(ctx) {
		return 0
	}
	return claims.UserID
}

// requireCustomer 未登录或跨店铺时已写入 401
func requireCustomer(ctx *gin.Context) (int64, bool) {
	id := storeCustomerID(ctx)
	if id == 0 {
		respondError(ctx, service.ErrInvalidToken)
		return 0, false
	}
	return id, true
}

// attachCart 登录后把访客购物车归属到顾客
func (c *CustomerController) attachCart(ctx *gin.Context, customerID int64) {
	token := cartToken(ctx)
	if token == "" {
		return
	}
	if err := c.cartSvc.AttachCustomer(ctx.Request.Context(), middleware.GetStoreID(ctx), token, customerID); err != nil {
		logger.Debug("[Customer] 关联购物车失败", zap.Int64("customer_id", customerID), zap.Error(err))
	}
}

// Register 顾客注册
// @Summary 顾客注册
// @Tags Customer
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param request body dto.CustomerRegisterRequest true "注册信息"
// @Success 201 {object} dto.CustomerAuthResponse
// @Failure 409 {object} map[string]interface{} "邮箱已存在"
// @Router /store/customers/register [post]
func (c *CustomerController) Register(ctx *gin.Context) {
	var req dto.CustomerRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	resp, err := c.customerSvc.Register(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.attachCart(ctx, resp.Customer.ID)
	respondCreated(ctx, "注册成功", resp)
}

// Login 顾客登录
// @Summary 顾客登录
// @Tags Customer
// @Accept json
// @Produce json
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param X-Cart-Token header string false "访客购物车"
// @Param request body dto.CustomerLoginRequest true "登录信息"
// @Success 200 {object} dto.CustomerAuthResponse
// @Failure 401 {object} map[string]interface{}
// @Router /store/customers/login [post]
func (c *CustomerController) Login(ctx *gin.Context) {
	var req dto.CustomerLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	resp, err := c.customerSvc.Login(ctx.Request.Context(), middleware.GetStoreID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.attachCart(ctx, resp.Customer.ID)
	respondOK(ctx, "登录成功", resp)
}

// Profile 我的资料
// @Summary 顾客资料
// @Tags Customer
// @Produce json
// @Security BearerAuth
// @Param X-Store-ID header string true "店铺ID或标识"
// @Success 200 {object} dto.CustomerInfo
// @Router /store/customers/me [get]
func (c *CustomerController) Profile(ctx *gin.Context) {
	id, ok := requireCustomer(ctx)
	if !ok {
		return
	}
	info, err := c.customerSvc.Profile(ctx.Request.Context(), middleware.GetStoreID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", info)
}

// UpdateProfile 修改资料
// @Summary 修改顾客资料
// @Tags Customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param request body dto.UpdateProfileRequest true "资料"
// @Success 200 {object} dto.CustomerInfo
// @Router /store/customers/me [put]
func (c *CustomerController) UpdateProfile(ctx *gin.Context) {
	id, ok := requireCustomer(ctx)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, err)
		return
	}
	info, err := c.customerSvc.UpdateProfile(ctx.Request.Context(), middleware.GetStoreID(ctx), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "更新成功", info)
}

// MyOrders 我的订单
// @Summary 顾客订单列表
// @Tags Customer
// @Produce json
// @Security BearerAuth
// @Param X-Store-ID header string true "店铺ID或标识"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[model.Order]
// @Router /store/customers/me/orders [get]
func (c *CustomerController) MyOrders(ctx *gin.Context) {
	id, ok := requireCustomer(ctx)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	result, err := c.customerSvc.ListMyOrders(ctx.Request.Context(), middleware.GetStoreID(ctx), id, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}

// ListCustomers 后台顾客列表
// @Summary 顾客列表
// @Tags Customer
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "邮箱 / 姓名"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.PageResult[dto.CustomerInfo]
// @Router /admin/customers [get]
func (c *CustomerController) ListCustomers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	result, err := c.customerSvc.ListCustomers(ctx.Request.Context(), middleware.GetStoreID(ctx), ctx.Query("keyword"), page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, "success", result)
}
