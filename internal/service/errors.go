package service

import "laboutique_erp_202610/pkg/apperr"

// ==================== 错误定义 ====================

var (
	// 账号
	ErrInvalidCredentials = apperr.NewUnauthorizedError("用户名或密码错误")
	ErrUserDisabled       = apperr.NewForbiddenError("用户已禁用")
	ErrInvalidToken       = apperr.NewUnauthorizedError("Token 无效")
	ErrUserNotFound       = apperr.NewNotFoundError("用户不存在")
	ErrInvalidOldPassword = apperr.NewValidationError("旧密码错误")
	ErrUsernameExists     = apperr.NewConflictError("用户名已存在")
	ErrEmailExists        = apperr.NewConflictError("邮箱已存在")
	ErrCannotDeleteAdmin  = apperr.NewForbiddenError("不能删除管理员用户")
	ErrStoreRequired      = apperr.NewValidationError("该角色必须指定店铺")
	ErrCustomerNotFound   = apperr.NewNotFoundError("顾客不存在")

	// 店铺
	ErrStoreNotFound  = apperr.NewNotFoundError("店铺不存在")
	ErrStoreSlugTaken = apperr.NewConflictError("店铺标识已被占用")

	// 目录
	ErrCategoryNotFound    = apperr.NewNotFoundError("分类不存在")
	ErrCategoryHasChildren = apperr.NewConflictError("分类下存在子分类，无法删除")
	ErrCategoryHasProducts = apperr.NewConflictError("分类下存在商品，无法删除")
	ErrCategoryCycle       = apperr.NewValidationError("不能将分类移动到自身或其子分类下")
	ErrVendorNotFound      = apperr.NewNotFoundError("供应商不存在")
	ErrVendorHasProducts   = apperr.NewConflictError("供应商仍有商品，无法删除")
	ErrProductNotFound     = apperr.NewNotFoundError("商品不存在")
	ErrSlugTaken           = apperr.NewConflictError("标识已被占用")
	ErrInvalidStatus       = apperr.NewValidationError("无效的状态")
	ErrCurrencyMismatch    = apperr.NewValidationError("商品币种与店铺币种不一致")

	// 购物车 / 下单
	ErrCartEmpty           = apperr.NewValidationError("购物车为空")
	ErrCartItemNotFound    = apperr.NewNotFoundError("购物车商品不存在")
	ErrProductUnavailable  = apperr.NewValidationError("商品已下架")
	ErrInsufficientStock   = apperr.NewConflictError("库存不足")
	ErrInvalidQuantity     = apperr.NewValidationError("数量无效")
	ErrVariantNotFound     = apperr.NewNotFoundError("商品规格不存在")
	ErrVariantRequired     = apperr.NewValidationError("请选择商品规格")
	ErrOrderNotFound       = apperr.NewNotFoundError("订单不存在")
	ErrInvalidTransition   = apperr.NewConflictError("订单状态不允许此操作")
	ErrOrderStatusConflict = apperr.NewConflictError("订单状态已变更，请刷新后重试")

	// 发票
	ErrInvoiceNotFound   = apperr.NewNotFoundError("发票不存在")
	ErrInvoiceNotAllowed = apperr.NewConflictError("当前订单状态不能开具发票")
	ErrInvoiceVoid       = apperr.NewConflictError("发票已作废")

	// 页面
	ErrPageNotFound   = apperr.NewNotFoundError("页面不存在")
	ErrBannerNotFound = apperr.NewNotFoundError("广告位不存在")

	// 客服 / 工单
	ErrConversationNotFound = apperr.NewNotFoundError("会话不存在")
	ErrEmptyMessage         = apperr.NewValidationError("消息内容不能为空")
	ErrTicketNotFound       = apperr.NewNotFoundError("工单不存在")
	ErrTicketTransition     = apperr.NewConflictError("工单状态不允许此操作")

	// AliExpress
	ErrAliExpressNotConfigured = apperr.NewValidationError("未配置 AliExpress 应用")
	ErrInvalidOAuthState       = apperr.NewValidationError("授权状态无效或已过期")
)
