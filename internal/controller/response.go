package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/logger"
)

// ==================== 统一响应 ====================

func respondOK(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

func respondCreated(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

// respondError 业务错误按 AppError 的状态码返回，5xx 记录内部原因
func respondError(ctx *gin.Context, err error) {
	ae := apperr.FromError(err)
	if ae.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("[API] 请求处理失败",
			zap.String("path", ctx.FullPath()),
			zap.String("code", ae.Code),
			zap.Error(err),
		)
	}
	ctx.JSON(ae.HTTPStatus, gin.H{
		"code":    ae.HTTPStatus,
		"error":   ae.Code,
		"message": ae.Message,
	})
}

func respondBadRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": "参数错误: " + err.Error(),
	})
}

// ==================== 参数解析 ====================

// pathID 解析路径参数中的 ID，失败时已写入 400
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的 " + name,
		})
		return 0, false
	}
	return id, true
}
