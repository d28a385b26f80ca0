package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/realtime"
	"laboutique_erp_202610/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 后台与 API 不同域时由反向代理限制来源
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeController 后台 websocket 通知
type RealtimeController struct {
	hub      *realtime.Hub
	resolver middleware.StoreResolver
}

func NewRealtimeController(hub *realtime.Hub, resolver middleware.StoreResolver) *RealtimeController {
	return &RealtimeController{hub: hub, resolver: resolver}
}

// Connect 建立 websocket 连接
// 浏览器无法设置 Authorization 头，token 与店铺通过 query 传入
// @Summary 后台实时通知
// @Tags Realtime
// @Param token query string true "Access Token"
// @Param store query string false "店铺ID或标识，默认取 Token 中的店铺"
// @Success 101
// @Router /admin/ws [get]
func (c *RealtimeController) Connect(ctx *gin.Context) {
	claims, err := middleware.ParseToken(ctx.Query("token"))
	if err != nil || claims.Subject != "access" || claims.Kind != middleware.KindStaff {
		ctx.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Token 无效或已过期"})
		return
	}

	key := ctx.Query("store")
	if key == "" && claims.StoreID > 0 {
		key = strconv.FormatInt(claims.StoreID, 10)
	}
	if key == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "缺少店铺标识"})
		return
	}
	store, err := c.resolver.Resolve(ctx.Request.Context(), key)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !claims.CanAccessStore(store.ID) {
		ctx.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "无权访问该店铺"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warn("[WS] 升级连接失败", zap.Error(err))
		return
	}

	client := realtime.NewClient(c.hub, conn, store.ID, claims.UserID)
	if !c.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	logger.Debug("[WS] 连接建立", zap.Int64("store_id", store.ID), zap.Int64("user_id", claims.UserID))

	go client.WritePump()
	go client.ReadPump()
}
