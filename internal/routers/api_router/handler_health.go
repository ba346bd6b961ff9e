package api_router

import (
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App, wss *pkgapp.WebsocketServer) *HealthHandler {
	return &HealthHandler{Handler: NewHandlerWithWSS(a, wss)}
}

// Check 健康检查接口，包括数据库连接
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response := dto.HealthDTO{
		Status:   "healthy",
		Uptime:   h.App.Uptime().Truncate(time.Second).String(),
		Database: "connected",
	}
	if h.WSS != nil {
		response.Clients = h.WSS.Count()
	}

	if h.App.IsShuttingDown() {
		response.Status = "shutting-down"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	if err := h.App.Ping(c.Request.Context()); err != nil {
		h.logError(c.Request.Context(), "HealthHandler.Check", err)
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
