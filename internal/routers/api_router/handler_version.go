package api_router

import (
	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler version info API router handler
// VersionHandler 版本信息 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler creates VersionHandler instance
// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{
		Handler: NewHandler(a),
	}
}

// ServerVersion retrieves server version information
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	versionInfo := h.App.Version()
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.VersionDTO{
		Version:   versionInfo.Version,
		GitTag:    versionInfo.GitTag,
		BuildTime: versionInfo.BuildTime,
	}))
}
