package api_router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/app"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
	apperrors "github.com/haierkeys/fast-note-keeper/pkg/errors"
	"github.com/haierkeys/fast-note-keeper/pkg/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler 快照导出与备份处理器
type BackupHandler struct {
	*Handler
}

// NewBackupHandler 创建 BackupHandler 实例
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{Handler: NewHandler(a)}
}

// Export 下载两个集合的 JSON 快照
// @Router /api/notes/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	data, _, err := h.App.BackupService.Export(ctx)
	if err != nil {
		h.logError(ctx, "BackupHandler.Export", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	name := util.BackupFileName("notes", time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Run 立即执行一次备份
// @Router /api/backup [post]
func (h *BackupHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.App.BackupService.Run(ctx)
	if err != nil {
		h.logError(ctx, "BackupHandler.Run", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(result))
}
