package api_router

import (
	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
	apperrors "github.com/haierkeys/fast-note-keeper/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

func (h *NoteHandler) pager(c *gin.Context) *pkgapp.Pager {
	return &pkgapp.Pager{
		Page:     pkgapp.GetPage(c),
		PageSize: pkgapp.GetPageSizeWithConfig(c, h.App.Config().GetPaginationConfig()),
	}
}

func (h *NoteHandler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error(method+".BindAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// List 活动笔记列表
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	pager := h.pager(c)
	list, total, err := h.App.NoteService.ListActive(ctx, pager)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, pager, total)
}

// ListArchive 归档笔记列表
// @Router /api/notes/archive [get]
func (h *NoteHandler) ListArchive(c *gin.Context) {
	ctx := c.Request.Context()
	pager := h.pager(c)
	list, total, err := h.App.NoteService.ListArchive(ctx, pager)
	if err != nil {
		h.logError(ctx, "NoteHandler.ListArchive", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, pager, total)
}

// Summary 分类统计
// @Router /api/notes/summary [get]
func (h *NoteHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	summary, err := h.App.NoteService.Summary(ctx)
	if err != nil {
		h.logError(ctx, "NoteHandler.Summary", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(summary))
}

// Categories 可用分类
// @Router /api/categories [get]
func (h *NoteHandler) Categories(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.NoteService.Categories()))
}

// Get 按 slug 获取活动笔记
// @Router /api/note [get]
func (h *NoteHandler) Get(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Get", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, params.Slug)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Set creates a note, or replaces the active note carrying the same id
// Set 创建笔记，携带 id 时按 id 替换
// @Router /api/note [post]
func (h *NoteHandler) Set(c *gin.Context) {
	params := &dto.NoteSetRequest{}
	if !h.bind(c, "NoteHandler.Set", params) {
		return
	}

	ctx := c.Request.Context()
	note, replaced, err := h.App.NoteService.Set(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Set", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	if replaced {
		pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(note))
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(note))
}

// Update 按 slug 编辑活动笔记
// @Router /api/note [put]
func (h *NoteHandler) Update(c *gin.Context) {
	params := &dto.NoteUpdateRequest{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Update(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(note))
}

// Delete 按 slug 删除活动笔记
// @Router /api/note [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Delete", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Delete(ctx, params.Slug)
	if err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete.WithData(note))
}

// Archive 归档活动笔记
// @Router /api/note/archive [put]
func (h *NoteHandler) Archive(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Archive", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Archive(ctx, params.Slug)
	if err != nil {
		h.logError(ctx, "NoteHandler.Archive", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessArchive.WithData(note))
}

// Unarchive 从归档恢复笔记
// @Router /api/note/unarchive [put]
func (h *NoteHandler) Unarchive(c *gin.Context) {
	params := &dto.NoteSlugRequest{}
	if !h.bind(c, "NoteHandler.Unarchive", params) {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Unarchive(ctx, params.Slug)
	if err != nil {
		h.logError(ctx, "NoteHandler.Unarchive", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUnarchive.WithData(note))
}
