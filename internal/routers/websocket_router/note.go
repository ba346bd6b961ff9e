// Package websocket_router pushes note changes to websocket clients and answers their queries
// Package websocket_router 向 WebSocket 客户端推送笔记变更并响应查询
package websocket_router

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	"github.com/haierkeys/fast-note-keeper/internal/service"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Incoming message types
// 客户端消息类型
const (
	NoteList = "NoteList"
	NoteGet  = "NoteGet"
)

// NoteWSHandler WebSocket 笔记处理器
type NoteWSHandler struct {
	App *app.App
	WSS *pkgapp.WebsocketServer
}

// NewNoteWSHandler 创建 NoteWSHandler 实例
func NewNoteWSHandler(a *app.App, wss *pkgapp.WebsocketServer) *NoteWSHandler {
	return &NoteWSHandler{App: a, WSS: wss}
}

// Register 注册消息处理器并订阅笔记事件
func (h *NoteWSHandler) Register() {
	h.WSS.Use(NoteList, h.NoteList)
	h.WSS.Use(NoteGet, h.NoteGet)
	h.App.NoteService.Subscribe(h.Broadcast)
}

// Broadcast queues an "Action|json" push of event to every client on the worker pool
// Broadcast 通过 Worker Pool 异步向所有客户端推送 "Action|json" 消息
func (h *NoteWSHandler) Broadcast(ctx context.Context, event service.NoteEvent) {
	if h.WSS.Count() == 0 {
		return
	}
	payload := code.Success.WithData(event.ToDTO())
	err := h.App.SubmitTaskAsync(context.WithoutCancel(ctx), "note.broadcast", func(context.Context) error {
		return h.WSS.Broadcast(event.Action, payload)
	})
	if err != nil {
		h.App.Logger().Warn("note broadcast dropped",
			zap.String(logger.FieldAction, event.Action),
			zap.String(logger.FieldSlug, event.Slug),
			zap.Error(err))
	}
}

// NoteList 返回全部活动笔记
func (h *NoteWSHandler) NoteList(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	list, _, err := h.App.NoteService.ListActive(context.Background(), nil)
	if err != nil {
		h.respondError(c, msg.Type, err)
		return
	}
	_ = c.ToResponse(code.Success.WithData(list), msg.Type)
}

// NoteGet 按 slug 返回活动笔记，消息体为 {"slug":"..."}
func (h *NoteWSHandler) NoteGet(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteSlugRequest{}
	if err := sonic.Unmarshal(msg.Data, params); err != nil || params.Slug == "" {
		_ = c.ToResponse(code.ErrorInvalidParams.WithDetails("slug is required"), msg.Type)
		return
	}
	note, err := h.App.NoteService.Get(context.Background(), params.Slug)
	if err != nil {
		h.respondError(c, msg.Type, err)
		return
	}
	_ = c.ToResponse(code.Success.WithData(note), msg.Type)
}

func (h *NoteWSHandler) respondError(c *pkgapp.WebsocketClient, action string, err error) {
	var codeErr *code.Code
	if !errors.As(err, &codeErr) {
		h.App.Logger().Error("websocket "+action, zap.Error(err))
		codeErr = code.ErrorServerInternal
	}
	_ = c.ToResponse(codeErr, action)
}
