package service

import (
	"context"

	"github.com/haierkeys/fast-note-keeper/internal/dto"
)

// Note event actions, also used as websocket frame types
// 笔记事件类型，同时作为 WebSocket 消息类型
const (
	NoteActionCreate    = "NoteCreate"
	NoteActionUpdate    = "NoteUpdate"
	NoteActionDelete    = "NoteDelete"
	NoteActionArchive   = "NoteArchive"
	NoteActionUnarchive = "NoteUnarchive"
)

// NoteEvent is emitted after a mutation has been persisted
// NoteEvent 变更持久化成功后发出的事件
type NoteEvent struct {
	// Seq increases by one per committed mutation of a service instance.
	// Subscribers run after the lock is released, so delivery order may differ from Seq order.
	Seq    uint64
	Action string
	Slug   string
	Note   *dto.NoteDTO
	// Active/Archive 变更后的集合大小
	Active  int
	Archive int
}

// ToDTO 转换为推送结构
func (e NoteEvent) ToDTO() *dto.NoteEventDTO {
	return &dto.NoteEventDTO{Seq: e.Seq, Action: e.Action, Slug: e.Slug, Note: e.Note}
}

// NoteSubscriber receives note events. It is called outside the state lock and must not block.
// Concurrent mutations may reach a subscriber out of order; use NoteEvent.Seq to restore commit order.
// NoteSubscriber 接收笔记事件，在状态锁之外调用，不应阻塞
type NoteSubscriber func(ctx context.Context, event NoteEvent)
