// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/fast-note-keeper/pkg/timex"

// NoteDTO Note data transfer object, same JSON shape as the persisted note
// NoteDTO 笔记数据传输对象，JSON 结构与持久化格式一致
type NoteDTO struct {
	ID           int64      `json:"id" form:"id"`
	Title        string     `json:"title" form:"title"`
	Slug         string     `json:"slug" form:"slug"`
	Content      string     `json:"content" form:"content"`
	Category     string     `json:"category" form:"category"`
	CreationDate timex.Time `json:"creationDate" form:"creationDate"`
}

// NoteSetRequest Request parameters for creating a note, or replacing the note with the same id
// NoteSetRequest 创建笔记，或按 id 替换已有笔记的请求参数
type NoteSetRequest struct {
	ID       int64  `json:"id" form:"id" binding:"omitempty,gt=0"`
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category" binding:"category"`
}

// NoteUpdateRequest Request parameters for editing the active note with the given slug
// NoteUpdateRequest 按 slug 编辑活动笔记的请求参数
type NoteUpdateRequest struct {
	Slug     string `json:"slug" form:"slug" binding:"required"`
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category" binding:"category"`
}

// NoteSlugRequest Request parameters addressing a note by slug
// NoteSlugRequest 按 slug 定位笔记的请求参数
type NoteSlugRequest struct {
	Slug string `json:"slug" form:"slug" binding:"required"`
}

// CategorySummaryDTO per-category note counts
// CategorySummaryDTO 分类统计
type CategorySummaryDTO struct {
	Category string `json:"category"`
	Active   int    `json:"active"`
	Archived int    `json:"archived"`
}

// NotesExportDTO full snapshot of both collections
// NotesExportDTO 两个集合的完整快照
type NotesExportDTO struct {
	Active  []*NoteDTO `json:"active"`
	Archive []*NoteDTO `json:"archive"`
}

// NoteEventDTO websocket push payload of a note mutation
// NoteEventDTO 笔记变更的 WebSocket 推送内容
type NoteEventDTO struct {
	// Seq 提交顺序，客户端按此丢弃过期事件
	Seq    uint64   `json:"seq"`
	Action string   `json:"action"`
	Slug   string   `json:"slug"`
	Note   *NoteDTO `json:"note,omitempty"`
}
