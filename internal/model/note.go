package model

import "github.com/haierkeys/fast-note-keeper/pkg/timex"

// Note is the persisted JSON shape of a note inside a storage item value
// Note 笔记在存储值中的 JSON 结构
type Note struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Category     string     `json:"category"`
	CreationDate timex.Time `json:"creationDate"`
}
