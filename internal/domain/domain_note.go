// Package domain 定义领域模型和接口
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-keeper/pkg/timex"
)

// Storage keys the two collections are persisted under
// 两个集合的持久化存储键
const (
	StorageKeyActive  = "active"
	StorageKeyArchive = "archive"
)

const (
	// TitleMaxLength 标题最大字符数
	TitleMaxLength = 100
	// ContentMaxLength 内容最大字符数
	ContentMaxLength = 500
)

// ErrInvalidNote is the single validation failure kind of note construction
// ErrInvalidNote 笔记构造的唯一校验错误类型
var ErrInvalidNote = errors.New("invalid title/content")

// ValidationError lists the form fields that failed. It matches ErrInvalidNote via errors.Is.
// ValidationError 列出校验失败的表单字段，可通过 errors.Is 匹配 ErrInvalidNote
type ValidationError struct {
	Fields []string
	// DuplicateSlug 标题生成的 slug 与其他活动笔记冲突
	DuplicateSlug bool
}

func (e *ValidationError) Error() string {
	if e.DuplicateSlug {
		return ErrInvalidNote.Error() + ": duplicate title"
	}
	return ErrInvalidNote.Error() + ": " + strings.Join(e.Fields, ",")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidNote
}

// Note 笔记领域模型
type Note struct {
	ID           int64
	Title        string
	Slug         string
	Content      string
	Category     string
	CreationDate timex.Time
}

// Clone 复制笔记
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

// NoteForm raw form input
// NoteForm 表单原始输入
type NoteForm struct {
	Title    string
	Content  string
	Category string
}

// NewNote validates form and builds a note with the given id and creation date.
// The derived slug must not collide with another active note (same id excluded).
// NewNote 校验表单并构造笔记，生成的 slug 不能与其他活动笔记冲突（同 id 除外）
func NewNote(active []*Note, form NoteForm, id int64, created timex.Time) (*Note, error) {
	title := strings.TrimSpace(form.Title)
	content := strings.TrimSpace(form.Content)
	slug := Slugify(title)

	var fields []string
	if title == "" || slug == "" || utf8.RuneCountInString(title) > TitleMaxLength {
		fields = append(fields, "title")
	}
	// 内容可为空，只限制长度
	if utf8.RuneCountInString(content) > ContentMaxLength {
		fields = append(fields, "content")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	for _, n := range active {
		if n.Slug == slug && n.ID != id {
			return nil, &ValidationError{Fields: []string{"title"}, DuplicateSlug: true}
		}
	}

	return &Note{
		ID:           id,
		Title:        title,
		Slug:         slug,
		Content:      content,
		Category:     strings.TrimSpace(form.Category),
		CreationDate: created,
	}, nil
}
