package dao

import (
	"context"

	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/model"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// noteStateRepository encodes note collections as JSON arrays on top of a StorageRepository
// noteStateRepository 将笔记集合编码为 JSON 数组存入 StorageRepository
type noteStateRepository struct {
	store domain.StorageRepository
}

// NewNoteStateRepository 创建 NoteStateRepository 实例
func NewNoteStateRepository(store domain.StorageRepository) domain.NoteStateRepository {
	return &noteStateRepository{store: store}
}

// toDomain 将存储模型转换为领域模型
func (r *noteStateRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:           m.ID,
		Title:        m.Title,
		Slug:         m.Slug,
		Content:      m.Content,
		Category:     m.Category,
		CreationDate: m.CreationDate,
	}
}

// toModel 将领域模型转换为存储模型
func (r *noteStateRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		ID:           n.ID,
		Title:        n.Title,
		Slug:         n.Slug,
		Content:      n.Content,
		Category:     n.Category,
		CreationDate: n.CreationDate,
	}
}

// Encode 将笔记列表编码为 JSON 数组，nil 编码为 []
func (r *noteStateRepository) Encode(notes []*domain.Note) ([]byte, error) {
	list := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		list = append(list, r.toModel(n))
	}
	return sonic.Marshal(list)
}

// Decode 解析 JSON 数组，忽略 null 元素
func (r *noteStateRepository) Decode(data []byte) ([]*domain.Note, error) {
	var list []*model.Note
	if err := sonic.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		notes = append(notes, r.toDomain(m))
	}
	return notes, nil
}

// Load 读取集合
func (r *noteStateRepository) Load(ctx context.Context, key string) ([]*domain.Note, bool, error) {
	data, found, err := r.store.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	notes, err := r.Decode(data)
	if err != nil {
		return nil, true, errors.Wrapf(err, "decode notes under key %s", key)
	}
	return notes, true, nil
}

// Save 保存单个集合
func (r *noteStateRepository) Save(ctx context.Context, key string, notes []*domain.Note) error {
	return r.SaveState(ctx, map[string][]*domain.Note{key: notes})
}

// SaveState 在同一事务中保存多个集合
func (r *noteStateRepository) SaveState(ctx context.Context, collections map[string][]*domain.Note) error {
	values := make(map[string][]byte, len(collections))
	for key, notes := range collections {
		data, err := r.Encode(notes)
		if err != nil {
			return errors.Wrapf(err, "encode notes under key %s", key)
		}
		values[key] = data
	}
	return r.store.SetMany(ctx, values)
}

var _ domain.NoteStateRepository = (*noteStateRepository)(nil)
