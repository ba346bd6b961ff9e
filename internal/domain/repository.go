package domain

import "context"

// StorageRepository key/value persistence of the note collections
// StorageRepository 笔记集合的键值持久化仓储
type StorageRepository interface {
	// Get 读取键对应的值，键不存在时 found 为 false
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set 写入单个键
	Set(ctx context.Context, key string, value []byte) error

	// SetMany 在同一事务中写入多个键
	SetMany(ctx context.Context, values map[string][]byte) error
}

// NoteStateRepository loads and saves note collections by storage key
// NoteStateRepository 按存储键读写笔记集合
type NoteStateRepository interface {
	// Load 读取集合，键不存在时 found 为 false
	Load(ctx context.Context, key string) (notes []*Note, found bool, err error)

	// Save 保存单个集合
	Save(ctx context.Context, key string, notes []*Note) error

	// SaveState 在同一事务中保存多个集合
	SaveState(ctx context.Context, collections map[string][]*Note) error
}
