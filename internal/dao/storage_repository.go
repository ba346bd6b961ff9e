package dao

import (
	"context"
	"sort"
	"sync"

	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/model"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	"github.com/haierkeys/fast-note-keeper/pkg/timex"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// writeGroup 所有笔记键共用一个写队列，保证 active/archive 的写入顺序一致
const writeGroup = "notes"

// storageRepository 实现 domain.StorageRepository 接口
type storageRepository struct {
	dao *Dao

	once       sync.Once
	migrateErr error
}

// NewStorageRepository 创建 StorageRepository 实例
func NewStorageRepository(dao *Dao) domain.StorageRepository {
	return &storageRepository{dao: dao}
}

// migrate 首次访问时建表
func (r *storageRepository) migrate(ctx context.Context) error {
	r.once.Do(func() {
		r.migrateErr = model.AutoMigrate(r.dao.DB(ctx), "StorageItem")
		if r.migrateErr != nil {
			r.dao.Logger().Error("auto migrate storage item failed", zap.Error(r.migrateErr))
		}
	})
	return r.migrateErr
}

// Get 读取键对应的值
func (r *storageRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := r.migrate(ctx); err != nil {
		return nil, false, errors.Wrap(err, "migrate storage item")
	}

	var m model.StorageItem
	err := r.dao.DB(ctx).Where("storage_key = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get storage key %s", key)
	}
	return []byte(m.Value), true, nil
}

// Set 写入单个键
func (r *storageRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany upserts all values in one transaction
// SetMany 在同一事务中写入多个键
func (r *storageRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	if err := r.migrate(ctx); err != nil {
		return errors.Wrap(err, "migrate storage item")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := r.dao.ExecuteWrite(ctx, writeGroup, func(tx *gorm.DB) error {
		now := timex.Now()
		for _, k := range keys {
			m := &model.StorageItem{
				Key:       k,
				Value:     string(values[k]),
				CreatedAt: now,
				UpdatedAt: now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "storage_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"storage_value", "updated_at"}),
			}).Create(m).Error
			if err != nil {
				return errors.Wrapf(err, "save storage key %s", k)
			}
		}
		return nil
	})
	if err != nil {
		r.dao.Logger().Warn("storage write failed",
			zap.Strings(logger.FieldKey, keys),
			zap.String(logger.FieldMethod, "storageRepository.SetMany"),
			zap.Error(err))
		return err
	}
	return nil
}

// 确保 storageRepository 实现了 domain.StorageRepository 接口
var _ domain.StorageRepository = (*storageRepository)(nil)
