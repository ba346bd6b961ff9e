package upgrade

import (
	"context"
	"strings"

	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/model"
	"github.com/haierkeys/fast-note-keeper/pkg/timex"

	"gorm.io/gorm"
)

// StorageItemMigrate creates the key/value table holding the note collections
// StorageItemMigrate 创建保存笔记集合的键值表
type StorageItemMigrate struct{}

func (m *StorageItemMigrate) Version() string {
	return "0.0.1"
}

func (m *StorageItemMigrate) Description() string {
	return "create storage_item table"
}

func (m *StorageItemMigrate) Up(_ context.Context, tx *gorm.DB) error {
	return model.AutoMigrate(tx, "StorageItem")
}

// NullCollectionMigrate rewrites empty or null collection documents as []
// NullCollectionMigrate 将为空或 null 的集合文档改写为 []
type NullCollectionMigrate struct{}

func (m *NullCollectionMigrate) Version() string {
	return "0.1.0"
}

func (m *NullCollectionMigrate) Description() string {
	return "normalize null note collections"
}

func (m *NullCollectionMigrate) Up(_ context.Context, tx *gorm.DB) error {
	var items []model.StorageItem
	err := tx.Where("storage_key IN ?", []string{domain.StorageKeyActive, domain.StorageKeyArchive}).Find(&items).Error
	if err != nil {
		return err
	}
	for _, item := range items {
		v := strings.TrimSpace(item.Value)
		if v != "" && v != "null" {
			continue
		}
		err := tx.Model(&model.StorageItem{}).
			Where("storage_key = ?", item.Key).
			Updates(map[string]any{"storage_value": "[]", "updated_at": timex.Now()}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
