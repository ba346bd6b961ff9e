package model

import "github.com/haierkeys/fast-note-keeper/pkg/timex"

// StorageItem one key of the key/value store holding a JSON document
// StorageItem 键值存储中的一条记录，值为 JSON 文档
type StorageItem struct {
	Key       string     `gorm:"column:storage_key;primaryKey;size:64" json:"key" form:"key"`
	Value     string     `gorm:"column:storage_value;size:16777216" json:"value" form:"value"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

func (*StorageItem) TableName() string {
	return "storage_item"
}
