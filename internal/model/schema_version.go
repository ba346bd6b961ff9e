package model

import "github.com/haierkeys/fast-note-keeper/pkg/timex"

// SchemaVersion records the applied schema migration version
// SchemaVersion 记录已执行的数据库迁移版本
type SchemaVersion struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Version     string     `gorm:"column:version;size:32;not null;uniqueIndex" json:"version"`
	Description string     `gorm:"column:description;size:255" json:"description"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
}

func (*SchemaVersion) TableName() string {
	return "schema_version"
}
