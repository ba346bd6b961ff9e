// Package model 定义数据模型
package model

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate migrates the table registered under key
// AutoMigrate 按名称迁移数据表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "StorageItem":
		return db.AutoMigrate(&StorageItem{})
	case "SchemaVersion":
		return db.AutoMigrate(&SchemaVersion{})
	}
	return errors.Errorf("unknown model %s", key)
}
