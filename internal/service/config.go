// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Note   NoteServiceConfig   // Note related config // 笔记相关配置
	Backup BackupServiceConfig // Backup related config // 备份相关配置
}

// NoteServiceConfig note service configuration
// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	Categories  []string // Allowed categories, the first one is the default // 允许的分类，第一个为默认分类
	Prepopulate bool     // Seed demo notes when nothing is stored // 无存储数据时填充示例笔记
}

// BackupServiceConfig backup service configuration
// BackupServiceConfig 备份服务配置
type BackupServiceConfig struct {
	IsEnabled bool   // Whether backup is enabled // 是否启用备份
	Prefix    string // Snapshot file name prefix // 快照文件名前缀
	Keep      int    // Snapshots to keep, 0 keeps all // 保留快照数量，0 表示全部保留
}

// DefaultCategories 默认分类
var DefaultCategories = []string{"Task", "Random Thought", "Idea", "Quote"}
