package dto

// VersionDTO version information for API response
// VersionDTO 版本信息 API 响应对象
type VersionDTO struct {
	Version   string `json:"version"`   // Current version // 当前版本
	GitTag    string `json:"gitTag"`    // Git tag // Git 标签
	BuildTime string `json:"buildTime"` // Build time // 构建时间
}

// HealthDTO health check response
// HealthDTO 健康检查响应
type HealthDTO struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
	Clients  int    `json:"clients"`
}

// BackupResultDTO result of one backup run
// BackupResultDTO 单次备份结果
type BackupResultDTO struct {
	FileKey  string   `json:"fileKey"`
	Location string   `json:"location"`
	Size     int      `json:"size"`
	Active   int      `json:"active"`
	Archive  int      `json:"archive"`
	Pruned   []string `json:"pruned,omitempty"`
}
