// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/service"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	"github.com/haierkeys/fast-note-keeper/pkg/storage"
	"github.com/haierkeys/fast-note-keeper/pkg/util"
	"github.com/haierkeys/fast-note-keeper/pkg/workerpool"
	"github.com/haierkeys/fast-note-keeper/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database dao.Config     `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Note     NoteConfig     `yaml:"note"`
	Backup   BackupConfig   `yaml:"backup"`
	Storage  storage.Config `yaml:"storage"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时输出到 stderr
	File string `yaml:"file"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug/release/test
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics/pprof），为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"10"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// Prepopulate 无存储数据时使用示例笔记
	Prepopulate bool `yaml:"prepopulate"`

	// 限流：每个接口的令牌桶
	RateLimitFillInterval string `yaml:"rate-limit-fill-interval" default:"1s"`
	RateLimitCapacity     int64  `yaml:"rate-limit-capacity" default:"100"`
	RateLimitQuantum      int64  `yaml:"rate-limit-quantum" default:"100"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// NoteConfig 笔记配置
type NoteConfig struct {
	// Categories 可选分类，第一个为默认分类
	Categories []string `yaml:"categories" default:"[\"Task\",\"Random Thought\",\"Idea\",\"Quote\"]"`
}

// BackupConfig 备份配置
type BackupConfig struct {
	// IsEnabled 是否启用定时备份
	IsEnabled bool `yaml:"is-enable"`
	// Cron 备份计划，标准 5 段 cron 表达式或 @every 1h 等描述符
	Cron string `yaml:"cron" default:"0 3 * * *"`
	// Keep 保留的快照数量，0 表示全部保留
	Keep int `yaml:"keep" default:"7"`
	// Prefix 快照文件名前缀
	Prefix string `yaml:"prefix" default:"notes"`
	// RunOnStart 启动时立即执行一次
	RunOnStart bool `yaml:"run-on-start"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig parses YAML content with defaults applied
// ParseConfig 解析 YAML 内容并填充默认值
func ParseConfig(content []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	if _, err := util.ParseDuration(c.App.RateLimitFillInterval); err != nil {
		return nil, errors.Wrap(err, "invalid app.rate-limit-fill-interval")
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}
	if c.App.WriteQueueIdleTime != "" {
		if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil {
			cfg.IdleTimeout = idleTime
		}
	}

	return cfg
}

// GetServiceConfig 从 AppConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		Note: service.NoteServiceConfig{
			Categories:  append([]string(nil), c.Note.Categories...),
			Prepopulate: c.App.Prepopulate,
		},
		Backup: service.BackupServiceConfig{
			IsEnabled: c.Backup.IsEnabled,
			Prefix:    c.Backup.Prefix,
			Keep:      c.Backup.Keep,
		},
	}
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetPaginationConfig 获取分页配置
func (c *AppConfig) GetPaginationConfig() pkgapp.PaginationConfig {
	return pkgapp.PaginationConfig{
		DefaultPageSize: c.App.DefaultPageSize,
		MaxPageSize:     c.App.MaxPageSize,
	}
}

// GetContextTimeout 获取请求上下文超时时间
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetRateLimitFillInterval 获取令牌桶填充间隔
func (c *AppConfig) GetRateLimitFillInterval() time.Duration {
	if d, err := util.ParseDuration(c.App.RateLimitFillInterval); err == nil {
		return d
	}
	return time.Second // 理论上不会走到这里，ParseConfig 已校验
}
