package storage

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/storage/aws_s3"
	"github.com/haierkeys/fast-note-keeper/pkg/storage/local_fs"
	"github.com/haierkeys/fast-note-keeper/pkg/storage/webdav"

	"go.uber.org/zap"
)

type Type = string

const S3 Type = "s3"
const LOCAL Type = "localfs"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	S3:     true,
	LOCAL:  true,
	WebDAV: true,
}

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	IsEnabled  bool   `yaml:"is-enable"`
	CustomPath string `yaml:"custom-path" default:"backup"`

	// S3 compatible storage
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage"`
}

// Storager stores backup snapshots. Keys are relative to the configured custom path.
// Storager 备份快照存储接口，key 相对于配置的 custom-path
type Storager interface {
	SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, fileKey string) error
}

var (
	_ Storager = (*local_fs.LocalFS)(nil)
	_ Storager = (*aws_s3.S3)(nil)
	_ Storager = (*webdav.WebDAV)(nil)
)

// NewClient builds the Storager for config.Type
// NewClient 根据存储类型创建客户端
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil || !StorageTypeMap[config.Type] {
		return nil, code.ErrorInvalidStorageType
	}
	if !config.IsEnabled {
		return nil, code.ErrorStorageDisabled
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, code.ErrorInvalidStorageType
}
