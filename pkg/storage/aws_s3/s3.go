package aws_s3

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	// Endpoint optional, for S3 compatible services (MinIO, R2 ...)
	// Endpoint 可选，用于兼容 S3 的服务
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		s.logger = logger
	}
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*S3)
)

// NewClient 创建 S3 存储实例，同一 endpoint/bucket/key 复用客户端
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket-name is required")
	}

	cacheKey := conf.Endpoint + "|" + conf.BucketName + "|" + conf.AccessKeyID + "|" + conf.CustomPath

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	c := &S3{
		S3Client: client,
		Config:   conf,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	clients[cacheKey] = c
	return c, nil
}
