package webdav

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config 结构体用于存储 WebDAV 连接信息。
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 结构体表示 WebDAV 客户端。
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*WebDAV)
)

// NewClient 创建一个新的 WebDAV 客户端实例。
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}
	key := conf.Endpoint + "|" + conf.User + "|" + conf.CustomPath

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[key]; ok {
		return c, nil
	}

	c := &WebDAV{
		Client: gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password),
		Config: conf,
	}
	clients[key] = c
	return c, nil
}
