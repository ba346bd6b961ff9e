package local_fs

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
	root   string
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is required")
	}
	root, err := filepath.Abs(filepath.Join(conf.SavePath, conf.CustomPath))
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return &LocalFS{Config: conf, root: root}, nil
}

// Root 备份根目录
func (p *LocalFS) Root() string {
	return p.root
}

func (p *LocalFS) path(fileKey string) (string, error) {
	dst := filepath.Join(p.root, filepath.FromSlash(fileKey))
	rel, err := filepath.Rel(p.root, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("local_fs: key %q escapes save path", fileKey)
	}
	return dst, nil
}
