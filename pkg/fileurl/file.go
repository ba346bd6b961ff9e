// Package fileurl holds small path helpers shared by the database engine, config loader and export command
// Package fileurl 路径辅助函数，供数据库、配置加载与导出命令使用
package fileurl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// IsDir 判断所给路径是否为文件夹
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// IsExist reports whether the path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的父目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}

// GetAbsPath resolves path against root (or the working directory when root is empty)
// and returns an error when the result does not exist.
// GetAbsPath 基于 root（为空时使用工作目录）解析绝对路径，路径不存在时返回错误
func GetAbsPath(path string, root string) (string, error) {
	realPath := path
	if !filepath.IsAbs(realPath) {
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, "getwd")
			}
			root = wd
		}
		realPath = filepath.Join(root, path)
	}
	if !IsExist(realPath) {
		return "", errors.Errorf("file not exists: %s", realPath)
	}
	return realPath, nil
}

// WriteFile writes content to dst, creating parent directories first
// WriteFile 写入文件，必要时先创建父目录
func WriteFile(dst string, content []byte) error {
	if err := CreatePath(dst, 0o755); err != nil {
		return errors.Wrap(err, "create path")
	}
	return errors.Wrap(os.WriteFile(dst, content, 0o644), "write file")
}
