package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// SendContent writes content atomically (temp file + rename) and stamps modTime
// SendContent 以临时文件 + 重命名的方式原子写入，并设置修改时间
func (p *LocalFS) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	dst, err := p.path(fileKey)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "local_fs")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(dst, modTime, modTime); err != nil {
			return "", errors.Wrap(err, "local_fs")
		}
	}
	return dst, nil
}

// List returns regular file names under the root, sorted
// List 返回根目录下的文件名（已排序）
func (p *LocalFS) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && e.Name()[0] != '.' {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	dst, err := p.path(fileKey)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}
