package webdav

import (
	"context"
	"path"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

func (w *WebDAV) remotePath(fileKey string) string {
	return path.Join("/", w.Config.CustomPath, fileKey)
}

// SendContent 将内容上传到 WebDAV 服务器
func (w *WebDAV) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	dir := path.Join("/", w.Config.CustomPath)
	if err := w.Client.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	p := w.remotePath(fileKey)
	if err := w.Client.Write(p, content, 0o644); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return p, nil
}

// List 列出 custom-path 下的文件
func (w *WebDAV) List(ctx context.Context) ([]string, error) {
	infos, err := w.Client.ReadDir(path.Join("/", w.Config.CustomPath))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "webdav")
	}
	var names []string
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	if err := w.Client.Remove(w.remotePath(fileKey)); err != nil && !gowebdav.IsErrNotFound(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
