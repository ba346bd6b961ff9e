package webdav

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"
)

func newTestClient(t *testing.T) *WebDAV {
	t.Helper()
	srv := httptest.NewServer(&xwebdav.Handler{
		FileSystem: xwebdav.NewMemFS(),
		LockSystem: xwebdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Endpoint: srv.URL, CustomPath: "backup"})
	require.NoError(t, err)
	return c
}

func TestWebDAV_SendListDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p, err := c.SendContent(ctx, "notes-1.json", []byte(`{"active":[]}`), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/backup/notes-1.json", p)

	_, err = c.SendContent(ctx, "notes-0.json", []byte(`{}`), time.Now())
	require.NoError(t, err)

	data, err := c.Client.Read(p)
	require.NoError(t, err)
	assert.Equal(t, `{"active":[]}`, string(data))

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-0.json", "notes-1.json"}, names)

	require.NoError(t, c.Delete(ctx, "notes-0.json"))
	names, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-1.json"}, names)
}
