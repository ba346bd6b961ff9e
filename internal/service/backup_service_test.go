package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/storage/local_fs"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRun_UploadsAndPrunes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	dir := t.TempDir()
	fs, err := local_fs.NewClient(&local_fs.Config{SavePath: dir, CustomPath: "backup"})
	require.NoError(t, err)

	svc := NewBackupService(f.svc, fs, &BackupServiceConfig{IsEnabled: true, Keep: 2}, nil).(*backupService)
	base := time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local)

	var last string
	for i := 0; i < 3; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		res, err := svc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Active)
		last = res.FileKey
		if i == 2 {
			assert.Equal(t, []string{"notes-20240305080910.json"}, res.Pruned)
		}
	}
	assert.Equal(t, "notes-20240305081110.json", last)

	keys, err := fs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-20240305081010.json", "notes-20240305081110.json"}, keys)

	data, err := os.ReadFile(filepath.Join(fs.Root(), last))
	require.NoError(t, err)
	var decoded map[string][]map[string]any
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Len(t, decoded["active"], 5)
	assert.Len(t, decoded["archive"], 0)
	assert.Equal(t, "shopping-list", decoded["active"][0]["slug"])
}

func TestBackupRun_Disabled(t *testing.T) {
	f := newFixture(t, false)

	_, err := NewBackupService(f.svc, nil, &BackupServiceConfig{IsEnabled: false}, nil).Run(context.Background())
	assert.ErrorIs(t, err, code.ErrorBackupDisabled)

	_, err = NewBackupService(f.svc, nil, &BackupServiceConfig{IsEnabled: true}, nil).Run(context.Background())
	assert.ErrorIs(t, err, code.ErrorStorageDisabled)
}

func TestExport(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Archive(context.Background(), "books")
	require.NoError(t, err)

	data, export, err := NewBackupService(f.svc, nil, nil, nil).Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, export.Active, 4)
	assert.Len(t, export.Archive, 1)
	assert.Contains(t, string(data), "2023-01-05 09:00:00")
}
