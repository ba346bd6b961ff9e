package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "a", "b", "notes.json")

	require.NoError(t, WriteFile(dst, []byte("[]")))
	assert.True(t, IsExist(dst))
	assert.True(t, IsDir(filepath.Join(dir, "a", "b")))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestGetAbsPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "config.yaml"), []byte("x")))

	p, err := GetAbsPath("config.yaml", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p)

	_, err = GetAbsPath("missing.yaml", dir)
	assert.Error(t, err)
}

func TestPathSuffixCheckAdd(t *testing.T) {
	assert.Equal(t, "backup/", PathSuffixCheckAdd("backup", "/"))
	assert.Equal(t, "backup/", PathSuffixCheckAdd("backup/", "/"))
}
