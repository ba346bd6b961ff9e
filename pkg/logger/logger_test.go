package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	lg, err := NewLogger(Config{Level: "info", File: file, Production: true})
	require.NoError(t, err)

	lg.Info("note archived")
	lg.Debug("hidden")
	require.NoError(t, lg.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"note archived"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}
