package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"30", 30 * time.Second},
		{"1h30m", 90 * time.Minute},
		{" 5s ", 5 * time.Second},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestBackupFileName(t *testing.T) {
	ts := time.Date(2024, 3, 5, 8, 9, 10, 0, time.UTC)
	assert.Equal(t, "notes-20240305080910.json", BackupFileName("notes", ts))
}
