package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	assert.Equal(t, now.Unix(), tt.Unix())
	assert.Equal(t, now.UnixMilli(), tt.UnixMilli())
	assert.Equal(t, now.UnixMicro(), tt.UnixMicro())
	assert.Equal(t, now.UnixNano(), tt.UnixNano())
}

func TestTime_JSON(t *testing.T) {
	tt := Time(time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local))

	b, err := tt.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05 08:09:10"`, string(b))

	var back Time
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, tt.Equal(back))
}

func TestTime_UnmarshalVariants(t *testing.T) {
	var tt Time

	require.NoError(t, tt.UnmarshalJSON([]byte(`"2024-03-05T08:09:10Z"`)))
	assert.Equal(t, int64(1709626150), tt.Unix())

	require.NoError(t, tt.UnmarshalJSON([]byte(`1709626150000`)))
	assert.Equal(t, int64(1709626150), tt.Unix())

	require.NoError(t, tt.UnmarshalJSON([]byte(`null`)))
	assert.True(t, tt.IsZero())

	assert.Error(t, tt.UnmarshalJSON([]byte(`"yesterday"`)))
}

func TestTime_ZeroMarshalsEmpty(t *testing.T) {
	b, err := Time{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}
