package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// BackupFileName returns the snapshot file name for t, e.g. notes-20240305080910.json
// BackupFileName 返回备份快照文件名
func BackupFileName(prefix string, t time.Time) string {
	return prefix + "-" + t.Format("20060102150405") + ".json"
}
