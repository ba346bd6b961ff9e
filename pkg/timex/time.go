package timex

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout JSON 序列化使用的时间格式
const Layout = "2006-01-02 15:04:05"

// Time wraps time.Time with a fixed JSON layout
// Time 封装 time.Time，使用固定格式进行 JSON 序列化
type Time time.Time

// Now 当前时间，精度截断到秒，与序列化格式一致
func Now() Time {
	return Time(time.Now().Truncate(time.Second))
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) Equal(u Time) bool {
	return time.Time(t).Equal(time.Time(u))
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	b := make([]byte, 0, len(Layout)+2)
	b = append(b, '"')
	b = time.Time(t).AppendFormat(b, Layout)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON accepts the Layout string, RFC3339, or unix milliseconds
// UnmarshalJSON 支持 Layout 格式、RFC3339 以及毫秒时间戳
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	if !strings.HasPrefix(s, `"`) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("timex: invalid time %s", s)
		}
		*t = Time(time.UnixMilli(ms))
		return nil
	}
	s = strings.Trim(s, `"`)
	if v, err := time.ParseInLocation(Layout, s, time.Local); err == nil {
		*t = Time(v)
		return nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("timex: invalid time %q", s)
	}
	*t = Time(v)
	return nil
}

// Value implements driver.Valuer
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan implements sql.Scanner
func (t *Time) Scan(v interface{}) error {
	switch val := v.(type) {
	case nil:
		*t = Time{}
	case time.Time:
		*t = Time(val)
	case string:
		return t.UnmarshalJSON([]byte(strconv.Quote(val)))
	case []byte:
		return t.UnmarshalJSON([]byte(strconv.Quote(string(val))))
	default:
		return fmt.Errorf("timex: cannot scan %T", v)
	}
	return nil
}
