package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers a failure code. Duplicate codes panic at init time.
// NewError 注册错误码，重复注册会在初始化阶段 panic
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code.
// NewSuss 注册成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	c := &Code{
		code:        e.code,
		status:      e.status,
		Lang:        e.Lang,
		data:        e.data,
		haveData:    e.haveData,
		haveDetails: e.haveDetails,
	}
	if len(e.details) > 0 {
		c.details = append([]string{}, e.details...)
	}
	return c
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData returns a copy carrying data, the registered code stays untouched.
// WithData 返回携带数据的副本，不修改已注册的全局错误码
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails 返回携带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// Is reports whether target carries the same code number.
// Lets errors.Is match copies produced by WithData/WithDetails.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code
}

func (e *Code) StatusCode() int {
	return http.StatusOK
}
