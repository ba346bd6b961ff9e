package errors

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-note-keeper/internal/middleware"
	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 恒为 false，与成功响应结构保持一致
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError，消息按 language 输出
func NewAppError(c *code.Code, language string, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Lang.GetMessageFor(language),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	c.JSON(http.StatusOK, ToAppError(c, err))
}

// ToAppError converts any error into the response shape, resolving the message in the request language.
// ToAppError 将任意错误转换为响应结构，消息按请求语言输出
func ToAppError(c *gin.Context, err error) *AppError {
	traceID := middleware.GetTraceIDFromGin(c)
	language := app.GetLang(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.WithTraceID(traceID)
	}

	// 检查是否是 Code 类型错误
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return NewAppError(codeErr, language, err).WithTraceID(traceID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewAppError(code.ErrorRequestTimeout, language, err).WithTraceID(traceID)
	}

	// 未知错误，返回内部错误
	return NewAppError(code.ErrorServerInternal, language, err).WithTraceID(traceID)
}
