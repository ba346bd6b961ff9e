package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey gin.Context 中存储 Trace ID 的键
	TraceIDKey = "trace_id"
)

type traceIDCtxKey struct{}

// TraceMiddlewareWithConfig 创建请求追踪中间件（支持依赖注入）
// 从请求头获取或生成 Trace ID，注入到 gin.Context 与 request.Context，并在响应头中返回
func TraceMiddlewareWithConfig(enabled bool, header string) gin.HandlerFunc {
	headerName := header
	if headerName == "" {
		headerName = DefaultTraceIDHeader
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		traceID := c.GetHeader(headerName)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(WithTraceID(c.Request.Context(), traceID))
		c.Header(headerName, traceID)

		c.Next()
	}
}

// WithTraceID 将 Trace ID 存入 context.Context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDCtxKey{}, traceID)
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id, exists := c.Get(TraceIDKey); exists {
		if traceID, ok := id.(string); ok {
			return traceID
		}
	}
	return ""
}
