package middleware

import (
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogWithLogger 创建访问日志中间件（支持依赖注入）
func AccessLogWithLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()

		timeCost := time.Since(startTime)

		log.Info(path,
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.String("url", path+"?"+query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, timeCost),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}
