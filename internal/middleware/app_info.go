package middleware

import (
	"github.com/haierkeys/fast-note-keeper/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 注入应用名称与版本，并在响应头中返回
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))
		c.Header("X-App-Version", version)

		c.Next()
	}
}
