package middleware

import (
	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler
// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
