package limiter

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// MethodLimiter limits by HTTP method and request path, one bucket per route.
// Keys look like "POST /api/note".
// MethodLimiter 按请求方法与路径限流
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return &MethodLimiter{
		Limiter: &Limiter{limiterBuckets: make(map[string]*ratelimit.Bucket)},
	}
}

// RouteKey builds the bucket key for method and path
func RouteKey(method, path string) string {
	return method + " " + path
}

func (l *MethodLimiter) Key(c *gin.Context) string {
	uri := c.Request.RequestURI
	if index := strings.Index(uri, "?"); index != -1 {
		uri = uri[:index]
	}
	return RouteKey(c.Request.Method, uri)
}

func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.addBuckets(rules...)
	return l
}
