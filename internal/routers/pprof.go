package routers

import (
	"net/http"
	"net/http/pprof"

	"github.com/haierkeys/fast-note-keeper/internal/middleware"
	"github.com/haierkeys/fast-note-keeper/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// DefaultPrefix url prefix of pprof
const DefaultPrefix = "/debug/pprof"

// NewPrivateRouterWithLogger creates the private router serving metrics, expvar and, in debug mode, pprof
// NewPrivateRouterWithLogger 创建私有路由：metrics、expvar，debug 模式下额外挂载 pprof
func NewPrivateRouterWithLogger(runMode string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	if runMode == gin.DebugMode {
		r.Use(gin.Recovery())
	} else {
		r.Use(middleware.RecoveryWithLogger(logger))
	}

	// prom监控
	r.GET("/debug/vars", api_router.Expvar)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if runMode == gin.DebugMode {
		p := r.Group(DefaultPrefix)
		{
			p.GET("/", pprofHandler(pprof.Index))
			p.GET("/cmdline", pprofHandler(pprof.Cmdline))
			p.GET("/profile", pprofHandler(pprof.Profile))
			p.POST("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/trace", pprofHandler(pprof.Trace))
			for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
				p.GET("/"+name, pprofHandler(pprof.Handler(name).ServeHTTP))
			}
		}
	}

	return r
}

func pprofHandler(h http.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
