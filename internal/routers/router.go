package routers

import (
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/app"
	"github.com/haierkeys/fast-note-keeper/internal/middleware"
	"github.com/haierkeys/fast-note-keeper/internal/routers/api_router"
	"github.com/haierkeys/fast-note-keeper/internal/routers/websocket_router"
	pkgapp "github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
)

// newMethodLimiter gives every mutating route its own token bucket. Reads are not limited.
// newMethodLimiter 每个写接口一个令牌桶，读接口不限流
func newMethodLimiter(cfg *app.AppConfig) limiter.Face {
	var rules []limiter.BucketRule
	for _, route := range [][2]string{
		{http.MethodPost, "/api/note"},
		{http.MethodPut, "/api/note"},
		{http.MethodDelete, "/api/note"},
		{http.MethodPut, "/api/note/archive"},
		{http.MethodPut, "/api/note/unarchive"},
	} {
		rules = append(rules, limiter.BucketRule{
			Key:          limiter.RouteKey(route[0], route[1]),
			FillInterval: cfg.GetRateLimitFillInterval(),
			Capacity:     cfg.App.RateLimitCapacity,
			Quantum:      cfg.App.RateLimitQuantum,
		})
	}
	// 手动备份每分钟一次
	rules = append(rules, limiter.BucketRule{
		Key:          limiter.RouteKey(http.MethodPost, "/api/backup"),
		FillInterval: time.Minute,
		Capacity:     1,
		Quantum:      1,
	})
	return limiter.NewMethodLimiter().AddBuckets(rules...)
}

// NewRouter builds the public API engine. It returns the websocket server so callers can close clients on shutdown.
// NewRouter 构建对外 API 路由，同时返回 WebSocket 服务以便停机时关闭连接
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) (*gin.Engine, *pkgapp.WebsocketServer) {

	// 获取配置
	cfg := appContainer.Config()

	wss := pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:   true,
			Recovery:           gws.Recovery,                         // 开启异常恢复
			PermessageDeflate:  gws.PermessageDeflate{Enabled: true}, // 开启压缩
			ReadMaxPayloadSize: 1024 * 1024,
		},
	}, appContainer.Logger())

	websocket_router.NewNoteWSHandler(appContainer, wss).Register()
	appContainer.NoteService.Subscribe(api_router.RecordNoteEvent)

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(middleware.RateLimiter(newMethodLimiter(cfg)))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		backupHandler := api_router.NewBackupHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer, wss)

		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)
		api.GET("/categories", noteHandler.Categories)

		api.GET("/notes", noteHandler.List)
		api.GET("/notes/archive", noteHandler.ListArchive)
		api.GET("/notes/summary", noteHandler.Summary)
		api.GET("/notes/export", backupHandler.Export)
		api.GET("/notes/ws", wss.Run())

		api.GET("/note", noteHandler.Get)
		api.POST("/note", noteHandler.Set)
		api.PUT("/note", noteHandler.Update)
		api.DELETE("/note", noteHandler.Delete)
		api.PUT("/note/archive", noteHandler.Archive)
		api.PUT("/note/unarchive", noteHandler.Unarchive)

		api.POST("/backup", backupHandler.Run)
	}

	r.NoRoute(middleware.NoFound())

	return r, wss
}
