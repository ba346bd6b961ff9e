package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	r.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.String(http.StatusOK, GetTraceIDFromGin(c))
	})

	w := serve(r, http.MethodGet, "/ping", nil)
	generated := w.Header().Get(DefaultTraceIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = serve(r, http.MethodGet, "/ping", http.Header{DefaultTraceIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(DefaultTraceIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestTraceMiddlewareDisabled(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(false, "X-Request-ID"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetTraceIDFromGin(c)) })

	w := serve(r, http.MethodGet, "/ping", nil)
	assert.Empty(t, w.Header().Get("X-Request-ID"))
	assert.Empty(t, w.Body.String())
	assert.Empty(t, GetTraceID(nil))
}

func TestLangWithTranslator(t *testing.T) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	r := gin.New()
	r.Use(LangWithTranslator(uni))
	r.GET("/lang", func(c *gin.Context) {
		_, ok := c.Get(app.TransKey)
		assert.True(t, ok)
		c.String(http.StatusOK, app.GetLang(c))
	})

	assert.Equal(t, "zh_cn", serve(r, http.MethodGet, "/lang?lang=zh-CN", nil).Body.String())
	assert.Equal(t, "en", serve(r, http.MethodGet, "/lang", http.Header{"Lang": {"en-US"}}).Body.String())
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          limiter.RouteKey(http.MethodGet, "/limited"),
		FillInterval: time.Hour,
		Capacity:     1,
		Quantum:      1,
	})

	r := gin.New()
	r.Use(RateLimiter(l))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/free", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Empty(t, serve(r, http.MethodGet, "/limited", nil).Body.String())
	assert.Contains(t, serve(r, http.MethodGet, "/limited", nil).Body.String(), `"code":503`)
	assert.Empty(t, serve(r, http.MethodGet, "/free", nil).Body.String())
}

func TestRecoveryWithLogger(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Contains(t, w.Body.String(), `"code":500`)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())

	w := serve(r, http.MethodGet, "/missing", nil)
	assert.Contains(t, w.Body.String(), "/missing")
	assert.Contains(t, w.Body.String(), `"status":false`)
}

func TestCors(t *testing.T) {
	r := gin.New()
	r.Use(Cors())
	r.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/api", http.Header{"Origin": {"http://localhost:3000"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/api", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestContextTimeout(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(time.Second))
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/deadline", nil).Code)
}

func TestAppInfo(t *testing.T) {
	r := gin.New()
	r.Use(AppInfoWithConfig("notes", "1.2.3"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("app_name")) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, "1.2.3", w.Header().Get("X-App-Version"))
	assert.Equal(t, "notes", w.Body.String())
}
