package errors

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/haierkeys/fast-note-keeper/internal/middleware"
	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
)

func testContext(lang string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(middleware.TraceIDKey, "trace-1")
	c.Set(app.LangKey, lang)
	return c
}

func TestToAppError(t *testing.T) {
	c := testContext("zh_cn")

	e := ToAppError(c, fmt.Errorf("load: %w", code.ErrorNoteNotFound.WithDetails("no matches found for milk")))
	assert.Equal(t, 600, e.Code)
	assert.Equal(t, "找不到对应的笔记", e.Message)
	assert.Equal(t, []string{"no matches found for milk"}, e.Details)
	assert.Equal(t, "trace-1", e.TraceID)
	assert.False(t, e.Status)

	e = ToAppError(c, fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, code.ErrorRequestTimeout.Code(), e.Code)
	assert.ErrorIs(t, e, context.DeadlineExceeded)

	e = ToAppError(testContext("en"), assert.AnError)
	assert.Equal(t, code.ErrorServerInternal.Code(), e.Code)
	assert.Equal(t, "Internal server error", e.Message)
	assert.Contains(t, e.Error(), assert.AnError.Error())
}

func TestToAppError_KeepsAppError(t *testing.T) {
	orig := NewAppError(code.ErrorBackupFailed, "en", nil)
	e := ToAppError(testContext("en"), orig)
	assert.Same(t, orig, e)
	assert.Equal(t, "trace-1", e.TraceID)
	assert.Equal(t, "Backup failed", e.Error())
}
