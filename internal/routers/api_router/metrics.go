package api_router

import (
	"context"
	"expvar"
	"fmt"

	"github.com/haierkeys/fast-note-keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fast_note_keeper",
		Name:      "note_mutations_total",
		Help:      "Persisted note mutations by action.",
	}, []string{"action"})

	noteCollectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fast_note_keeper",
		Name:      "notes",
		Help:      "Number of notes per collection after the last mutation.",
	}, []string{"collection"})
)

// RecordNoteEvent 笔记事件订阅者，更新 Prometheus 指标
func RecordNoteEvent(_ context.Context, event service.NoteEvent) {
	noteMutations.WithLabelValues(event.Action).Inc()
	noteCollectionSize.WithLabelValues("active").Set(float64(event.Active))
	noteCollectionSize.WithLabelValues("archive").Set(float64(event.Archive))
}

// Expvar 导出系统运行时指标
// 将 expvar 导出的 JSON 数据写入响应
func Expvar(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	first := true
	report := func(key string, value interface{}) {
		if !first {
			fmt.Fprintf(c.Writer, ",\n")
		}
		first = false
		if str, ok := value.(string); ok {
			fmt.Fprintf(c.Writer, "%q: %q", key, str)
		} else {
			fmt.Fprintf(c.Writer, "%q: %v", key, value)
		}
	}

	fmt.Fprintf(c.Writer, "{\n")
	expvar.Do(func(kv expvar.KeyValue) {
		report(kv.Key, kv.Value)
	})
	fmt.Fprintf(c.Writer, "\n}\n")
}
