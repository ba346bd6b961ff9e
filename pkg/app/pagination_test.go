package app

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		pager      *Pager
		total      int
		start, end int
	}{
		{name: "nil pager returns all", pager: nil, total: 5, start: 0, end: 5},
		{name: "first page", pager: &Pager{Page: 1, PageSize: 2}, total: 5, start: 0, end: 2},
		{name: "last partial page", pager: &Pager{Page: 3, PageSize: 2}, total: 5, start: 4, end: 5},
		{name: "past the end", pager: &Pager{Page: 9, PageSize: 2}, total: 5, start: 5, end: 5},
		{name: "offset overflow", pager: &Pager{Page: 1 << 62, PageSize: 100}, total: 5, start: 5, end: 5},
		{name: "max page", pager: &Pager{Page: math.MaxInt, PageSize: math.MaxInt}, total: 5, start: 5, end: 5},
		{name: "huge page size", pager: &Pager{Page: 1, PageSize: math.MaxInt}, total: 5, start: 0, end: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.pager.Paginate(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestGetPageOffset(t *testing.T) {
	assert.Equal(t, 0, GetPageOffset(0, 10))
	assert.Equal(t, 20, GetPageOffset(3, 10))
	assert.Equal(t, math.MaxInt, GetPageOffset(math.MaxInt, 10))
}

func TestToResponseListEchoesPager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/notes?page=2", nil)

	NewResponse(c).ToResponseList(code.Success, []int{1}, &Pager{Page: 2, PageSize: 3}, 4)
	assert.Contains(t, w.Body.String(), `"pager":{"page":2,"pageSize":3,"totalRows":4}`)
}
