package app

import (
	"math"

	"github.com/haierkeys/fast-note-keeper/pkg/convert"

	"github.com/gin-gonic/gin"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig default pagination configuration // 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 10,
	MaxPageSize:     100,
}

// NewPager builds the pager echoed back in list responses
// NewPager 构建列表响应中返回的分页信息
func NewPager(c *gin.Context, totalRows int) *Pager {
	return &Pager{
		Page:      GetPage(c),
		PageSize:  GetPageSize(c),
		TotalRows: totalRows,
	}
}

func GetPage(c *gin.Context) int {

	var page int

	if s, exist := c.GetQuery("page"); exist {
		page = convert.StrTo(s).MustInt()
	} else if s := c.PostForm("page"); s != "" {
		page = convert.StrTo(s).MustInt()
	}

	if page <= 0 {
		return 1
	}

	return page
}

// GetPageSizeWithConfig gets page size (using injected configuration)
// GetPageSizeWithConfig 获取分页大小（使用注入的配置）
func GetPageSizeWithConfig(c *gin.Context, cfg PaginationConfig) int {
	var pageSize int

	if s, exist := c.GetQuery("pageSize"); exist {
		pageSize = convert.StrTo(s).MustInt()
	} else if s := c.PostForm("pageSize"); s != "" {
		pageSize = convert.StrTo(s).MustInt()
	}

	if pageSize <= 0 {
		return cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		return cfg.MaxPageSize
	}

	return pageSize
}

// GetPageSize gets page size (using default configuration)
// GetPageSize 获取分页大小（使用默认配置）
func GetPageSize(c *gin.Context) int {
	return GetPageSizeWithConfig(c, DefaultPaginationConfig)
}

// GetPageOffset returns the index of the first row on page. Offsets that
// would overflow saturate at math.MaxInt.
// GetPageOffset 返回 page 第一行的下标，溢出时取 math.MaxInt
func GetPageOffset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// Paginate returns the [start, end) window of a list of length total
// Paginate 计算长度为 total 的列表在当前分页下的区间
func (p *Pager) Paginate(total int) (start, end int) {
	if p == nil || p.PageSize <= 0 {
		return 0, total
	}
	start = GetPageOffset(p.Page, p.PageSize)
	if start >= total {
		return total, total
	}
	if p.PageSize >= total-start {
		return start, total
	}
	return start, start + p.PageSize
}
