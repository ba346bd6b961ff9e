package app

import (
	"strings"

	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
)

// LangKey gin.Context key holding the request language
// LangKey 请求语言在 gin.Context 中的键
const LangKey = "lang"

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

type Pager struct {
	Page      int `json:"page"`      // Page number // 页码
	PageSize  int `json:"pageSize"`  // Page size // 每页数量
	TotalRows int `json:"totalRows"` // Total rows // 总行数
}

type ListRes struct {
	List  interface{} `json:"list"`  // Data list // 数据清单
	Pager Pager       `json:"pager"` // Pagination info // 翻页信息
}

// Res is the unified response structure: Code/Status/Msg/Data
// Res 是统一的响应结构：Code/Status/Msg/Data
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetLang returns the language chosen by the lang middleware, or the global default
// GetLang 获取语言中间件选定的语言，未设置时返回全局默认语言
func GetLang(c *gin.Context) string {
	if c != nil {
		if v, ok := c.Get(LangKey); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return code.GetGlobalDefaultLang()
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

func GetAccessHost(c *gin.Context) string {
	AccessProto := ""
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto == "" {
		AccessProto = "http" + "://"
	} else {
		AccessProto = proto + "://"
	}
	return AccessProto + c.Request.Host
}

// ToResponse output to browser: unified use of Res, set Details as needed
// ToResponse 输出到浏览器：统一使用 Res，根据情况设置 Details
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessageFor(GetLang(r.Ctx)),
		Data:    codeObj.Data(),
	}

	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	r.send(codeObj.StatusCode(), content)
}

// ToResponseList outputs list response using ListRes as Data.
// pager is the one the list was cut with; nil falls back to the request's default paging.
// ToResponseList 输出列表响应，使用 ListRes 作为 Data，pager 为空时按默认配置解析请求
func (r *Response) ToResponseList(codeObj *code.Code, list interface{}, pager *Pager, totalRows int) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	if pager == nil {
		pager = NewPager(r.Ctx, totalRows)
	}
	echo := Pager{Page: pager.Page, PageSize: pager.PageSize, TotalRows: totalRows}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessageFor(GetLang(r.Ctx)),
		Data: ListRes{
			List:  list,
			Pager: echo,
		},
	}

	r.send(codeObj.StatusCode(), content)
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
