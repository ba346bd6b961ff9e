package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator picks the request language from the lang query or header and stores it
// with the matching validator translator on the context
// LangWithTranslator 从 lang 参数或请求头选择语言，连同对应的校验翻译器存入上下文
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))

		// 响应消息语言：zh、zh_cn 等均使用中文
		msgLang := code.GetGlobalDefaultLang()
		if strings.HasPrefix(lang, "zh") {
			msgLang = "zh_cn"
		} else if lang != "" {
			msgLang = "en"
		}
		c.Set(app.LangKey, msgLang)

		transLocale := "en"
		if strings.HasPrefix(msgLang, "zh") {
			transLocale = "zh"
		}
		if trans, found := uni.GetTranslator(transLocale); found {
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}
