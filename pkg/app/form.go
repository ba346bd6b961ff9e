package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TransKey gin.Context key holding the validator translator
// TransKey 验证器翻译器在 gin.Context 中的键
const TransKey = "trans"

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString joins the translated messages
// ErrorsToString 拼接翻译后的错误信息
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// MapsToString returns field -> message
// MapsToString 返回 字段 -> 错误信息 映射
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// Fields returns the names of the fields that failed validation
// Fields 返回校验失败的字段名
func (v ValidErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, err := range v {
		fields = append(fields, err.Key)
	}
	return fields
}

// BindAndValid binds query, form and json input and validates it, translating messages by request language
// BindAndValid 绑定并校验请求参数，错误信息按请求语言翻译
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	var trans ut.Translator
	if t, exists := c.Get(TransKey); exists {
		trans, _ = t.(ut.Translator)
	}

	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}

	return false, errs
}
