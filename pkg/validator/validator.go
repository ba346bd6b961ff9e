package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator gin binding validator backed by validator/v10
// CustomValidator 基于 validator/v10 的 gin 绑定验证器
type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) == reflect.Struct {
		v.lazyinit()
		if err := v.Validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
		// 错误信息中使用 json 字段名
		v.Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// NewTranslator registers en/zh translations on validate and returns the UniversalTranslator
// NewTranslator 为 validate 注册中英文翻译并返回 UniversalTranslator
func NewTranslator(validate *validator.Validate) (*ut.UniversalTranslator, error) {
	uni := ut.New(en.New(), en.New(), zh.New())

	enTran, _ := uni.GetTranslator("en")
	zhTran, _ := uni.GetTranslator("zh")

	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	return uni, nil
}

// Setup installs a CustomValidator as gin's binding validator with en/zh translations
// and the category rule, returning the translator used by the lang middleware
// Setup 安装 gin 绑定校验器，注册中英文翻译与 category 规则，返回供语言中间件使用的翻译器
func Setup(categories []string) (*ut.UniversalTranslator, error) {
	customValidator := NewCustomValidator()
	validate, ok := customValidator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", customValidator.Engine())
	}

	uni, err := NewTranslator(validate)
	if err != nil {
		return nil, err
	}
	if err := RegisterCategory(validate, uni, categories); err != nil {
		return nil, err
	}

	binding.Validator = customValidator
	return uni, nil
}
