package code

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

// lng holds the global language. It is read while package-level codes are built,
// before any init func runs, so an empty value means FALLBACK_LNG.
// lng 全局语言，包级错误码初始化时即被读取，未设置时视为 FALLBACK_LNG
var lng atomic.Value

// GetMessage returns the message in the current global language
// GetMessage 方法根据全局语言返回相应的消息
func (l lang) GetMessage() string {
	return l.GetMessageFor(GetGlobalDefaultLang())
}

// GetMessageFor returns the message in the given language, falling back to English
// GetMessageFor 按指定语言返回消息，找不到时回退到英文
func (l lang) GetMessageFor(language string) string {
	val := reflect.ValueOf(l)
	field := val.FieldByName(language)
	if field.IsValid() && field.String() != "" {
		return field.String()
	}
	fallbackField := val.FieldByName(FALLBACK_LNG)
	if fallbackField.IsValid() && fallbackField.String() != "" {
		return fallbackField.String()
	}
	return fmt.Sprintf("No message available for language: %s", language)
}

// GetSupportedLanguages function returns all languages supported by the lang type
// GetSupportedLanguages 函数返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// SetGlobalDefaultLang sets the global default language
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	for _, l := range GetSupportedLanguages() {
		if language == l {
			lng.Store(language)
			return nil
		}
	}
	// If the language is invalid, return an error and set it to the default language
	// 如果语言无效，返回错误并设置为默认语言
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// 获取全局默认语言
func GetGlobalDefaultLang() string {
	if l, ok := lng.Load().(string); ok {
		return l
	}
	return FALLBACK_LNG
}
