package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// RegisterCategory registers the "category" tag: empty or one of categories.
// RegisterCategory 注册 category 校验规则：为空或属于配置的分类列表
func RegisterCategory(validate *validator.Validate, uni *ut.UniversalTranslator, categories []string) error {
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	err := validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, ok := allowed[v]
		return ok
	})
	if err != nil {
		return err
	}

	if uni == nil {
		return nil
	}

	messages := map[string]string{
		"en": "{0} must be one of the configured categories",
		"zh": "{0}必须是已配置的分类之一",
	}
	for locale, text := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		text := text
		err := validate.RegisterTranslation("category", trans,
			func(ut ut.Translator) error {
				return ut.Add("category", text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T("category", fe.Field())
				return t
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
