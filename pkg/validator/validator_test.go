package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteForm struct {
	Title    string `json:"title" binding:"required,max=100"`
	Category string `json:"category" binding:"category"`
}

func newTestValidator(t *testing.T) *CustomValidator {
	t.Helper()
	v := NewCustomValidator()
	validate := v.Engine().(*validator.Validate)
	uni, err := NewTranslator(validate)
	require.NoError(t, err)
	require.NoError(t, RegisterCategory(validate, uni, []string{"Task", "Idea"}))
	return v
}

func TestCustomValidator_UsesJSONNames(t *testing.T) {
	v := newTestValidator(t)

	err := v.ValidateStruct(&noteForm{Category: "Task"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "title", verrs[0].Field())
}

func TestRegisterCategory(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.ValidateStruct(&noteForm{Title: "a", Category: "Idea"}))
	assert.NoError(t, v.ValidateStruct(&noteForm{Title: "a"}))

	err := v.ValidateStruct(&noteForm{Title: "a", Category: "Shopping"})
	require.Error(t, err)
	verrs := err.(validator.ValidationErrors)
	assert.Equal(t, "category", verrs[0].Field())
	assert.Equal(t, "category", verrs[0].Tag())
}

func TestValidateStruct_IgnoresNonStruct(t *testing.T) {
	v := NewCustomValidator()
	assert.NoError(t, v.ValidateStruct("plain string"))
}

func TestSetup_InstallsBindingValidator(t *testing.T) {
	uni, err := Setup([]string{"Work"})
	require.NoError(t, err)

	_, found := uni.GetTranslator("zh")
	assert.True(t, found)

	v, ok := binding.Validator.(*CustomValidator)
	require.True(t, ok)
	assert.NoError(t, v.ValidateStruct(&noteForm{Title: "a", Category: "Work"}))
	assert.Error(t, v.ValidateStruct(&noteForm{Title: "a", Category: "Task"}))
}
