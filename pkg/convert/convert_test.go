package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrTo(t *testing.T) {
	assert.Equal(t, 12, StrTo("12").MustInt())
	assert.Equal(t, 0, StrTo("abc").MustInt())
	assert.Equal(t, int64(1700000000000), StrTo("1700000000000").MustInt64())
}

func TestStructAssignDeepCopies(t *testing.T) {
	type src struct {
		Name string
		Tags []string
	}
	type dst struct {
		Name string
		Tags []string
	}

	s := &src{Name: "a", Tags: []string{"x"}}
	d := &dst{}
	require.NoError(t, StructAssign(s, d))

	assert.Equal(t, "a", d.Name)
	s.Tags[0] = "changed"
	assert.Equal(t, []string{"x"}, d.Tags)
}
