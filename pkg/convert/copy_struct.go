package convert

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign
// dst 目标结构体，src 源结构体
// 它会把src与dst的相同字段名的值，复制到dst中
func StructAssign(src any, dst any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		return errors.Wrap(err, "convert.StructAssign")
	}
	return nil
}
