package shape

import (
	"reflect"

	"github.com/hatlonely/relx/coltype"
)

// ColumnSpec 列定义，表注册之后不可变更
type ColumnSpec struct {
	// 列名，表内唯一
	Name string `cfg:"name" validate:"required"`
	// 存储类型
	Type coltype.StorageType `cfg:"type" validate:"required,oneof=int64 text bool float64 binary timestamp"`
	// 是否允许 NULL，允许时该列的原始值可以为 nil
	Nullable bool `cfg:"nullable"`
	// 默认值，仅作为存储侧元信息透传，不参与领域值转换
	Default any `cfg:"default"`
	// 展示宽度提示，如 VARCHAR(255)
	Size int `cfg:"size"`

	// 领域类型，非空时从注册表解析转换对，为空时原始值直接透传
	Domain reflect.Type
}

// Column 创建领域类型和原始类型一致的列
func Column(name string, storageType coltype.StorageType) ColumnSpec {
	return ColumnSpec{Name: name, Type: storageType}
}

// ColumnOf 创建需要经过注册表转换的列，领域类型由泛型参数指定
func ColumnOf[D any](name string, storageType coltype.StorageType) ColumnSpec {
	return ColumnSpec{Name: name, Type: storageType, Domain: reflect.TypeFor[D]()}
}

// WithNullable 标记列允许 NULL
func (c ColumnSpec) WithNullable() ColumnSpec {
	c.Nullable = true
	return c
}

// WithDefault 设置存储侧默认值
func (c ColumnSpec) WithDefault(value any) ColumnSpec {
	c.Default = value
	return c
}

// WithSize 设置展示宽度提示
func (c ColumnSpec) WithSize(size int) ColumnSpec {
	c.Size = size
	return c
}
