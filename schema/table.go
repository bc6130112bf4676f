package schema

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/relx/shape"
	"github.com/hatlonely/relx/validator"
)

// Table 表声明的类型擦除视图，供 Graph 持有异构的表集合
type Table interface {
	TableName() string
	Columns() []shape.ColumnSpec
	PrimaryKey() *PrimaryKey
	ForeignKeys() []ForeignKey
	KeyTag() KeyTag
	// ProjectRow 把原始行元组转换为领域值
	ProjectRow(row []any) (any, error)
	// UnprojectValue 把领域值拆解为原始行元组
	UnprojectValue(v any) ([]any, error)
	DDLDescriptor() *DDLDescriptor
}

// TableSpecOptions 表声明初始化选项
type TableSpecOptions[T any] struct {
	// 表名
	Name string `cfg:"name" validate:"required"`
	// 行模型的形状描述符选项
	Shape shape.ShapeOptions[T]
	// 主键约束，没有主键的表合法但会在注册时告警
	PrimaryKey *PrimaryKey `cfg:"primaryKey"`
	// 外键约束
	ForeignKeys []ForeignKey `cfg:"foreignKeys"`
}

// TableSpec 一张表的完整声明
// 进程初始化阶段构造一次，之后不可变更，可以并发读取
type TableSpec[T any] struct {
	name        string
	shape       *shape.Shape[T]
	primaryKey  *PrimaryKey
	foreignKeys []ForeignKey
}

func NewTableSpecWithOptions[T any](options *TableSpecOptions[T]) (*TableSpec[T], error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}

	s, err := shape.NewShapeWithOptions(&options.Shape)
	if err != nil {
		return nil, errors.WithMessage(err, "shape.NewShapeWithOptions failed")
	}

	columns := map[string]bool{}
	for _, col := range s.Columns() {
		columns[col.Name] = true
	}

	primaryKey := options.PrimaryKey
	if primaryKey != nil {
		pk := *primaryKey
		if pk.Tag == "" {
			pk.Tag = KeyTag(options.Name)
		}
		for _, col := range pk.Columns {
			if !columns[col] {
				return nil, errors.Errorf("primary key column %s not in table %s", col, options.Name)
			}
		}
		primaryKey = &pk
	}

	for _, fk := range options.ForeignKeys {
		for _, col := range fk.Columns {
			if !columns[col] {
				return nil, errors.Errorf("foreign key %s column %s not in table %s", fk.Name, col, options.Name)
			}
		}
	}

	return &TableSpec[T]{
		name:        options.Name,
		shape:       s,
		primaryKey:  primaryKey,
		foreignKeys: options.ForeignKeys,
	}, nil
}

func (t *TableSpec[T]) TableName() string {
	return t.name
}

func (t *TableSpec[T]) Columns() []shape.ColumnSpec {
	return t.shape.Columns()
}

func (t *TableSpec[T]) PrimaryKey() *PrimaryKey {
	return t.primaryKey
}

func (t *TableSpec[T]) ForeignKeys() []ForeignKey {
	return t.foreignKeys
}

// KeyTag 主键的名义类型标记，没有主键时为空
func (t *TableSpec[T]) KeyTag() KeyTag {
	if t.primaryKey == nil {
		return ""
	}
	return t.primaryKey.Tag
}

// Key 给主键值打上本表的名义标记
func (t *TableSpec[T]) Key(v any) KeyValue {
	return KeyValue{Tag: t.KeyTag(), Value: v}
}

// Project 把原始行元组转换为领域值
func (t *TableSpec[T]) Project(row []any) (T, error) {
	return t.shape.Project(row)
}

// Unproject 把领域值拆解为原始行元组
func (t *TableSpec[T]) Unproject(v T) ([]any, error) {
	return t.shape.Unproject(v)
}

func (t *TableSpec[T]) ProjectRow(row []any) (any, error) {
	return t.shape.Project(row)
}

func (t *TableSpec[T]) UnprojectValue(v any) ([]any, error) {
	value, ok := v.(T)
	if !ok {
		var zero T
		return nil, errors.Errorf("expected %T, got %T", zero, v)
	}
	return t.shape.Unproject(value)
}
