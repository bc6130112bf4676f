package shape

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/relx/coltype"
	"github.com/hatlonely/relx/validator"
)

var (
	ErrArityMismatch = errors.New("arity mismatch")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// RowConverter 行元组和领域值之间的转换对
// 约定 ToRaw(ToDomain(row)) == row，即转换必须可逆
type RowConverter[T any] struct {
	// 期望的元组长度，必须和列数一致
	Arity int
	// 行元组转换为领域值
	ToDomain func(row []any) (T, error)
	// 领域值拆解为行元组，无法拆解时返回错误
	ToRaw func(v T) ([]any, error)
}

// ShapeOptions 形状描述符初始化选项
type ShapeOptions[T any] struct {
	// 默认投影的有序列定义
	Columns []ColumnSpec `cfg:"columns" validate:"required,min=1,dive"`
	// 行元组和领域值的转换对
	Converter RowConverter[T]
	// 列级转换对注册表，为空时使用 coltype.Default()
	Registry *coltype.Registry
}

// Shape 一个行模型的形状描述符
// 声明默认投影的有序列和行元组到领域值的转换，构造之后不可变更，可以并发读取
type Shape[T any] struct {
	columns   []ColumnSpec
	colPairs  []*coltype.ConverterPair
	converter RowConverter[T]
}

func NewShapeWithOptions[T any](options *ShapeOptions[T]) (*Shape[T], error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}
	if options.Converter.ToDomain == nil || options.Converter.ToRaw == nil {
		return nil, errors.New("converter is incomplete")
	}
	// 列数和转换对声明的元组长度必须严格一致，不允许截断或者补齐
	if options.Converter.Arity != len(options.Columns) {
		return nil, errors.Wrapf(ErrArityMismatch, "converter arity %d, column count %d",
			options.Converter.Arity, len(options.Columns))
	}

	registry := options.Registry
	if registry == nil {
		registry = coltype.Default()
	}

	names := map[string]bool{}
	colPairs := make([]*coltype.ConverterPair, len(options.Columns))
	for i, col := range options.Columns {
		if names[col.Name] {
			return nil, errors.Errorf("duplicate column name: %s", col.Name)
		}
		names[col.Name] = true

		if col.Domain == nil {
			continue
		}
		// 列级转换对在构造期解析，未注册的领域类型在这里暴露而不是行访问时
		pair, err := registry.Resolve(col.Domain)
		if err != nil {
			return nil, errors.WithMessagef(err, "resolve column %s failed", col.Name)
		}
		if pair.StorageType != col.Type {
			return nil, errors.Errorf("column %s declared %s, converter expects %s",
				col.Name, col.Type, pair.StorageType)
		}
		colPairs[i] = pair
	}

	return &Shape[T]{
		columns:   options.Columns,
		colPairs:  colPairs,
		converter: options.Converter,
	}, nil
}

// Columns 默认投影的有序列定义，返回副本保证描述符不可变更
func (s *Shape[T]) Columns() []ColumnSpec {
	columns := make([]ColumnSpec, len(s.columns))
	copy(columns, s.columns)
	return columns
}

// Project 把原始行元组转换为领域值
// 行元组的长度和类型由存储层保证，这里不做重复校验
func (s *Shape[T]) Project(row []any) (T, error) {
	var zero T

	domainRow := make([]any, len(row))
	for i, raw := range row {
		if i >= len(s.columns) {
			break
		}
		// NULL 原样透传到领域元组
		if raw == nil || s.colPairs[i] == nil {
			domainRow[i] = raw
			continue
		}
		v, err := s.colPairs[i].ToDomain(raw)
		if err != nil {
			return zero, errors.WithMessagef(err, "convert column %s failed", s.columns[i].Name)
		}
		domainRow[i] = v
	}

	return s.converter.ToDomain(domainRow)
}

// Unproject 把领域值拆解为原始行元组
// 领域值无法按声明的列数拆解时返回 ErrShapeMismatch
func (s *Shape[T]) Unproject(v T) ([]any, error) {
	domainRow, err := s.converter.ToRaw(v)
	if err != nil {
		return nil, errors.WithMessage(ErrShapeMismatch, err.Error())
	}
	if len(domainRow) != len(s.columns) {
		return nil, errors.Wrapf(ErrShapeMismatch, "expected %d values, got %d",
			len(s.columns), len(domainRow))
	}

	row := make([]any, len(domainRow))
	for i, domain := range domainRow {
		if domain == nil || s.colPairs[i] == nil {
			row[i] = domain
			continue
		}
		raw, err := s.colPairs[i].ToRaw(domain)
		if err != nil {
			return nil, errors.WithMessagef(err, "convert column %s failed", s.columns[i].Name)
		}
		row[i] = raw
	}

	return row, nil
}
