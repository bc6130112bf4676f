package shape

import (
	"github.com/pkg/errors"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Slots 按位置访问的异构值序列
// 列数超出固定结构体可承受范围时的逃生通道，放弃了编译期的字段数检查，
// 越界访问是运行时错误而不是构造期错误
type Slots struct {
	values []any
}

// NewSlots 从值序列创建 Slots
func NewSlots(values ...any) Slots {
	return Slots{values: values}
}

// Len 槽位数量
func (s Slots) Len() int {
	return len(s.values)
}

// Value 按位置取值，越界返回 ErrIndexOutOfRange
func (s Slots) Value(index int) (any, error) {
	if index < 0 || index >= len(s.values) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, len %d", index, len(s.values))
	}
	return s.values[index], nil
}

// At 按位置取值并断言为指定类型
func At[D any](s Slots, index int) (D, error) {
	var zero D
	v, err := s.Value(index)
	if err != nil {
		return zero, err
	}
	d, ok := v.(D)
	if !ok {
		return zero, errors.Errorf("slot %d: expected %T, got %T", index, zero, v)
	}
	return d, nil
}

// SlotsConverter 创建指定长度的 Slots 行转换对
func SlotsConverter(arity int) RowConverter[Slots] {
	return RowConverter[Slots]{
		Arity: arity,
		ToDomain: func(row []any) (Slots, error) {
			values := make([]any, len(row))
			copy(values, row)
			return Slots{values: values}, nil
		},
		ToRaw: func(s Slots) ([]any, error) {
			if len(s.values) != arity {
				return nil, errors.Errorf("expected %d slots, got %d", arity, len(s.values))
			}
			row := make([]any, len(s.values))
			copy(row, s.values)
			return row, nil
		},
	}
}
