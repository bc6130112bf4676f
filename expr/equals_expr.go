package expr

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/relx/schema"
)

// EqualsExpr 相等比较
// 任何一侧为 NULL 时结果是 Unknown 而不是匹配，判断 NULL 必须用 AbsentExpr
type EqualsExpr struct {
	Field string `json:"field"`
	Value any    `json:"value"`

	// 两个字面值直接比较时左侧的值，此时不读取行数据
	left    any
	literal bool
}

// Equals 构造列和值的相等比较
// 值是 KeyValue 时自动解包出底层主键值，这里只知道列名不知道列的名义标记，
// 不做标记检查，需要检查标记时用 EqualsKey
func Equals(field string, value any) *EqualsExpr {
	if key, ok := value.(schema.KeyValue); ok {
		value = key.Value
	}
	return &EqualsExpr{Field: field, Value: value}
}

// EqualsKey 构造两个主键值的相等比较
// 名义标记不同的主键即使底层存储类型相同也不允许比较，
// 返回 ErrIncompatibleKeyComparison，错误在表达式构造期暴露，先于任何语句发往存储
func EqualsKey(a, b schema.KeyValue) (*EqualsExpr, error) {
	if a.Tag != b.Tag {
		return nil, errors.Wrapf(ErrIncompatibleKeyComparison, "%s vs %s", a.Tag, b.Tag)
	}
	return &EqualsExpr{Value: b.Value, left: a.Value, literal: true}, nil
}

func (e *EqualsExpr) Type() ExprType {
	return ExprTypeEquals
}

func (e *EqualsExpr) Eval(row map[string]any) Tristate {
	left := e.left
	if !e.literal {
		left = row[e.Field]
	}
	if left == nil || e.Value == nil {
		return Unknown
	}
	if reflect.DeepEqual(left, e.Value) {
		return True
	}
	return False
}
