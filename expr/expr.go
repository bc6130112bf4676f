package expr

import (
	"github.com/pkg/errors"
)

var ErrIncompatibleKeyComparison = errors.New("incompatible key comparison")

// ExprType 表达式类型
type ExprType string

const (
	ExprTypeEquals ExprType = "equals"
	ExprTypeAbsent ExprType = "absent"
	ExprTypeBool   ExprType = "bool"
)

// Tristate 三值逻辑结果，遵循存储引擎的 NULL 语义
type Tristate int8

const (
	False Tristate = iota
	True
	Unknown
)

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Expr 比较表达式节点接口
// 节点只描述比较语义，不生成任何方言文本，查询层适配器自行翻译
type Expr interface {
	Type() ExprType
	// Eval 对一行求值，行以列名到原始值的映射表示，nil 和缺失的列都视为 NULL
	Eval(row map[string]any) Tristate
}

func and3(a, b Tristate) Tristate {
	if a == False || b == False {
		return False
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return True
}

func or3(a, b Tristate) Tristate {
	if a == True || b == True {
		return True
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return False
}

func not3(a Tristate) Tristate {
	switch a {
	case True:
		return False
	case False:
		return True
	}
	return Unknown
}
