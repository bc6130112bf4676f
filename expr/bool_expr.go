package expr

// BoolExpr 布尔组合
type BoolExpr struct {
	Must    []Expr `json:"must,omitempty"`
	Should  []Expr `json:"should,omitempty"`
	MustNot []Expr `json:"must_not,omitempty"`
}

func (e *BoolExpr) Type() ExprType {
	return ExprTypeBool
}

// Eval 按三值逻辑组合子表达式
// Must 取交，Should 取并，MustNot 取反后取交
func (e *BoolExpr) Eval(row map[string]any) Tristate {
	result := True

	for _, sub := range e.Must {
		result = and3(result, sub.Eval(row))
	}

	if len(e.Should) > 0 {
		should := False
		for _, sub := range e.Should {
			should = or3(should, sub.Eval(row))
		}
		result = and3(result, should)
	}

	for _, sub := range e.MustNot {
		result = and3(result, not3(sub.Eval(row)))
	}

	return result
}
