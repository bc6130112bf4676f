package expr

// AbsentExpr 判断列是否为 NULL，这是唯一可靠的 NULL 判断
type AbsentExpr struct {
	Field string `json:"field"`
}

// IsAbsent 构造 NULL 判断
func IsAbsent(field string) *AbsentExpr {
	return &AbsentExpr{Field: field}
}

func (e *AbsentExpr) Type() ExprType {
	return ExprTypeAbsent
}

// Eval NULL 判断本身永远是确定的，不产生 Unknown
func (e *AbsentExpr) Eval(row map[string]any) Tristate {
	if row[e.Field] == nil {
		return True
	}
	return False
}
