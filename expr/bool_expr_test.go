package expr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBoolExprEval(t *testing.T) {
	Convey("测试布尔组合的三值逻辑", t, func() {
		row := map[string]any{"status": "active", "age": int64(30), "note": nil}

		Convey("Must 取交", func() {
			e := &BoolExpr{Must: []Expr{
				Equals("status", "active"),
				Equals("age", int64(30)),
			}}
			So(e.Eval(row), ShouldEqual, True)

			e = &BoolExpr{Must: []Expr{
				Equals("status", "active"),
				Equals("age", int64(18)),
			}}
			So(e.Eval(row), ShouldEqual, False)
		})

		Convey("Unknown 参与取交", func() {
			e := &BoolExpr{Must: []Expr{
				Equals("status", "active"),
				Equals("note", "x"),
			}}
			So(e.Eval(row), ShouldEqual, Unknown)

			// False 短路优先于 Unknown
			e = &BoolExpr{Must: []Expr{
				Equals("status", "closed"),
				Equals("note", "x"),
			}}
			So(e.Eval(row), ShouldEqual, False)
		})

		Convey("Should 取并", func() {
			e := &BoolExpr{Should: []Expr{
				Equals("status", "closed"),
				Equals("age", int64(30)),
			}}
			So(e.Eval(row), ShouldEqual, True)

			e = &BoolExpr{Should: []Expr{
				Equals("status", "closed"),
				Equals("note", "x"),
			}}
			So(e.Eval(row), ShouldEqual, Unknown)
		})

		Convey("MustNot 对 Unknown 取反仍然是 Unknown", func() {
			e := &BoolExpr{MustNot: []Expr{Equals("note", "x")}}
			So(e.Eval(row), ShouldEqual, Unknown)

			// IsAbsent 是确定的，取反之后也是确定的
			e = &BoolExpr{MustNot: []Expr{IsAbsent("note")}}
			So(e.Eval(row), ShouldEqual, False)
		})
	})
}
