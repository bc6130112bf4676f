package expr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsAbsentEval(t *testing.T) {
	Convey("测试 NULL 判断", t, func() {
		Convey("NULL 值返回 True", func() {
			So(IsAbsent("note").Eval(map[string]any{"note": nil}), ShouldEqual, True)
			So(IsAbsent("note").Eval(map[string]any{}), ShouldEqual, True)
		})

		Convey("非 NULL 值返回 False，不产生 Unknown", func() {
			So(IsAbsent("note").Eval(map[string]any{"note": ""}), ShouldEqual, False)
			So(IsAbsent("note").Eval(map[string]any{"note": int64(0)}), ShouldEqual, False)
		})
	})
}
