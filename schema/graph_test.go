package schema

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/relx/coltype"
	"github.com/hatlonely/relx/shape"
)

type user struct {
	ID   int64
	Name string
}

type message struct {
	Sender  int64
	Content string
}

func newUserTable() (*TableSpec[user], error) {
	conv, err := shape.StructConverter[user]("name", "id")
	if err != nil {
		return nil, err
	}
	return NewTableSpecWithOptions(&TableSpecOptions[user]{
		Name: "user",
		Shape: shape.ShapeOptions[user]{
			Columns: []shape.ColumnSpec{
				shape.Column("name", coltype.StorageTypeText),
				shape.Column("id", coltype.StorageTypeInt64),
			},
			Converter: conv,
		},
		PrimaryKey: &PrimaryKey{Columns: []string{"id"}, Tag: "UserKey"},
	})
}

func newMessageTable(senderType coltype.StorageType) (*TableSpec[message], error) {
	conv, err := shape.StructConverter[message]("sender", "content")
	if err != nil {
		return nil, err
	}
	return NewTableSpecWithOptions(&TableSpecOptions[message]{
		Name: "message",
		Shape: shape.ShapeOptions[message]{
			Columns: []shape.ColumnSpec{
				shape.Column("sender", senderType),
				shape.Column("content", coltype.StorageTypeText),
			},
			Converter: conv,
		},
		PrimaryKey: &PrimaryKey{Columns: []string{"sender", "content"}, Tag: "MessageKey"},
		ForeignKeys: []ForeignKey{{
			Name:    "fk_message_sender",
			Columns: []string{"sender"},
			Ref:     "user",
			Project: func(domain any) any { return domain.(user).ID },
		}},
	})
}

func TestGraphRegisterTable(t *testing.T) {
	Convey("测试表注册", t, func() {
		g, err := NewGraphWithOptions(nil)
		So(err, ShouldBeNil)

		userTable, err := newUserTable()
		So(err, ShouldBeNil)
		So(g.RegisterTable(userTable), ShouldBeNil)

		Convey("表名重复返回 ErrDuplicateTable", func() {
			another, err := newUserTable()
			So(err, ShouldBeNil)
			So(errors.Is(g.RegisterTable(another), ErrDuplicateTable), ShouldBeTrue)
		})

		Convey("按名字查找", func() {
			found, err := g.LookupTable("user")
			So(err, ShouldBeNil)
			So(found.TableName(), ShouldEqual, "user")

			_, err = g.LookupTable("ghost")
			So(errors.Is(err, ErrUnknownTable), ShouldBeTrue)
		})

		Convey("Validate 之后注册返回 ErrGraphFrozen", func() {
			So(g.Validate(), ShouldBeNil)

			msgTable, err := newMessageTable(coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(errors.Is(g.RegisterTable(msgTable), ErrGraphFrozen), ShouldBeTrue)
		})
	})
}

func TestGraphValidate(t *testing.T) {
	Convey("测试模式校验", t, func() {
		Convey("外键列存储类型和被引用主键不一致返回 ErrKeyTypeMismatch", func() {
			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			userTable, err := newUserTable()
			So(err, ShouldBeNil)
			So(g.RegisterTable(userTable), ShouldBeNil)

			// sender 声明成 text，被引用的 user.id 是 int64
			msgTable, err := newMessageTable(coltype.StorageTypeText)
			So(err, ShouldBeNil)
			So(g.RegisterTable(msgTable), ShouldBeNil)

			So(errors.Is(g.Validate(), ErrKeyTypeMismatch), ShouldBeTrue)
		})

		Convey("类型一致时校验通过", func() {
			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			userTable, err := newUserTable()
			So(err, ShouldBeNil)
			So(g.RegisterTable(userTable), ShouldBeNil)

			msgTable, err := newMessageTable(coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(g.RegisterTable(msgTable), ShouldBeNil)

			So(g.Validate(), ShouldBeNil)

			Convey("校验之后按声明列序投影", func() {
				v, err := userTable.Project([]any{"hello", int64(1)})
				So(err, ShouldBeNil)
				So(v, ShouldResemble, user{ID: 1, Name: "hello"})
			})

			Convey("外键投影函数产出被引用主键值", func() {
				fk := msgTable.ForeignKeys()[0]
				So(fk.Project(user{ID: 7, Name: "x"}), ShouldEqual, int64(7))
			})
		})

		Convey("存储类型相同但领域类型不同返回 ErrKeyTypeMismatch", func() {
			// 两种 id 底层都是 int64，引用关系依然不成立
			type userID int64
			type messageID int64

			registry, err := coltype.NewRegistryWithOptions(&coltype.RegistryOptions{WithBuiltin: true})
			So(err, ShouldBeNil)
			userPair, err := coltype.Newtype[userID](coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(coltype.RegisterT[userID](registry, userPair), ShouldBeNil)
			messagePair, err := coltype.Newtype[messageID](coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(coltype.RegisterT[messageID](registry, messagePair), ShouldBeNil)

			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			userTable, err := NewTableSpecWithOptions(&TableSpecOptions[shape.Slots]{
				Name: "user",
				Shape: shape.ShapeOptions[shape.Slots]{
					Columns: []shape.ColumnSpec{
						shape.ColumnOf[userID]("id", coltype.StorageTypeInt64),
					},
					Converter: shape.SlotsConverter(1),
					Registry:  registry,
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"id"}, Tag: "UserKey"},
			})
			So(err, ShouldBeNil)
			So(g.RegisterTable(userTable), ShouldBeNil)

			msgTable, err := NewTableSpecWithOptions(&TableSpecOptions[shape.Slots]{
				Name: "message",
				Shape: shape.ShapeOptions[shape.Slots]{
					Columns: []shape.ColumnSpec{
						shape.ColumnOf[messageID]("sender", coltype.StorageTypeInt64),
					},
					Converter: shape.SlotsConverter(1),
					Registry:  registry,
				},
				ForeignKeys: []ForeignKey{{
					Name:    "fk_message_sender",
					Columns: []string{"sender"},
					Ref:     "user",
				}},
			})
			So(err, ShouldBeNil)
			So(g.RegisterTable(msgTable), ShouldBeNil)

			So(errors.Is(g.Validate(), ErrKeyTypeMismatch), ShouldBeTrue)
		})

		Convey("引用不存在的表", func() {
			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			msgTable, err := newMessageTable(coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(g.RegisterTable(msgTable), ShouldBeNil)

			So(errors.Is(g.Validate(), ErrUnknownTable), ShouldBeTrue)
		})

		Convey("引用没有主键的表", func() {
			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			conv := shape.SlotsConverter(1)
			bare, err := NewTableSpecWithOptions(&TableSpecOptions[shape.Slots]{
				Name: "user",
				Shape: shape.ShapeOptions[shape.Slots]{
					Columns:   []shape.ColumnSpec{shape.Column("id", coltype.StorageTypeInt64)},
					Converter: conv,
				},
			})
			So(err, ShouldBeNil)
			So(g.RegisterTable(bare), ShouldBeNil)

			msgTable, err := newMessageTable(coltype.StorageTypeInt64)
			So(err, ShouldBeNil)
			So(g.RegisterTable(msgTable), ShouldBeNil)

			So(errors.Is(g.Validate(), ErrKeyTypeMismatch), ShouldBeTrue)
		})

		Convey("相互引用的表先注册后解析", func() {
			g, err := NewGraphWithOptions(nil)
			So(err, ShouldBeNil)

			a, err := newTableWithFK("a", "b", "fk_a_peer")
			So(err, ShouldBeNil)
			b, err := newTableWithFK("b", "a", "fk_b_peer")
			So(err, ShouldBeNil)

			// 注册 a 时 b 还不存在，解析推迟到 Validate
			So(g.RegisterTable(a), ShouldBeNil)
			So(g.RegisterTable(b), ShouldBeNil)
			So(g.Validate(), ShouldBeNil)
		})
	})
}

func newTableWithFK(name, ref, fkName string) (*TableSpec[shape.Slots], error) {
	return NewTableSpecWithOptions(&TableSpecOptions[shape.Slots]{
		Name: name,
		Shape: shape.ShapeOptions[shape.Slots]{
			Columns: []shape.ColumnSpec{
				shape.Column("id", coltype.StorageTypeInt64),
				shape.Column("peer", coltype.StorageTypeInt64),
			},
			Converter: shape.SlotsConverter(2),
		},
		PrimaryKey: &PrimaryKey{Columns: []string{"id"}},
		ForeignKeys: []ForeignKey{{
			Name:    fkName,
			Columns: []string{"peer"},
			Ref:     ref,
		}},
	})
}

func TestTableSpecConstruction(t *testing.T) {
	Convey("测试表声明构造", t, func() {
		conv, err := shape.StructConverter[user]("id", "name")
		So(err, ShouldBeNil)

		Convey("主键列必须在列定义内", func() {
			_, err := NewTableSpecWithOptions(&TableSpecOptions[user]{
				Name: "user",
				Shape: shape.ShapeOptions[user]{
					Columns: []shape.ColumnSpec{
						shape.Column("id", coltype.StorageTypeInt64),
						shape.Column("name", coltype.StorageTypeText),
					},
					Converter: conv,
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"uid"}},
			})
			So(err, ShouldNotBeNil)
		})

		Convey("外键列必须在列定义内", func() {
			_, err := NewTableSpecWithOptions(&TableSpecOptions[user]{
				Name: "user",
				Shape: shape.ShapeOptions[user]{
					Columns: []shape.ColumnSpec{
						shape.Column("id", coltype.StorageTypeInt64),
						shape.Column("name", coltype.StorageTypeText),
					},
					Converter: conv,
				},
				ForeignKeys: []ForeignKey{{Name: "fk", Columns: []string{"gone"}, Ref: "other"}},
			})
			So(err, ShouldNotBeNil)
		})

		Convey("主键标记缺省为表名", func() {
			spec, err := NewTableSpecWithOptions(&TableSpecOptions[user]{
				Name: "user",
				Shape: shape.ShapeOptions[user]{
					Columns: []shape.ColumnSpec{
						shape.Column("id", coltype.StorageTypeInt64),
						shape.Column("name", coltype.StorageTypeText),
					},
					Converter: conv,
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"id"}},
			})
			So(err, ShouldBeNil)
			So(spec.KeyTag(), ShouldEqual, KeyTag("user"))
			So(spec.Key(int64(1)), ShouldResemble, KeyValue{Tag: "user", Value: int64(1)})
		})
	})
}
