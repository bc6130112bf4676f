package schema

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/relx/log"
	"github.com/hatlonely/relx/log/logger"
	"github.com/hatlonely/relx/shape"
)

var (
	ErrDuplicateTable  = errors.New("duplicate table")
	ErrUnknownTable    = errors.New("unknown table")
	ErrKeyTypeMismatch = errors.New("key type mismatch")
	ErrGraphFrozen     = errors.New("graph frozen")
)

// GraphOptions 模式图初始化选项
type GraphOptions struct {
	// 为空时使用默认日志器
	Logger logger.Logger
}

// Graph 全部表声明的集合
// 进程初始化阶段单线程注册，Validate 通过之后冻结，并发读取无需加锁
type Graph struct {
	tables    map[string]Table
	order     []string
	logger    logger.Logger
	validated bool
}

func NewGraphWithOptions(options *GraphOptions) (*Graph, error) {
	if options == nil {
		options = &GraphOptions{}
	}
	l := options.Logger
	if l == nil {
		l = log.Default()
	}
	return &Graph{
		tables: map[string]Table{},
		logger: l,
	}, nil
}

// RegisterTable 注册表声明，表名重复返回 ErrDuplicateTable
// 没有主键的表合法，但任何外键都无法引用它，这里只告警不报错
func (g *Graph) RegisterTable(t Table) error {
	if g.validated {
		return errors.WithMessage(ErrGraphFrozen, "register after validate")
	}
	name := t.TableName()
	if _, ok := g.tables[name]; ok {
		return errors.Wrapf(ErrDuplicateTable, "table %s", name)
	}
	if t.PrimaryKey() == nil {
		g.logger.Warn("table registered without primary key", "table", name)
	}

	g.tables[name] = t
	g.order = append(g.order, name)
	return nil
}

// LookupTable 按名字查找表声明，不存在返回 ErrUnknownTable
func (g *Graph) LookupTable(name string) (Table, error) {
	t, ok := g.tables[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTable, "table %s", name)
	}
	return t, nil
}

// Tables 按注册顺序返回全部表声明
func (g *Graph) Tables() []Table {
	tables := make([]Table, 0, len(g.order))
	for _, name := range g.order {
		tables = append(tables, g.tables[name])
	}
	return tables
}

// Validate 解析全部外键并检查键类型约束，通过之后冻结模式图
// 外键的本地列存储类型必须和被引用主键完全一致，不一致返回 ErrKeyTypeMismatch，
// 错误的模式不允许进入运行阶段，必须在这里失败
func (g *Graph) Validate() error {
	for _, name := range g.order {
		t := g.tables[name]
		for _, fk := range t.ForeignKeys() {
			if err := g.validateForeignKey(t, fk); err != nil {
				return err
			}
		}
	}

	g.validated = true
	return nil
}

func (g *Graph) validateForeignKey(t Table, fk ForeignKey) error {
	ref, err := g.LookupTable(fk.Ref)
	if err != nil {
		return errors.WithMessagef(err, "foreign key %s.%s", t.TableName(), fk.Name)
	}

	refKey := ref.PrimaryKey()
	if refKey == nil {
		return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: table %s has no primary key",
			t.TableName(), fk.Name, fk.Ref)
	}
	if len(fk.Columns) != len(refKey.Columns) {
		return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: %d columns, referenced key has %d",
			t.TableName(), fk.Name, len(fk.Columns), len(refKey.Columns))
	}

	for i, local := range fk.Columns {
		localCol, ok := columnSpec(t, local)
		if !ok {
			return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: no column %s",
				t.TableName(), fk.Name, local)
		}
		refCol, ok := columnSpec(ref, refKey.Columns[i])
		if !ok {
			return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: no referenced column %s",
				t.TableName(), fk.Name, refKey.Columns[i])
		}
		if localCol.Type != refCol.Type {
			return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: column %s is %s, referenced %s.%s is %s",
				t.TableName(), fk.Name, local, localCol.Type, fk.Ref, refKey.Columns[i], refCol.Type)
		}
		// 存储类型一致还不够，领域类型不同的 id 不允许相互引用，
		// 比如同为 int64 的消息 id 和用户 id
		if localCol.Domain != refCol.Domain {
			return errors.Wrapf(ErrKeyTypeMismatch, "foreign key %s.%s: column %s is %v, referenced %s.%s is %v",
				t.TableName(), fk.Name, local, localCol.Domain, fk.Ref, refKey.Columns[i], refCol.Domain)
		}
	}

	return nil
}

func columnSpec(t Table, name string) (shape.ColumnSpec, bool) {
	for _, col := range t.Columns() {
		if col.Name == name {
			return col, true
		}
	}
	return shape.ColumnSpec{}, false
}
