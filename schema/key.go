package schema

// KeyTag 主键的名义类型标记
// 两张表的主键即使底层存储类型相同，标记不同时也不允许相互比较，
// 避免把消息 id 误当作用户 id 使用
type KeyTag string

// KeyValue 携带名义标记的主键值
type KeyValue struct {
	Tag   KeyTag
	Value any
}

// PrimaryKey 主键约束，多列时为复合主键
type PrimaryKey struct {
	// 主键列名，按声明顺序
	Columns []string `cfg:"columns" validate:"required,min=1"`
	// 名义类型标记，为空时默认使用表名
	Tag KeyTag `cfg:"tag"`
}

// ForeignKey 外键约束
// 引用的表按名字声明，解析推迟到 Graph.Validate，支持相互引用的表
type ForeignKey struct {
	// 约束名
	Name string `cfg:"name" validate:"required"`
	// 本表的外键列名，按声明顺序
	Columns []string `cfg:"columns" validate:"required,min=1"`
	// 被引用的表名
	Ref string `cfg:"ref" validate:"required"`
	// 从被引用表的领域值投影出主键值，供查询层构造连接条件
	Project func(domain any) any
}
