package schema

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hatlonely/relx/coltype"
)

// DDLDescriptor 表结构的被动描述
// 交给存储层适配器生成建表语句，这里不产生任何方言相关的文本
type DDLDescriptor struct {
	Table       string             `json:"table" yaml:"table"`
	Columns     []DDLColumn        `json:"columns" yaml:"columns"`
	PrimaryKey  []string           `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	ForeignKeys []DDLForeignKeyRef `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty"`
}

// DDLColumn 列结构描述
type DDLColumn struct {
	Name     string              `json:"name" yaml:"name"`
	Type     coltype.StorageType `json:"type" yaml:"type"`
	Nullable bool                `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Default  any                 `json:"default,omitempty" yaml:"default,omitempty"`
	Size     int                 `json:"size,omitempty" yaml:"size,omitempty"`
}

// DDLForeignKeyRef 外键结构描述
type DDLForeignKeyRef struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Ref     string   `json:"ref" yaml:"ref"`
}

func (t *TableSpec[T]) DDLDescriptor() *DDLDescriptor {
	descriptor := &DDLDescriptor{
		Table: t.name,
	}

	for _, col := range t.shape.Columns() {
		descriptor.Columns = append(descriptor.Columns, DDLColumn{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: col.Nullable,
			Default:  col.Default,
			Size:     col.Size,
		})
	}

	// 主键和外键的列名列表复制一份，描述不允许反向篡改表声明
	if t.primaryKey != nil {
		descriptor.PrimaryKey = append([]string(nil), t.primaryKey.Columns...)
	}
	for _, fk := range t.foreignKeys {
		descriptor.ForeignKeys = append(descriptor.ForeignKeys, DDLForeignKeyRef{
			Name:    fk.Name,
			Columns: append([]string(nil), fk.Columns...),
			Ref:     fk.Ref,
		})
	}

	return descriptor
}

// JSON 序列化为 JSON，供适配器边界传输
func (d *DDLDescriptor) JSON() ([]byte, error) {
	buf, err := json.Marshal(d)
	if err != nil {
		return nil, errors.WithMessage(err, "json.Marshal failed")
	}
	return buf, nil
}

// YAML 序列化为 YAML
func (d *DDLDescriptor) YAML() ([]byte, error) {
	buf, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.WithMessage(err, "yaml.Marshal failed")
	}
	return buf, nil
}
