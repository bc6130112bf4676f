package shape

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// StructConverter 按列名为结构体领域类型合成行转换对
// 列名优先匹配字段的 rdb tag，其次忽略大小写匹配字段名
// 这只是一个构造便利，形状描述符只依赖显式的转换对
func StructConverter[T any](columns ...string) (RowConverter[T], error) {
	var conv RowConverter[T]

	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return conv, errors.Errorf("expected struct, got %v", rt)
	}

	indexes := make([]int, len(columns))
	for i, column := range columns {
		index, ok := fieldIndex(rt, column)
		if !ok {
			return conv, errors.Errorf("no field for column %s in %v", column, rt)
		}
		indexes[i] = index
	}

	conv = RowConverter[T]{
		Arity: len(columns),
		ToDomain: func(row []any) (T, error) {
			var v T
			if len(row) != len(indexes) {
				return v, errors.Errorf("expected %d values, got %d", len(indexes), len(row))
			}
			rv := reflect.ValueOf(&v).Elem()
			for i, value := range row {
				if value == nil {
					continue
				}
				if err := setFieldValue(rv.Field(indexes[i]), value); err != nil {
					return v, errors.WithMessagef(err, "set column %s failed", columns[i])
				}
			}
			return v, nil
		},
		ToRaw: func(v T) ([]any, error) {
			rv := reflect.ValueOf(v)
			row := make([]any, len(indexes))
			for i, index := range indexes {
				row[i] = rv.Field(index).Interface()
			}
			return row, nil
		},
	}
	return conv, nil
}

func fieldIndex(rt reflect.Type, column string) (int, bool) {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("rdb")
		if idx := strings.Index(tag, ","); idx != -1 {
			tag = tag[:idx]
		}
		if tag == column {
			return i, true
		}
		if tag == "" && strings.EqualFold(field.Name, column) {
			return i, true
		}
	}
	return 0, false
}

func setFieldValue(fieldValue reflect.Value, value any) error {
	valueType := reflect.TypeOf(value)
	fieldType := fieldValue.Type()

	if valueType.AssignableTo(fieldType) {
		fieldValue.Set(reflect.ValueOf(value))
		return nil
	}

	if valueType.ConvertibleTo(fieldType) {
		fieldValue.Set(reflect.ValueOf(value).Convert(fieldType))
		return nil
	}

	return errors.Errorf("cannot convert %v to %v", valueType, fieldType)
}
