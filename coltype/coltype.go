package coltype

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateMapping = errors.New("duplicate mapping")
	ErrUnregisteredType = errors.New("unregistered type")
	ErrRegistryFrozen   = errors.New("registry frozen")
)

// StorageType 存储层的列类型，固定枚举，不允许扩展
type StorageType string

const (
	StorageTypeInt64     StorageType = "int64"
	StorageTypeText      StorageType = "text"
	StorageTypeBool      StorageType = "bool"
	StorageTypeFloat64   StorageType = "float64"
	StorageTypeBinary    StorageType = "binary"
	StorageTypeTimestamp StorageType = "timestamp"
)

// RawType 存储类型对应的 Go 原始表示
// int64 -> int64, text -> string, bool -> bool, float64 -> float64, binary -> []byte, timestamp -> time.Time
// nil 表示 NULL
func (t StorageType) RawType() reflect.Type {
	switch t {
	case StorageTypeInt64:
		return reflect.TypeFor[int64]()
	case StorageTypeText:
		return reflect.TypeFor[string]()
	case StorageTypeBool:
		return reflect.TypeFor[bool]()
	case StorageTypeFloat64:
		return reflect.TypeFor[float64]()
	case StorageTypeBinary:
		return reflect.TypeFor[[]byte]()
	case StorageTypeTimestamp:
		return reflect.TypeFor[time.Time]()
	}
	return nil
}

// Valid 检查是否是合法的存储类型
func (t StorageType) Valid() bool {
	return t.RawType() != nil
}

// ConverterPair 原始值和领域值之间的双向转换对
// 约定 ToRaw(ToDomain(raw)) == raw，即转换必须可逆
type ConverterPair struct {
	// 原始值的存储类型
	StorageType StorageType
	// 原始值转换为领域值，原始值已经由存储层校验过类型
	ToDomain func(raw any) (any, error)
	// 领域值转换为原始值，无法表示时返回错误
	ToRaw func(domain any) (any, error)
}

// Identity 创建领域类型和原始类型完全一致的转换对
func Identity[D any](storageType StorageType) *ConverterPair {
	return &ConverterPair{
		StorageType: storageType,
		ToDomain: func(raw any) (any, error) {
			v, ok := raw.(D)
			if !ok {
				return nil, errors.Errorf("expected %v, got %T", reflect.TypeFor[D](), raw)
			}
			return v, nil
		},
		ToRaw: func(domain any) (any, error) {
			v, ok := domain.(D)
			if !ok {
				return nil, errors.Errorf("expected %v, got %T", reflect.TypeFor[D](), domain)
			}
			return v, nil
		},
	}
}

// Newtype 创建基于原始类型定义的新类型的转换对，如 type UserID int64
// 新类型和存储类型的原始表示之间必须可以相互转换
func Newtype[D any](storageType StorageType) (*ConverterPair, error) {
	domainType := reflect.TypeFor[D]()
	rawType := storageType.RawType()
	if rawType == nil {
		return nil, errors.Errorf("invalid storage type: %s", storageType)
	}
	if !rawType.ConvertibleTo(domainType) || !domainType.ConvertibleTo(rawType) {
		return nil, errors.Errorf("%v is not convertible to %v", domainType, rawType)
	}

	return &ConverterPair{
		StorageType: storageType,
		ToDomain: func(raw any) (any, error) {
			rv := reflect.ValueOf(raw)
			if !rv.IsValid() || !rv.Type().ConvertibleTo(domainType) {
				return nil, errors.Errorf("cannot convert %T to %v", raw, domainType)
			}
			return rv.Convert(domainType).Interface(), nil
		},
		ToRaw: func(domain any) (any, error) {
			dv := reflect.ValueOf(domain)
			if !dv.IsValid() || dv.Type() != domainType {
				return nil, errors.Errorf("expected %v, got %T", domainType, domain)
			}
			return dv.Convert(rawType).Interface(), nil
		},
	}, nil
}
