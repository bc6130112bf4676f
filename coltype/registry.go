package coltype

import (
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/hatlonely/relx/validator"
)

// RegistryOptions 注册表初始化选项
type RegistryOptions struct {
	// 是否注册六种原始类型的内置转换对
	WithBuiltin bool `cfg:"withBuiltin"`
}

// Registry 领域类型到转换对的注册表
// 进程初始化阶段单线程写入，Freeze 之后只读，并发读取无需加锁
type Registry struct {
	converters map[reflect.Type]*ConverterPair
	frozen     bool
}

func NewRegistryWithOptions(options *RegistryOptions) (*Registry, error) {
	if options == nil {
		options = &RegistryOptions{}
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}

	r := &Registry{
		converters: map[reflect.Type]*ConverterPair{},
	}
	if options.WithBuiltin {
		r.registerBuiltin()
	}
	return r, nil
}

// Register 注册领域类型的转换对
// 同一个领域类型重复注册返回 ErrDuplicateMapping，不允许静默覆盖
func (r *Registry) Register(domainType reflect.Type, pair *ConverterPair) error {
	if r.frozen {
		return errors.WithMessage(ErrRegistryFrozen, "register after freeze")
	}
	if domainType == nil {
		return errors.New("domain type is nil")
	}
	if pair == nil || pair.ToDomain == nil || pair.ToRaw == nil {
		return errors.New("converter pair is incomplete")
	}
	if !pair.StorageType.Valid() {
		return errors.Errorf("invalid storage type: %s", pair.StorageType)
	}
	if _, ok := r.converters[domainType]; ok {
		return errors.Wrapf(ErrDuplicateMapping, "domain type %v", domainType)
	}

	r.converters[domainType] = pair
	return nil
}

// Resolve 查找领域类型的转换对，未注册返回 ErrUnregisteredType
func (r *Registry) Resolve(domainType reflect.Type) (*ConverterPair, error) {
	pair, ok := r.converters[domainType]
	if !ok {
		return nil, errors.Wrapf(ErrUnregisteredType, "domain type %v", domainType)
	}
	return pair, nil
}

// Freeze 冻结注册表，之后的 Register 调用返回 ErrRegistryFrozen
func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) registerBuiltin() {
	r.converters[reflect.TypeFor[int64]()] = Identity[int64](StorageTypeInt64)
	r.converters[reflect.TypeFor[string]()] = Identity[string](StorageTypeText)
	r.converters[reflect.TypeFor[bool]()] = Identity[bool](StorageTypeBool)
	r.converters[reflect.TypeFor[float64]()] = Identity[float64](StorageTypeFloat64)
	r.converters[reflect.TypeFor[[]byte]()] = Identity[[]byte](StorageTypeBinary)
	r.converters[reflect.TypeFor[time.Time]()] = Identity[time.Time](StorageTypeTimestamp)
}

// RegisterT 按泛型参数注册领域类型
func RegisterT[D any](r *Registry, pair *ConverterPair) error {
	return r.Register(reflect.TypeFor[D](), pair)
}

// ResolveT 按泛型参数查找领域类型
func ResolveT[D any](r *Registry) (*ConverterPair, error) {
	return r.Resolve(reflect.TypeFor[D]())
}

var defaultRegistry *Registry

func init() {
	registry, err := NewRegistryWithOptions(&RegistryOptions{WithBuiltin: true})
	if err != nil {
		panic("failed to initialize default registry: " + err.Error())
	}
	defaultRegistry = registry
}

// Default 进程级默认注册表，预置六种原始类型的转换对
func Default() *Registry {
	return defaultRegistry
}
