package codec

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/proto"

	"github.com/hatlonely/relx/coltype"
)

// 二进制列的编解码转换对，用于把任意领域类型注册到 binary 存储类型上

func JSON[T any]() *coltype.ConverterPair {
	return binaryPair[T](
		func(v T) ([]byte, error) { return json.Marshal(v) },
		func(buf []byte, v *T) error { return json.Unmarshal(buf, v) },
	)
}

func MsgPack[T any]() *coltype.ConverterPair {
	return binaryPair[T](
		func(v T) ([]byte, error) { return msgpack.Marshal(v) },
		func(buf []byte, v *T) error { return msgpack.Unmarshal(buf, v) },
	)
}

func BSON[T any]() *coltype.ConverterPair {
	return binaryPair[T](
		func(v T) ([]byte, error) { return bson.Marshal(v) },
		func(buf []byte, v *T) error { return bson.Unmarshal(buf, v) },
	)
}

func Protobuf[T proto.Message]() *coltype.ConverterPair {
	return &coltype.ConverterPair{
		StorageType: coltype.StorageTypeBinary,
		ToDomain: func(raw any) (any, error) {
			buf, ok := raw.([]byte)
			if !ok {
				return nil, errors.Errorf("expected []byte, got %T", raw)
			}
			// T 是指针类型，需要先创建底层消息
			msg := reflect.New(reflect.TypeFor[T]().Elem()).Interface().(T)
			if err := proto.Unmarshal(buf, msg); err != nil {
				return nil, errors.WithMessage(err, "proto.Unmarshal failed")
			}
			return msg, nil
		},
		ToRaw: func(domain any) (any, error) {
			msg, ok := domain.(T)
			if !ok {
				return nil, errors.Errorf("expected %v, got %T", reflect.TypeFor[T](), domain)
			}
			buf, err := proto.Marshal(msg)
			if err != nil {
				return nil, errors.WithMessage(err, "proto.Marshal failed")
			}
			return buf, nil
		},
	}
}

func binaryPair[T any](marshal func(T) ([]byte, error), unmarshal func([]byte, *T) error) *coltype.ConverterPair {
	return &coltype.ConverterPair{
		StorageType: coltype.StorageTypeBinary,
		ToDomain: func(raw any) (any, error) {
			buf, ok := raw.([]byte)
			if !ok {
				return nil, errors.Errorf("expected []byte, got %T", raw)
			}
			var v T
			if err := unmarshal(buf, &v); err != nil {
				return nil, errors.WithMessage(err, "unmarshal failed")
			}
			return v, nil
		},
		ToRaw: func(domain any) (any, error) {
			v, ok := domain.(T)
			if !ok {
				return nil, errors.Errorf("expected %v, got %T", reflect.TypeFor[T](), domain)
			}
			buf, err := marshal(v)
			if err != nil {
				return nil, errors.WithMessage(err, "marshal failed")
			}
			return buf, nil
		},
	}
}
