package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/hatlonely/relx/coltype"
)

type profile struct {
	Nickname string `json:"nickname" bson:"nickname" msgpack:"nickname"`
	Age      int    `json:"age" bson:"age" msgpack:"age"`
}

func TestJSONRoundTrip(t *testing.T) {
	pair := JSON[profile]()
	assert.Equal(t, coltype.StorageTypeBinary, pair.StorageType)

	raw, err := pair.ToRaw(profile{Nickname: "张三", Age: 30})
	assert.NoError(t, err)

	domain, err := pair.ToDomain(raw)
	assert.NoError(t, err)
	assert.Equal(t, profile{Nickname: "张三", Age: 30}, domain)
}

func TestMsgPackRoundTrip(t *testing.T) {
	pair := MsgPack[profile]()

	raw, err := pair.ToRaw(profile{Nickname: "李四", Age: 25})
	assert.NoError(t, err)

	domain, err := pair.ToDomain(raw)
	assert.NoError(t, err)
	assert.Equal(t, profile{Nickname: "李四", Age: 25}, domain)
}

func TestBSONRoundTrip(t *testing.T) {
	pair := BSON[profile]()

	raw, err := pair.ToRaw(profile{Nickname: "王五", Age: 40})
	assert.NoError(t, err)

	domain, err := pair.ToDomain(raw)
	assert.NoError(t, err)
	assert.Equal(t, profile{Nickname: "王五", Age: 40}, domain)
}

func TestProtobufRoundTrip(t *testing.T) {
	pair := Protobuf[*wrapperspb.StringValue]()

	raw, err := pair.ToRaw(wrapperspb.String("hello"))
	assert.NoError(t, err)

	domain, err := pair.ToDomain(raw)
	assert.NoError(t, err)
	assert.Equal(t, "hello", domain.(*wrapperspb.StringValue).GetValue())
}

func TestCodecTypeMismatch(t *testing.T) {
	pair := JSON[profile]()

	_, err := pair.ToRaw("not a profile")
	assert.Error(t, err)

	_, err = pair.ToDomain("not bytes")
	assert.Error(t, err)
}
