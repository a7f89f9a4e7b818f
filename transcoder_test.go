package gocbkvx

import (
	"testing"

	"github.com/couchbase/gocbkvx/commonflags"
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDefaultTranscoderJSON(t *testing.T) {
	tc := DefaultTranscoder{}
	doc := testDoc{Name: "bob", Count: 3}

	flags := commonflags.FlagsForValue(doc)
	buf, err := tc.Encode(doc, flags, memdx.OpCodeSet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"bob","count":3}`, string(buf))

	var out testDoc
	require.NoError(t, tc.Decode(buf, flags, memdx.OpCodeGet, &out))
	assert.Equal(t, doc, out)

	var generic interface{}
	require.NoError(t, tc.Decode(buf, flags, memdx.OpCodeGet, &generic))
	assert.Equal(t, map[string]interface{}{"name": "bob", "count": float64(3)}, generic)
}

func TestDefaultTranscoderBinaryAndString(t *testing.T) {
	tc := DefaultTranscoder{}

	raw := []byte{0x00, 0x01, 0xff}
	buf, err := tc.Encode(raw, commonflags.FlagsForValue(raw), memdx.OpCodeSet)
	require.NoError(t, err)
	assert.Equal(t, raw, buf)

	var rawOut []byte
	require.NoError(t, tc.Decode(buf, commonflags.FlagsForValue(raw), memdx.OpCodeGet, &rawOut))
	assert.Equal(t, raw, rawOut)

	var badOut testDoc
	err = tc.Decode(buf, commonflags.FlagsForValue(raw), memdx.OpCodeGet, &badOut)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	str := "hello world"
	buf, err = tc.Encode(str, commonflags.FlagsForValue(str), memdx.OpCodeAppend)
	require.NoError(t, err)
	assert.Equal(t, []byte(str), buf)

	var strOut string
	require.NoError(t, tc.Decode(buf, commonflags.FlagsForValue(str), memdx.OpCodeGet, &strOut))
	assert.Equal(t, str, strOut)
}

func TestDefaultTranscoderBinaryMismatch(t *testing.T) {
	tc := DefaultTranscoder{}

	binaryFlags := commonflags.Flags{DataFormat: commonflags.DataFormatBinary}
	_, err := tc.Encode(testDoc{}, binaryFlags, memdx.OpCodeSet)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDefaultTranscoderCounter(t *testing.T) {
	tc := DefaultTranscoder{}

	buf, err := tc.Encode(uint64(0x0102), commonflags.Flags{}, memdx.OpCodeIncrement)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x01, 0x02}, buf)

	var counter uint64
	require.NoError(t, tc.Decode(buf, commonflags.Flags{}, memdx.OpCodeDecrement, &counter))
	assert.Equal(t, uint64(0x0102), counter)

	err = tc.Decode([]byte{0x01}, commonflags.Flags{}, memdx.OpCodeIncrement, &counter)
	assert.Error(t, err)
}

func TestDefaultTranscoderInvalidJSON(t *testing.T) {
	tc := DefaultTranscoder{}

	var out testDoc
	err := tc.Decode([]byte(`{"name":`), commonflags.JSONFlags(), memdx.OpCodeGet, &out)
	assert.Error(t, err)

	err = tc.Decode([]byte(`{}`), commonflags.JSONFlags(), memdx.OpCodeGet, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
