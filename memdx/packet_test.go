package memdx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketWriterReader(t *testing.T) {
	var pw PacketWriter
	var pr PacketReader
	var wire bytes.Buffer

	req := &Packet{
		Magic:     MagicReq,
		OpCode:    OpCodeSet,
		Datatype:  uint8(DatatypeFlagJSON),
		VbucketID: 512,
		Opaque:    99,
		Cas:       1234,
		Extras:    []byte{0x02, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x0a},
		Key:       []byte("user::1"),
		Value:     []byte(`{"a":1}`),
	}
	require.NoError(t, pw.WritePacket(&wire, req))

	var out Packet
	require.NoError(t, pr.ReadPacket(&wire, &out))

	assert.Equal(t, req.Magic, out.Magic)
	assert.Equal(t, req.OpCode, out.OpCode)
	assert.Equal(t, req.Datatype, out.Datatype)
	assert.Equal(t, req.VbucketID, out.VbucketID)
	assert.Equal(t, req.Opaque, out.Opaque)
	assert.Equal(t, req.Cas, out.Cas)
	assert.Equal(t, req.Extras, out.Extras)
	assert.Equal(t, req.Key, out.Key)
	assert.Equal(t, req.Value, out.Value)
	assert.Empty(t, out.FramingExtras)
	assert.Equal(t, 0, wire.Len())
}

func TestReadFrameMultiple(t *testing.T) {
	var wire bytes.Buffer
	var pw PacketWriter

	require.NoError(t, pw.WritePacket(&wire, &Packet{Magic: MagicRes, OpCode: OpCodeNoop, Opaque: 1}))
	require.NoError(t, pw.WritePacket(&wire, &Packet{Magic: MagicRes, OpCode: OpCodeGet, Opaque: 2, Value: []byte("abc")}))

	var pr PacketReader
	frame, err := pr.ReadFrame(&wire)
	require.NoError(t, err)
	assert.Len(t, frame, HeaderLen)

	frame, err = pr.ReadFrame(&wire)
	require.NoError(t, err)
	assert.Len(t, frame, HeaderLen+3)
	assert.Equal(t, uint32(2), ParseHeader(frame, nil).Opaque)
}

func TestReadFrameInvalidMagic(t *testing.T) {
	var pr PacketReader
	_, err := pr.ReadFrame(bytes.NewReader(make([]byte, HeaderLen)))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestEncodeHeaderValidation(t *testing.T) {
	_, err := AppendPacket(nil, &Packet{
		Magic:         MagicReq,
		OpCode:        OpCodeGet,
		FramingExtras: []byte{0x00},
	})
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = AppendPacket(nil, &Packet{
		Magic:  MagicReq,
		OpCode: OpCodeGet,
		Status: StatusKeyNotFound,
	})
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = AppendPacket(nil, &Packet{
		Magic:     MagicRes,
		OpCode:    OpCodeGet,
		VbucketID: 1,
	})
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = AppendPacket(nil, &Packet{
		Magic:  Magic(0x42),
		OpCode: OpCodeGet,
	})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestHelloFeatures(t *testing.T) {
	features := []HelloFeature{HelloFeatureXerror, HelloFeatureSeqNo, HelloFeatureJSON}
	buf := EncodeHelloFeatures(features)
	assert.Equal(t, []byte{0x00, 0x07, 0x00, 0x04, 0x00, 0x0b}, buf)

	decoded, err := DecodeHelloFeatures(buf)
	require.NoError(t, err)
	assert.Equal(t, features, decoded)

	_, err = DecodeHelloFeatures([]byte{0x00})
	assert.ErrorIs(t, err, ErrProtocol)

	assert.Equal(t, "XError", HelloFeatureXerror.String())
	assert.Equal(t, "x00ff", HelloFeature(0xff).String())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "KeyNotFound", StatusKeyNotFound.String())
	assert.Equal(t, "ClientFailure", StatusClientFailure.String())
	assert.Equal(t, "x7ff9", Status(0x7ff9).String())

	assert.Equal(t, -1, StatusNone.Code())
	assert.Equal(t, -2, StatusUnknownError.Code())
	assert.Equal(t, -3, StatusFailure.Code())
	assert.Equal(t, 0x0199, StatusClientFailure.Code())

	assert.True(t, StatusTmpFail.IsKnown())
	assert.False(t, Status(0x7ff9).IsKnown())
}

func TestDatatypeFlagString(t *testing.T) {
	assert.Equal(t, "raw", DatatypeFlagNone.String())
	assert.Equal(t, "json,snappy", (DatatypeFlagJSON | DatatypeFlagCompressed).String())
	assert.True(t, (DatatypeFlagJSON | DatatypeFlagXattrs).Has(DatatypeFlagXattrs))
	assert.False(t, DatatypeFlagJSON.Has(DatatypeFlagCompressed))
}
