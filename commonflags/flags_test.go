package commonflags

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsForValue(t *testing.T) {
	type doc struct {
		Name string `json:"name"`
	}

	testCases := []struct {
		name     string
		value    interface{}
		expected Flags
	}{
		{"bytes", []byte("raw"), Flags{DataFormatBinary, CompressionNone, TypeCodeObject}},
		{"string", "hello", Flags{DataFormatString, CompressionNone, TypeCodeString}},
		{"struct", doc{Name: "x"}, Flags{DataFormatJSON, CompressionNone, TypeCodeObject}},
		{"int", 42, Flags{DataFormatJSON, CompressionNone, TypeCodeInt64}},
		{"uint64", uint64(42), Flags{DataFormatJSON, CompressionNone, TypeCodeUInt64}},
		{"bool", true, Flags{DataFormatJSON, CompressionNone, TypeCodeBoolean}},
		{"float64", 1.5, Flags{DataFormatJSON, CompressionNone, TypeCodeDouble}},
		{"time", time.Unix(0, 0), Flags{DataFormatJSON, CompressionNone, TypeCodeDateTime}},
		{"nil", nil, Flags{DataFormatJSON, CompressionNone, TypeCodeEmpty}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FlagsForValue(tc.value))
		})
	}
}

func TestFlagsWriteLayout(t *testing.T) {
	extras := make([]byte, 8)
	for i := range extras {
		extras[i] = 0xff
	}

	flags := Flags{
		DataFormat:  DataFormatString,
		Compression: Compression(5),
		TypeCode:    TypeCodeString,
	}
	require.NoError(t, flags.Write(extras))

	// format 4 in bits 0-3, compression 5 in bits 4-6, bit 7 clear
	assert.Equal(t, byte(0x54), extras[0])
	assert.Equal(t, byte(0x00), extras[1])
	assert.Equal(t, []byte{0x00, 0x12}, extras[2:4])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, extras[4:8])

	read, err := ReadFlags(extras)
	require.NoError(t, err)
	assert.Equal(t, flags, read)
}

func TestFlagsMatchCommonFlags(t *testing.T) {
	flags := Flags{
		DataFormat:  DataFormatJSON,
		Compression: CompressionNone,
		TypeCode:    TypeCodeObject,
	}

	extras := make([]byte, ExtrasLen)
	require.NoError(t, flags.Write(extras))

	assert.Equal(t, flags.ToCommonFlags(), binary.BigEndian.Uint32(extras))
	assert.Equal(t, uint32(FmtJSON|1), flags.ToCommonFlags())
	assert.Equal(t, flags, FromCommonFlags(flags.ToCommonFlags()))
}

func TestFlagsCompressionBits(t *testing.T) {
	extras := make([]byte, ExtrasLen)
	extras[0] = 0x7f
	binary.BigEndian.PutUint16(extras[2:], uint16(TypeCodeString))

	read, err := ReadFlags(extras)
	require.NoError(t, err)
	assert.Equal(t, DataFormat(0x0f), read.DataFormat)
	assert.Equal(t, Compression(7), read.Compression)

	flags := Flags{DataFormat: DataFormatBinary, Compression: Compression(3), TypeCode: TypeCodeObject}
	require.NoError(t, flags.Write(extras))
	assert.Zero(t, extras[0]&0x80)
	assert.Equal(t, flags.ToCommonFlags(), binary.BigEndian.Uint32(extras))
	assert.Equal(t, flags, FromCommonFlags(flags.ToCommonFlags()))
}

func TestReadFlagsLegacy(t *testing.T) {
	read, err := ReadFlags([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, JSONFlags(), read)

	read, err = ReadFlags([]byte{0, 0, 0, 7})
	require.NoError(t, err)
	assert.Equal(t, DataFormatPrivate, read.DataFormat)
	assert.Equal(t, TypeCode(7), read.TypeCode)
}

func TestFlagsShortExtras(t *testing.T) {
	_, err := ReadFlags([]byte{0x02})
	assert.ErrorIs(t, err, ErrShortExtras)

	err = JSONFlags().Write(make([]byte, 3))
	assert.ErrorIs(t, err, ErrShortExtras)
}
