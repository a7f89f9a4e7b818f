package commonflags

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
)

// DataFormat is the 4-bit format of the value as recorded in the flags.
type DataFormat uint8

const (
	DataFormatReserved = DataFormat(0)
	DataFormatPrivate  = DataFormat(1)
	DataFormatJSON     = DataFormat(2)
	DataFormatBinary   = DataFormat(3)
	DataFormatString   = DataFormat(4)
)

func (f DataFormat) String() string {
	switch f {
	case DataFormatReserved:
		return "reserved"
	case DataFormatPrivate:
		return "private"
	case DataFormatJSON:
		return "json"
	case DataFormatBinary:
		return "binary"
	case DataFormatString:
		return "string"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Compression is the 3-bit compression mode recorded in the flags.
type Compression uint8

const (
	CompressionNone = Compression(0)
)

// TypeCode describes the concrete type the value was encoded from.
type TypeCode uint16

const (
	TypeCodeEmpty    = TypeCode(0)
	TypeCodeObject   = TypeCode(1)
	TypeCodeDBNull   = TypeCode(2)
	TypeCodeBoolean  = TypeCode(3)
	TypeCodeChar     = TypeCode(4)
	TypeCodeSByte    = TypeCode(5)
	TypeCodeByte     = TypeCode(6)
	TypeCodeInt16    = TypeCode(7)
	TypeCodeUInt16   = TypeCode(8)
	TypeCodeInt32    = TypeCode(9)
	TypeCodeUInt32   = TypeCode(10)
	TypeCodeInt64    = TypeCode(11)
	TypeCodeUInt64   = TypeCode(12)
	TypeCodeSingle   = TypeCode(13)
	TypeCodeDouble   = TypeCode(14)
	TypeCodeDecimal  = TypeCode(15)
	TypeCodeDateTime = TypeCode(16)
	TypeCodeString   = TypeCode(18)
)

// ExtrasLen is the number of extras bytes occupied by the flags field.
const ExtrasLen = 4

var ErrShortExtras = errors.New("extras too short to hold flags")

// Flags is the per-document format descriptor.  Values are computed on
// demand and never shared.
type Flags struct {
	DataFormat  DataFormat
	Compression Compression
	TypeCode    TypeCode
}

// JSONFlags is the descriptor used for server-generated JSON payloads such
// as cluster configurations.
func JSONFlags() Flags {
	return Flags{
		DataFormat:  DataFormatJSON,
		Compression: CompressionNone,
		TypeCode:    TypeCodeObject,
	}
}

// FlagsForValue computes the descriptor for a value about to be stored.
func FlagsForValue(value interface{}) Flags {
	flags := Flags{
		DataFormat:  DataFormatJSON,
		Compression: CompressionNone,
		TypeCode:    typeCodeOf(value),
	}

	switch value.(type) {
	case []byte:
		flags.DataFormat = DataFormatBinary
	case string:
		flags.DataFormat = DataFormatString
	}

	return flags
}

func typeCodeOf(value interface{}) TypeCode {
	switch value.(type) {
	case nil:
		return TypeCodeEmpty
	case bool:
		return TypeCodeBoolean
	case int8:
		return TypeCodeSByte
	case uint8:
		return TypeCodeByte
	case int16:
		return TypeCodeInt16
	case uint16:
		return TypeCodeUInt16
	case int32:
		return TypeCodeInt32
	case uint32:
		return TypeCodeUInt32
	case int64, int:
		return TypeCodeInt64
	case uint64, uint:
		return TypeCodeUInt64
	case float32:
		return TypeCodeSingle
	case float64:
		return TypeCodeDouble
	case time.Time:
		return TypeCodeDateTime
	case string:
		return TypeCodeString
	}
	return TypeCodeObject
}

// ReadFlags decodes the descriptor from the first four bytes of extras.
// Byte 0 holds the data format in bits 0-3 and the compression in bits
// 4-6; bytes 2-3 hold the type code.
func ReadFlags(extras []byte) (Flags, error) {
	if len(extras) < ExtrasLen {
		return Flags{}, ErrShortExtras
	}

	b := extras[0]

	var format uint8
	for bit := 0; bit < 4; bit++ {
		if memdx.GetBit(b, bit) {
			format |= 1 << uint(bit)
		}
	}

	var compression uint8
	for bit := 4; bit < 7; bit++ {
		if memdx.GetBit(b, bit) {
			compression |= 1 << uint(bit-4)
		}
	}

	if format == 0 && compression == 0 {
		return FromCommonFlags(binary.BigEndian.Uint32(extras)), nil
	}

	return Flags{
		DataFormat:  DataFormat(format),
		Compression: Compression(compression),
		TypeCode:    TypeCode(binary.BigEndian.Uint16(extras[2:])),
	}, nil
}

// Write encodes the descriptor into the first four bytes of extras.  Bit 7
// of byte 0 and the whole of byte 1 are always written as zero.
func (f Flags) Write(extras []byte) error {
	if len(extras) < ExtrasLen {
		return ErrShortExtras
	}

	var b byte
	for bit := 0; bit < 4; bit++ {
		memdx.SetBit(&b, bit, uint8(f.DataFormat)&(1<<uint(bit)) != 0)
	}
	for bit := 4; bit < 7; bit++ {
		memdx.SetBit(&b, bit, uint8(f.Compression)&(1<<uint(bit-4)) != 0)
	}
	memdx.SetBit(&b, 7, false)

	extras[0] = b
	extras[1] = 0
	binary.BigEndian.PutUint16(extras[2:], uint16(f.TypeCode))

	return nil
}
