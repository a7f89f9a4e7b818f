package memdx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a read or write would fall outside the
// bounds of the provided buffer.
var ErrOutOfRange = errors.New("offset out of range")

type outOfRangeError struct {
	offset int
	size   int
	bufLen int
}

func (e outOfRangeError) Error() string {
	return fmt.Sprintf("offset out of range: cannot access %d bytes at offset %d of a %d byte buffer",
		e.size, e.offset, e.bufLen)
}

func (e outOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

func checkRange(buf []byte, offset int, size int) error {
	if offset < 0 || size < 0 || offset > len(buf) || len(buf)-offset < size {
		return outOfRangeError{
			offset: offset,
			size:   size,
			bufLen: len(buf),
		}
	}
	return nil
}

// All of the following helpers read and write in network byte order, which
// is what the memcached binary protocol uses for every multi-byte field.

func ToByte(buf []byte, offset int) (byte, error) {
	if err := checkRange(buf, offset, 1); err != nil {
		return 0, err
	}
	return buf[offset], nil
}

func ToInt16(buf []byte, offset int) (int16, error) {
	val, err := ToUInt16(buf, offset)
	return int16(val), err
}

func ToUInt16(buf []byte, offset int) (uint16, error) {
	if err := checkRange(buf, offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[offset:]), nil
}

func ToInt32(buf []byte, offset int) (int32, error) {
	val, err := ToUInt32(buf, offset)
	return int32(val), err
}

func ToUInt32(buf []byte, offset int) (uint32, error) {
	if err := checkRange(buf, offset, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[offset:]), nil
}

func ToInt64(buf []byte, offset int) (int64, error) {
	val, err := ToUInt64(buf, offset)
	return int64(val), err
}

func ToUInt64(buf []byte, offset int) (uint64, error) {
	if err := checkRange(buf, offset, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[offset:]), nil
}

// ToString decodes length bytes starting at offset as UTF-8.
func ToString(buf []byte, offset int, length int) (string, error) {
	if err := checkRange(buf, offset, length); err != nil {
		return "", err
	}
	return string(buf[offset : offset+length]), nil
}

func FromByte(val byte, buf []byte, offset int) error {
	if err := checkRange(buf, offset, 1); err != nil {
		return err
	}
	buf[offset] = val
	return nil
}

func FromInt16(val int16, buf []byte, offset int) error {
	return FromUInt16(uint16(val), buf, offset)
}

func FromUInt16(val uint16, buf []byte, offset int) error {
	if err := checkRange(buf, offset, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(buf[offset:], val)
	return nil
}

func FromInt32(val int32, buf []byte, offset int) error {
	return FromUInt32(uint32(val), buf, offset)
}

func FromUInt32(val uint32, buf []byte, offset int) error {
	if err := checkRange(buf, offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(buf[offset:], val)
	return nil
}

func FromInt64(val int64, buf []byte, offset int) error {
	return FromUInt64(uint64(val), buf, offset)
}

func FromUInt64(val uint64, buf []byte, offset int) error {
	if err := checkRange(buf, offset, 8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(buf[offset:], val)
	return nil
}

// FromString copies the UTF-8 bytes of val into buf at offset and returns
// the number of bytes written.
func FromString(val string, buf []byte, offset int) (int, error) {
	if err := checkRange(buf, offset, len(val)); err != nil {
		return 0, err
	}
	return copy(buf[offset:], val), nil
}

// GetBit reports whether the bit at index (0 being the least significant)
// is set.  Indexes outside of 0-7 always report false.
func GetBit(val byte, index int) bool {
	if index < 0 || index > 7 {
		return false
	}
	return val&(1<<uint(index)) != 0
}

// SetBit sets or clears the bit at index (0 being the least significant).
// Indexes outside of 0-7 leave the value untouched.
func SetBit(val *byte, index int, set bool) {
	if index < 0 || index > 7 {
		return
	}

	if set {
		*val |= 1 << uint(index)
	} else {
		*val &^= 1 << uint(index)
	}
}
