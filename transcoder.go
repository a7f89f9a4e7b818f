package gocbkvx

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/couchbase/gocbkvx/commonflags"
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/pkg/errors"
)

// Transcoder converts between typed values and the bytes stored on the
// server.  The flags describe the stored format and the opcode allows
// counter operations to use their fixed numeric encoding.
type Transcoder interface {
	Encode(value interface{}, flags commonflags.Flags, opCode memdx.OpCode) ([]byte, error)
	Decode(buf []byte, flags commonflags.Flags, opCode memdx.OpCode, valuePtr interface{}) error
}

// DefaultTranscoder stores byte slices as binary data, strings as raw UTF-8
// and everything else as JSON.
type DefaultTranscoder struct{}

var _ Transcoder = DefaultTranscoder{}

func isCounterOp(opCode memdx.OpCode) bool {
	return opCode == memdx.OpCodeIncrement || opCode == memdx.OpCodeDecrement
}

func (t DefaultTranscoder) Encode(value interface{}, flags commonflags.Flags, opCode memdx.OpCode) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	if isCounterOp(opCode) {
		counter, ok := value.(uint64)
		if !ok {
			return nil, invalidArgError{"counter values must be uint64"}
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, counter)
		return buf, nil
	}

	switch flags.DataFormat {
	case commonflags.DataFormatBinary:
		switch typedValue := value.(type) {
		case []byte:
			return typedValue, nil
		case *[]byte:
			return *typedValue, nil
		}
		return nil, invalidArgError{
			fmt.Sprintf("value of type %T does not match data format %s", value, flags.DataFormat)}

	case commonflags.DataFormatString, commonflags.DataFormatReserved, commonflags.DataFormatPrivate:
		switch typedValue := value.(type) {
		case string:
			return []byte(typedValue), nil
		case *string:
			return []byte(*typedValue), nil
		case []byte:
			return typedValue, nil
		}
		return t.encodeJSON(value)

	case commonflags.DataFormatJSON:
		return t.encodeJSON(value)
	}

	return nil, invalidArgError{fmt.Sprintf("unsupported data format %s", flags.DataFormat)}
}

func (t DefaultTranscoder) encodeJSON(value interface{}) ([]byte, error) {
	if raw, ok := value.(json.RawMessage); ok {
		return raw, nil
	}

	buf, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode value as json")
	}
	return buf, nil
}

func (t DefaultTranscoder) Decode(buf []byte, flags commonflags.Flags, opCode memdx.OpCode, valuePtr interface{}) error {
	if valuePtr == nil {
		return invalidArgError{"value pointer cannot be nil"}
	}

	if isCounterOp(opCode) {
		counterPtr, ok := valuePtr.(*uint64)
		if !ok {
			return invalidArgError{"counter values must be decoded into *uint64"}
		}
		if len(buf) < 8 {
			return errors.Errorf("counter value must be 8 bytes, got %d", len(buf))
		}
		*counterPtr = binary.BigEndian.Uint64(buf)
		return nil
	}

	switch typedPtr := valuePtr.(type) {
	case *[]byte:
		*typedPtr = append((*typedPtr)[:0], buf...)
		return nil
	case *string:
		*typedPtr = string(buf)
		return nil
	case *json.RawMessage:
		*typedPtr = append((*typedPtr)[:0], buf...)
		return nil
	case *interface{}:
		switch flags.DataFormat {
		case commonflags.DataFormatBinary:
			*typedPtr = append([]byte(nil), buf...)
			return nil
		case commonflags.DataFormatString:
			*typedPtr = string(buf)
			return nil
		}
	}

	switch flags.DataFormat {
	case commonflags.DataFormatBinary:
		return invalidArgError{
			fmt.Sprintf("binary values can only be decoded into *[]byte, not %s", reflect.TypeOf(valuePtr))}
	case commonflags.DataFormatString:
		return invalidArgError{
			fmt.Sprintf("string values can only be decoded into *string, not %s", reflect.TypeOf(valuePtr))}
	}

	err := json.Unmarshal(buf, valuePtr)
	if err != nil {
		return errors.Wrap(err, "failed to decode json value")
	}
	return nil
}
