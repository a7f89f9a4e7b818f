package memdx

import "encoding/binary"

// HeaderLen is the size of the fixed memcached binary protocol header.
const HeaderLen = 24

// Offsets of the fields within the fixed header.
const (
	HeaderOffsetMagic        = 0
	HeaderOffsetOpCode       = 1
	HeaderOffsetKeyLength    = 2
	HeaderOffsetExtrasLength = 4
	HeaderOffsetDatatype     = 5
	HeaderOffsetVbucket      = 6
	HeaderOffsetStatus       = 6
	HeaderOffsetBodyLength   = 8
	HeaderOffsetOpaque       = 12
	HeaderOffsetCas          = 16
)

// OperationHeader is the decoded form of a response header.  It is produced
// once per response and is not modified afterwards.
type OperationHeader struct {
	Magic               Magic
	OpCode              OpCode
	FramingExtrasLength int
	KeyLength           int
	ExtrasLength        int
	Datatype            DatatypeFlag
	Status              Status
	BodyLength          int
	Opaque              uint32
	Cas                 uint64

	// ErrorCode is populated when the status was resolved via the error map.
	ErrorCode *ErrorCode
}

// TotalLength is the length of the full packet including the header.
func (h OperationHeader) TotalLength() int {
	return h.BodyLength + HeaderLen
}

// ExtrasOffset is the offset of the extras within the full packet.
func (h OperationHeader) ExtrasOffset() int {
	return HeaderLen + h.FramingExtrasLength
}

// KeyOffset is the offset of the key within the full packet.
func (h OperationHeader) KeyOffset() int {
	return h.ExtrasOffset() + h.ExtrasLength
}

// ValueOffset is the offset of the value within the full packet.
func (h OperationHeader) ValueOffset() int {
	return h.KeyOffset() + h.KeyLength
}

// ValueLength is the length of the value section of the body.
func (h OperationHeader) ValueLength() int {
	valueLen := h.BodyLength - h.FramingExtrasLength - h.ExtrasLength - h.KeyLength
	if valueLen < 0 {
		return 0
	}
	return valueLen
}

// ParseHeader decodes a response header from the start of buf.  Buffers too
// short to hold a header yield a header with StatusNone, indicating that no
// response is available yet.  Status codes outside of the known enumeration
// are resolved through errMap (which may be nil) to StatusFailure, or to
// StatusUnknownError when the map does not describe them.
func ParseHeader(buf []byte, errMap *ErrorMap) OperationHeader {
	if len(buf) < HeaderLen {
		return OperationHeader{
			Status: StatusNone,
		}
	}

	var hdr OperationHeader

	hdr.Magic = Magic(buf[HeaderOffsetMagic])
	hdr.OpCode = OpCode(buf[HeaderOffsetOpCode])

	if hdr.Magic.IsExtended() {
		hdr.FramingExtrasLength = int(buf[HeaderOffsetKeyLength])
		hdr.KeyLength = int(buf[HeaderOffsetKeyLength+1])
	} else {
		hdr.FramingExtrasLength = 0
		hdr.KeyLength = int(binary.BigEndian.Uint16(buf[HeaderOffsetKeyLength:]))
	}

	hdr.ExtrasLength = int(buf[HeaderOffsetExtrasLength])
	hdr.Datatype = DatatypeFlag(buf[HeaderOffsetDatatype])
	hdr.BodyLength = int(binary.BigEndian.Uint32(buf[HeaderOffsetBodyLength:]))
	hdr.Opaque = binary.BigEndian.Uint32(buf[HeaderOffsetOpaque:])
	hdr.Cas = binary.BigEndian.Uint64(buf[HeaderOffsetCas:])

	status := Status(binary.BigEndian.Uint16(buf[HeaderOffsetStatus:]))
	if status.IsKnown() {
		hdr.Status = status
	} else if errCode, ok := errMap.Lookup(status); ok {
		hdr.Status = StatusFailure
		hdr.ErrorCode = errCode
	} else {
		hdr.Status = StatusUnknownError
	}

	return hdr
}
