package memdx

import (
	"encoding/binary"
	"io"
)

type PacketReader struct {
	// we use this heap-allocated read buffer since io.Read will cause
	// the buffer to escape.
	readHeaderBuf []byte
}

// ReadFrame reads one complete frame (header and body) from r and returns
// its raw bytes.  The returned slice is newly allocated and owned by the
// caller.
func (pr *PacketReader) ReadFrame(r io.Reader) ([]byte, error) {
	if len(pr.readHeaderBuf) != HeaderLen {
		pr.readHeaderBuf = make([]byte, HeaderLen)
	}
	headerBuf := pr.readHeaderBuf

	_, err := io.ReadFull(r, headerBuf)
	if err != nil {
		return nil, err
	}

	if !Magic(headerBuf[HeaderOffsetMagic]).IsValid() {
		return nil, protocolError{"invalid magic"}
	}

	payloadLen := int(binary.BigEndian.Uint32(headerBuf[HeaderOffsetBodyLength:]))

	frame := make([]byte, HeaderLen+payloadLen)
	copy(frame, headerBuf)

	_, err = io.ReadFull(r, frame[HeaderLen:])
	if err != nil {
		return nil, err
	}

	return frame, nil
}

// ReadPacket reads one frame from r and decodes it into pak.
func (pr *PacketReader) ReadPacket(r io.Reader, pak *Packet) error {
	frame, err := pr.ReadFrame(r)
	if err != nil {
		return err
	}

	return DecodePacket(frame, pak)
}

// DecodePacket decodes a complete frame into pak.  The slices within pak
// reference frame directly.
func DecodePacket(frame []byte, pak *Packet) error {
	if len(frame) < HeaderLen {
		return protocolError{"frame shorter than header"}
	}

	pak.Magic = Magic(frame[HeaderOffsetMagic])
	pak.OpCode = OpCode(frame[HeaderOffsetOpCode])

	var extFramesLen int
	var keyLen int
	if pak.Magic == MagicReq || pak.Magic == MagicRes {
		extFramesLen = 0
		keyLen = int(binary.BigEndian.Uint16(frame[HeaderOffsetKeyLength:]))
	} else if pak.Magic == MagicReqExt || pak.Magic == MagicResExt {
		extFramesLen = int(frame[HeaderOffsetKeyLength])
		keyLen = int(frame[HeaderOffsetKeyLength+1])
	} else {
		return protocolError{"invalid magic for key length decoding"}
	}

	extrasLen := int(frame[HeaderOffsetExtrasLength])

	pak.Datatype = frame[HeaderOffsetDatatype]

	if pak.Magic.IsRequest() {
		pak.VbucketID = binary.BigEndian.Uint16(frame[HeaderOffsetVbucket:])
		pak.Status = 0
	} else {
		pak.VbucketID = 0
		pak.Status = Status(binary.BigEndian.Uint16(frame[HeaderOffsetStatus:]))
	}

	payloadLen := int(binary.BigEndian.Uint32(frame[HeaderOffsetBodyLength:]))

	pak.Opaque = binary.BigEndian.Uint32(frame[HeaderOffsetOpaque:])

	pak.Cas = binary.BigEndian.Uint64(frame[HeaderOffsetCas:])

	valueLen := payloadLen - extFramesLen - extrasLen - keyLen
	if valueLen < 0 || len(frame) < HeaderLen+payloadLen {
		return protocolError{"frame lengths are inconsistent"}
	}

	payloadBuf := frame[HeaderLen : HeaderLen+payloadLen]
	payloadPos := 0

	pak.FramingExtras = payloadBuf[payloadPos : payloadPos+extFramesLen]
	payloadPos += extFramesLen

	pak.Extras = payloadBuf[payloadPos : payloadPos+extrasLen]
	payloadPos += extrasLen

	pak.Key = payloadBuf[payloadPos : payloadPos+keyLen]
	payloadPos += keyLen

	pak.Value = payloadBuf[payloadPos : payloadPos+valueLen]

	return nil
}
