package memdx

import (
	"encoding/binary"
	"io"
	"math"
)

// EncodeHeader writes the 24-byte header describing pak into headerBuf.
func EncodeHeader(headerBuf []byte, pak *Packet) error {
	if len(headerBuf) < HeaderLen {
		return protocolError{"header buffer too small"}
	}

	extFramesLen := len(pak.FramingExtras)
	extrasLen := len(pak.Extras)
	keyLen := len(pak.Key)
	valueLen := len(pak.Value)
	payloadLen := extFramesLen + extrasLen + keyLen + valueLen

	headerBuf[HeaderOffsetMagic] = uint8(pak.Magic)
	headerBuf[HeaderOffsetOpCode] = uint8(pak.OpCode)

	if pak.Magic == MagicReq || pak.Magic == MagicRes {
		if extFramesLen > 0 {
			return protocolError{"cannot use framing extras with non-ext packets"}
		}

		if keyLen > math.MaxUint16 {
			return protocolError{"key too long to encode"}
		}

		binary.BigEndian.PutUint16(headerBuf[HeaderOffsetKeyLength:], uint16(keyLen))
	} else if pak.Magic == MagicReqExt || pak.Magic == MagicResExt {
		if extFramesLen > math.MaxUint8 {
			return protocolError{"framing extras too long to encode"}
		}

		if keyLen > math.MaxUint8 {
			return protocolError{"key too long to encode"}
		}

		headerBuf[HeaderOffsetKeyLength] = uint8(extFramesLen)
		headerBuf[HeaderOffsetKeyLength+1] = uint8(keyLen)
	} else {
		return protocolError{"invalid magic for key length encoding"}
	}

	if extrasLen > math.MaxUint8 {
		return protocolError{"extras too long to encode"}
	}
	headerBuf[HeaderOffsetExtrasLength] = uint8(extrasLen)

	headerBuf[HeaderOffsetDatatype] = pak.Datatype

	if pak.Magic.IsRequest() {
		if pak.Status != 0 {
			return protocolError{"cannot specify status in a request packet"}
		}

		binary.BigEndian.PutUint16(headerBuf[HeaderOffsetVbucket:], pak.VbucketID)
	} else {
		if pak.VbucketID != 0 {
			return protocolError{"cannot specify vbucket in a response packet"}
		}

		binary.BigEndian.PutUint16(headerBuf[HeaderOffsetStatus:], uint16(pak.Status))
	}

	if payloadLen > math.MaxUint32 {
		return protocolError{"packet too long to encode"}
	}
	binary.BigEndian.PutUint32(headerBuf[HeaderOffsetBodyLength:], uint32(payloadLen))

	binary.BigEndian.PutUint32(headerBuf[HeaderOffsetOpaque:], pak.Opaque)

	binary.BigEndian.PutUint64(headerBuf[HeaderOffsetCas:], pak.Cas)

	return nil
}

// AppendPacket appends the full wire encoding of pak to buf, in the order
// header, framing extras, extras, key and value.
func AppendPacket(buf []byte, pak *Packet) ([]byte, error) {
	// we intentionally guarentee that headerBuf never escapes this function
	// so this will end up not needing to actually allocate (will go on stack)
	var headerBuf [HeaderLen]byte
	err := EncodeHeader(headerBuf[:], pak)
	if err != nil {
		return nil, err
	}

	totalLen := HeaderLen + len(pak.FramingExtras) + len(pak.Extras) + len(pak.Key) + len(pak.Value)

	// if the buffer isn't big enough, do a single resize so
	// we dont incrementally increase its size on each append.
	if cap(buf)-len(buf) < totalLen {
		newBuf := make([]byte, len(buf), len(buf)+totalLen)
		copy(newBuf, buf)
		buf = newBuf
	}

	buf = append(buf, headerBuf[:]...)
	buf = append(buf, pak.FramingExtras...)
	buf = append(buf, pak.Extras...)
	buf = append(buf, pak.Key...)
	buf = append(buf, pak.Value...)

	return buf, nil
}

type PacketWriter struct {
	// we use a heap-allocated write buffer since io.Write will cause
	// the buffer to escape regardless of what we want.
	writeBuf []byte
}

func (pw *PacketWriter) WritePacket(w io.Writer, pak *Packet) error {
	writeBuf, err := AppendPacket(pw.writeBuf[:0], pak)
	if err != nil {
		return err
	}
	pw.writeBuf = writeBuf

	// Write guarentees that err is returned if n<len, so we can just ignore
	// n and only inspect the error to determine if something went wrong...
	_, err = w.Write(pw.writeBuf)
	if err != nil {
		return err
	}

	return nil
}
