package memdx

import (
	"math"
	"time"
)

// Each framing extras entry starts with a byte holding the frame code in the
// high nibble and the body length in the low nibble.  A nibble of 0xF means
// the real value is 15 plus the following escape byte.
const extFrameEscape = 0x0f

func splitExtFrameNibble(val int) (nibble byte, escape []byte, err error) {
	if val < extFrameEscape {
		return byte(val), nil, nil
	}
	if val-extFrameEscape > math.MaxUint8 {
		return 0, nil, protocolError{"extframe value too large to encode"}
	}
	return extFrameEscape, []byte{byte(val - extFrameEscape)}, nil
}

// AppendExtFrame appends a single framing extras entry to buf.
func AppendExtFrame(frameCode ExtFrameCode, frameBody []byte, buf []byte) ([]byte, error) {
	codeNibble, codeEscape, err := splitExtFrameNibble(int(frameCode))
	if err != nil {
		return nil, err
	}

	lenNibble, lenEscape, err := splitExtFrameNibble(len(frameBody))
	if err != nil {
		return nil, err
	}

	buf = append(buf, codeNibble<<4|lenNibble)
	buf = append(buf, codeEscape...)
	buf = append(buf, lenEscape...)
	buf = append(buf, frameBody...)
	return buf, nil
}

func readExtFrameNibble(nibble byte, buf []byte, pos int) (int, int, error) {
	if nibble != extFrameEscape {
		return int(nibble), pos, nil
	}
	if pos >= len(buf) {
		return 0, 0, protocolError{"unexpected eof in framing extras"}
	}
	return extFrameEscape + int(buf[pos]), pos + 1, nil
}

// DecodeExtFrame decodes the first entry of buf, returning its code, its
// body and the number of bytes it occupied.
func DecodeExtFrame(buf []byte) (ExtFrameCode, []byte, int, error) {
	if len(buf) < 1 {
		return 0, nil, 0, protocolError{"empty framing extras entry"}
	}

	pos := 1

	frameCode, pos, err := readExtFrameNibble(buf[0]>>4, buf, pos)
	if err != nil {
		return 0, nil, 0, err
	}

	frameLen, pos, err := readExtFrameNibble(buf[0]&0x0f, buf, pos)
	if err != nil {
		return 0, nil, 0, err
	}

	if len(buf)-pos < frameLen {
		return 0, nil, 0, protocolError{"unexpected eof in framing extras"}
	}

	return ExtFrameCode(frameCode), buf[pos : pos+frameLen], pos + frameLen, nil
}

// IterExtFrames invokes cb for each frame found in a framing extras section.
func IterExtFrames(buf []byte, cb func(ExtFrameCode, []byte)) error {
	for len(buf) > 0 {
		frameCode, frameBody, n, err := DecodeExtFrame(buf)
		if err != nil {
			return err
		}

		cb(frameCode, frameBody)

		buf = buf[n:]
	}

	return nil
}

// The server duration is sent as a 16-bit value approximating
// (2 * microseconds) ^ (1 / 1.74), saturating at 0xffff.
const serverDurationExponent = 1.74

func EncodeServerDurationExtFrame(dura time.Duration) ([]byte, error) {
	duraUs := dura / time.Microsecond
	duraEnc := int(math.Pow(float64(duraUs)*2, 1.0/serverDurationExponent))
	if duraEnc > math.MaxUint16 {
		duraEnc = math.MaxUint16
	}

	return []byte{byte(duraEnc >> 8), byte(duraEnc)}, nil
}

func DecodeServerDurationExtFrame(buf []byte) (time.Duration, error) {
	if len(buf) != 2 {
		return 0, protocolError{"invalid server duration extframe length"}
	}

	duraEnc := uint64(buf[0])<<8 | uint64(buf[1])
	duraUs := math.Round(math.Pow(float64(duraEnc), serverDurationExponent) / 2)
	return time.Duration(duraUs) * time.Microsecond, nil
}

// FindServerDuration looks for a server duration frame within the framing
// extras of a response.  The boolean is false when no such frame exists.
func FindServerDuration(framingExtras []byte) (time.Duration, bool, error) {
	var dura time.Duration
	var found bool
	var decodeErr error

	err := IterExtFrames(framingExtras, func(code ExtFrameCode, body []byte) {
		if code != ExtFrameCodeResServerDuration || found || decodeErr != nil {
			return
		}

		dura, decodeErr = DecodeServerDurationExtFrame(body)
		found = decodeErr == nil
	})
	if err != nil {
		return 0, false, err
	}
	if decodeErr != nil {
		return 0, false, decodeErr
	}

	return dura, found, nil
}
