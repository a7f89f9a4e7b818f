package memdx

import "encoding/hex"

// Magic is the first byte of every packet.  It tells requests from
// responses and classic framing from the alternate framing, which places a
// framing extras length in the byte the key length would otherwise use.
type Magic uint8

const (
	MagicReq    = Magic(0x80)
	MagicRes    = Magic(0x81)
	MagicReqExt = Magic(0x08)
	MagicResExt = Magic(0x18)
)

func (m Magic) IsRequest() bool {
	switch m {
	case MagicReq, MagicReqExt:
		return true
	}
	return false
}

func (m Magic) IsResponse() bool {
	switch m {
	case MagicRes, MagicResExt:
		return true
	}
	return false
}

// IsExtended reports whether the packet uses the alternate framing.
func (m Magic) IsExtended() bool {
	return m == MagicReqExt || m == MagicResExt
}

func (m Magic) IsValid() bool {
	return m.IsRequest() || m.IsResponse()
}

func (m Magic) String() string {
	switch m {
	case MagicReq:
		return "req"
	case MagicRes:
		return "res"
	case MagicReqExt:
		return "req-ext"
	case MagicResExt:
		return "res-ext"
	}
	return "x" + hex.EncodeToString([]byte{byte(m)})
}
