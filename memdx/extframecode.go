package memdx

// ExtFrameCode identifies the kind of a single framing extras entry.  Request
// and response frames are numbered independently.
type ExtFrameCode uint16

// Frames the server may attach to an alternate-framed response.
const (
	ExtFrameCodeResServerDuration   = ExtFrameCode(0x00)
	ExtFrameCodeResReadUnits        = ExtFrameCode(0x01)
	ExtFrameCodeResWriteUnits       = ExtFrameCode(0x02)
	ExtFrameCodeResThrottleDuration = ExtFrameCode(0x03)
)
