package memdx

import "encoding/hex"

// OpCode is the command byte of a request or response.
type OpCode uint8

const (
	OpCodeGet        = OpCode(0x00)
	OpCodeSet        = OpCode(0x01)
	OpCodeAdd        = OpCode(0x02)
	OpCodeReplace    = OpCode(0x03)
	OpCodeDelete     = OpCode(0x04)
	OpCodeIncrement  = OpCode(0x05)
	OpCodeDecrement  = OpCode(0x06)
	OpCodeNoop       = OpCode(0x0a)
	OpCodeAppend     = OpCode(0x0e)
	OpCodePrepend    = OpCode(0x0f)
	OpCodeTouch      = OpCode(0x1c)
	OpCodeGAT        = OpCode(0x1d)
	OpCodeHello      = OpCode(0x1f)
	OpCodeGetReplica = OpCode(0x83)
	OpCodeObserve    = OpCode(0x92)
	OpCodeGetLocked  = OpCode(0x94)
	OpCodeUnlockKey  = OpCode(0x95)

	OpCodeGetClusterConfig = OpCode(0xb5)
	OpCodeGetErrorMap      = OpCode(0xfe)
)

var opCodeNames = map[OpCode]string{
	OpCodeGet:              "GET",
	OpCodeSet:              "SET",
	OpCodeAdd:              "ADD",
	OpCodeReplace:          "REPLACE",
	OpCodeDelete:           "DELETE",
	OpCodeIncrement:        "INCREMENT",
	OpCodeDecrement:        "DECREMENT",
	OpCodeNoop:             "NOOP",
	OpCodeAppend:           "APPEND",
	OpCodePrepend:          "PREPEND",
	OpCodeTouch:            "TOUCH",
	OpCodeGAT:              "GAT",
	OpCodeHello:            "HELLO",
	OpCodeGetReplica:       "GETREPLICA",
	OpCodeObserve:          "OBSERVE",
	OpCodeGetLocked:        "GET_LOCKED",
	OpCodeUnlockKey:        "UNLOCK",
	OpCodeGetClusterConfig: "GETCLUSTERCONFIG",
	OpCodeGetErrorMap:      "GETERRORMAP",
}

// Name returns the protocol name of the opcode, or its hex value when it is
// not one this package issues.
func (command OpCode) Name() string {
	if name, ok := opCodeNames[command]; ok {
		return name
	}
	return "x" + hex.EncodeToString([]byte{byte(command)})
}

func (command OpCode) String() string {
	return command.Name()
}
