package memdx

import (
	"encoding/hex"
)

// Status is the 16-bit status field of a response header.
type Status uint16

// Statuses sent by the server.
const (
	StatusSuccess      = Status(0x00)
	StatusKeyNotFound  = Status(0x01)
	StatusKeyExists    = Status(0x02) // also returned on a CAS mismatch
	StatusTooBig       = Status(0x03)
	StatusInvalidArgs  = Status(0x04)
	StatusNotStored    = Status(0x05)
	StatusBadDelta     = Status(0x06)
	StatusNotMyVBucket = Status(0x07) // the body may carry a newer bucket config
	StatusNoBucket     = Status(0x08)
	StatusLocked       = Status(0x09)

	StatusAuthStale      = Status(0x1f)
	StatusAuthError      = Status(0x20)
	StatusAuthContinue   = Status(0x21) // another SASL step is required
	StatusRangeError     = Status(0x22)
	StatusAccessError    = Status(0x24)
	StatusNotInitialized = Status(0x25)

	StatusRateLimitedNetworkIngress         = Status(0x30)
	StatusRateLimitedNetworkEgress          = Status(0x31)
	StatusRateLimitedMaxConnections         = Status(0x32)
	StatusRateLimitedMaxCommands            = Status(0x33)
	StatusRateLimitedScopeSizeLimitExceeded = Status(0x34)

	StatusUnknownCommand        = Status(0x81)
	StatusOutOfMemory           = Status(0x82)
	StatusNotSupported          = Status(0x83)
	StatusInternalError         = Status(0x84)
	StatusBusy                  = Status(0x85)
	StatusTmpFail               = Status(0x86)
	StatusCollectionUnknown     = Status(0x88)
	StatusNoCollectionsManifest = Status(0x89)
	StatusScopeUnknown          = Status(0x8c)

	StatusDurabilityInvalidLevel      = Status(0xa0)
	StatusDurabilityImpossible        = Status(0xa1)
	StatusSyncWriteInProgress         = Status(0xa2)
	StatusSyncWriteAmbiguous          = Status(0xa3)
	StatusSyncWriteReCommitInProgress = Status(0xa4)
)

// The following statuses are never sent by the server.  They are synthesized
// locally so that client-side failures share the same result shape as server
// responses.  None, UnknownError and Failure occupy the top of the 16-bit
// range so they read as -1, -2 and -3 when viewed as signed values.
const (
	// StatusNone indicates that no response has been received yet.
	StatusNone = Status(0xffff)

	// StatusUnknownError indicates the server returned a status that is neither
	// a known status nor described by the connection's error map.
	StatusUnknownError = Status(0xfffe)

	// StatusFailure indicates the server returned a status that is only known
	// through the connection's error map.
	StatusFailure = Status(0xfffd)

	// StatusClientFailure indicates a failure occurred locally while encoding or
	// decoding an operation.
	StatusClientFailure = Status(0x0199)

	StatusOperationTimeout = Status(0x0200)
	StatusTransportFailure = Status(0x0500)
)

var statusNames = map[Status]string{
	StatusSuccess:      "Success",
	StatusKeyNotFound:  "KeyNotFound",
	StatusKeyExists:    "KeyExists",
	StatusTooBig:       "TooBig",
	StatusInvalidArgs:  "InvalidArgs",
	StatusNotStored:    "NotStored",
	StatusBadDelta:     "BadDelta",
	StatusNotMyVBucket: "NotMyVBucket",
	StatusNoBucket:     "NoBucket",
	StatusLocked:       "Locked",

	StatusAuthStale:      "AuthStale",
	StatusAuthError:      "AuthError",
	StatusAuthContinue:   "AuthContinue",
	StatusRangeError:     "RangeError",
	StatusAccessError:    "AccessError",
	StatusNotInitialized: "NotInitialized",

	StatusRateLimitedNetworkIngress:         "RateLimitedNetworkIngress",
	StatusRateLimitedNetworkEgress:          "RateLimitedNetworkEgress",
	StatusRateLimitedMaxConnections:         "RateLimitedMaxConnections",
	StatusRateLimitedMaxCommands:            "RateLimitedMaxCommands",
	StatusRateLimitedScopeSizeLimitExceeded: "RateLimitedScopeSizeLimitExceeded",

	StatusUnknownCommand:        "UnknownCommand",
	StatusOutOfMemory:           "OutOfMemory",
	StatusNotSupported:          "NotSupported",
	StatusInternalError:         "InternalError",
	StatusBusy:                  "Busy",
	StatusTmpFail:               "TmpFail",
	StatusCollectionUnknown:     "CollectionUnknown",
	StatusNoCollectionsManifest: "NoCollectionsManifest",
	StatusScopeUnknown:          "ScopeUnknown",

	StatusDurabilityInvalidLevel:      "DurabilityInvalidLevel",
	StatusDurabilityImpossible:        "DurabilityImpossible",
	StatusSyncWriteInProgress:         "SyncWriteInProgress",
	StatusSyncWriteAmbiguous:          "SyncWriteAmbiguous",
	StatusSyncWriteReCommitInProgress: "SyncWriteReCommitInProgress",

	StatusNone:             "None",
	StatusUnknownError:     "UnknownError",
	StatusFailure:          "Failure",
	StatusClientFailure:    "ClientFailure",
	StatusOperationTimeout: "OperationTimeout",
	StatusTransportFailure: "TransportFailure",
}

// IsKnown reports whether this status is a member of the core status
// enumeration (as opposed to one only described by an error map).
func (s Status) IsKnown() bool {
	_, ok := statusNames[s]
	return ok
}

// Code returns the status as the signed value used in status messages, so
// that the client-synthesized statuses read as small negative numbers.
func (s Status) Code() int {
	return int(int16(s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "x" + hex.EncodeToString([]byte{byte(s >> 8), byte(s)})
}
