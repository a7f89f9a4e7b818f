package gocbkvx

import (
	"time"

	"github.com/couchbase/gocbkvx/commonflags"
	"github.com/couchbase/gocbkvx/contrib/cbconfig"
	"github.com/couchbase/gocbkvx/memdx"
)

// OperationResult is the terminal outcome of an operation.  Fields which do
// not apply to the operation are left at their zero value.
type OperationResult struct {
	Success   bool
	Message   string
	Status    memdx.Status
	Cas       uint64
	Token     MutationToken
	Err       error
	OpCode    memdx.OpCode
	ErrorCode *memdx.ErrorCode

	// Value is the raw (decompressed) document body for read operations.
	Value    []byte
	Flags    commonflags.Flags
	Datatype memdx.DatatypeFlag

	Counter  uint64
	Features []memdx.HelloFeature
	ErrorMap *memdx.ErrorMap
	Config   *cbconfig.TerseConfigJson
	Observe  *ObserveState

	// ServerDuration is the server-side processing time, when the response
	// carried one.
	ServerDuration time.Duration

	transcoder Transcoder
}

// ContentAs decodes the document value into valuePtr using the transcoder
// the operation was created with.
func (r *OperationResult) ContentAs(valuePtr interface{}) error {
	if !r.Success || r.Value == nil {
		return ErrNoValue
	}

	transcoder := r.transcoder
	if transcoder == nil {
		transcoder = DefaultTranscoder{}
	}

	return transcoder.Decode(r.Value, r.Flags, r.OpCode, valuePtr)
}
