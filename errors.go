package gocbkvx

import (
	"errors"
	"fmt"

	"github.com/couchbase/gocbkvx/memdx"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOpaqueMismatch    = errors.New("opaque mismatch")
	ErrOperationReleased = errors.New("operation already released")
	ErrDocumentLocked    = errors.New("document locked")
	ErrNoValue           = errors.New("result has no value")
)

type invalidArgError struct {
	Message string
}

func (e invalidArgError) Error() string {
	return "invalid argument: " + e.Message
}

func (e invalidArgError) Unwrap() error {
	return ErrInvalidArgument
}

// ClientError is a failure which occurred locally while encoding a request or
// decoding a response.  Results carrying one report StatusClientFailure.
type ClientError struct {
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Cause.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// DocumentLockedError is returned when the server rejected an operation
// because the document is locked by another actor.
type DocumentLockedError struct {
	Status  memdx.Status
	Message string
}

func (e *DocumentLockedError) Error() string {
	return fmt.Sprintf("document locked (status %s): %s", e.Status, e.Message)
}

func (e *DocumentLockedError) Unwrap() error {
	return ErrDocumentLocked
}

// KvResponseError carries the extended error context the server attached to
// a failed response.
type KvResponseError struct {
	Status  memdx.Status
	OpCode  memdx.OpCode
	Opaque  uint32
	Context string
	Ref     string
}

func (e *KvResponseError) Error() string {
	return fmt.Sprintf("%s failed with status %s (context: %q, ref: %q, opaque: %d)",
		e.OpCode, e.Status, e.Context, e.Ref, e.Opaque)
}
