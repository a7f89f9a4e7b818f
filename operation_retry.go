package gocbkvx

import (
	"time"

	"github.com/couchbase/gocbkvx/memdx"
)

// CanRetry reports whether the operation may be safely resent.  Non
// idempotent mutations are never retried; reads defer to the error map;
// everything else is only retried when guarded by a CAS.
func (op *Operation) CanRetry() bool {
	switch op.family {
	case familyConcat, familyCounter:
		return false
	}

	if op.family.isRead() {
		errCode := op.header.ErrorCode
		return errCode == nil || errCode.IsRetryable()
	}

	return op.cas > 0
}

// TimedOut reports whether the operation has exceeded its timeout, or the
// maximum retry duration published for its error.  Once true it stays true.
func (op *Operation) TimedOut() bool {
	if op.timedOut {
		return true
	}

	elapsed := op.now().Sub(op.creationTime)
	if op.timeout > 0 && elapsed >= op.timeout {
		op.timedOut = true
		return true
	}

	if errCode := op.header.ErrorCode; errCode != nil {
		if maxDura := errCode.MaxDuration(); maxDura > 0 && elapsed >= maxDura {
			op.timedOut = true
			return true
		}
	}

	return false
}

// GetRetryTimeout returns how long to wait before the next attempt.
func (op *Operation) GetRetryTimeout(defaultTimeout time.Duration) time.Duration {
	if op.header.ErrorCode == nil {
		return defaultTimeout
	}
	return op.header.ErrorCode.NextInterval(op.attempts, defaultTimeout)
}

// Clone creates a fresh copy of the request for a retry.  The clone has a
// new opaque and no response state.
func (op *Operation) Clone() *Operation {
	clone := &Operation{
		family: op.family,
		opCode: op.opCode,

		key:     op.key,
		value:   op.value,
		cas:     op.cas,
		opaque:  op.opaques.Next(),
		expiry:  op.expiry,
		vbucket: op.vbucket,

		delta:         op.delta,
		initial:       op.initial,
		lockTime:      op.lockTime,
		features:      op.features,
		errMapVersion: op.errMapVersion,

		attempts:                op.attempts,
		creationTime:            op.creationTime,
		timeout:                 op.timeout,
		lastConfigRevisionTried: op.lastConfigRevisionTried,
		bucketName:              op.bucketName,
		currentHost:             op.currentHost,

		transcoder:     op.transcoder,
		compression:    op.compression,
		supportsSnappy: op.supportsSnappy,
		errMap:         op.errMap,
		opaques:        op.opaques,
		telem:          op.telem,
		now:            op.now,
	}
	clone.header.Status = memdx.StatusNone
	clone.baseLogger = op.baseLogger
	clone.logger = opLogger(op.baseLogger, op.bucketName, op.opCode, clone.opaque)

	return clone
}
