package gocbkvx

import (
	"fmt"
	"strings"

	"github.com/couchbase/gocbkvx/memdx"
	"go.uber.org/zap"
)

const lockErrorMarker = "lock_error"

func (op *Operation) isSuccess() bool {
	if op.clientErr != nil || op.handledErr != nil {
		return false
	}

	status := op.header.Status
	return status == memdx.StatusSuccess || status == memdx.StatusAuthContinue
}

// GetResponseStatus returns the status to report for the operation.  Local
// failures report ClientFailure, and Locked is reported the way the
// operation's callers expect to see contention.
func (op *Operation) GetResponseStatus() memdx.Status {
	if op.clientErr != nil {
		return memdx.StatusClientFailure
	}

	status := op.header.Status
	if status == memdx.StatusLocked {
		switch op.opCode {
		case memdx.OpCodeSet, memdx.OpCodeReplace, memdx.OpCodeDelete:
			return memdx.StatusKeyExists
		default:
			return memdx.StatusTmpFail
		}
	}

	return status
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

// GetMessage describes why the operation failed, or returns an empty string
// when it succeeded.
func (op *Operation) GetMessage() string {
	if op.isSuccess() {
		return ""
	}

	status := op.GetResponseStatus()
	if status == memdx.StatusNotMyVBucket {
		return memdx.StatusNotMyVBucket.String()
	}

	body := op.bodyText()
	rawStatus := op.header.Status
	if op.serverErr == nil && !op.clientWritten &&
		(rawStatus == memdx.StatusTmpFail || rawStatus == memdx.StatusLocked) &&
		strings.Contains(body, lockErrorMarker) {
		op.serverErr = &DocumentLockedError{
			Status:  rawStatus,
			Message: body,
		}
	}

	var message string
	if op.header.ErrorCode != nil {
		message = op.header.ErrorCode.String()
	} else if err := op.resultErr(); err != nil {
		message = err.Error()
	} else {
		message = fmt.Sprintf("Status code: %s [%d]", status, status.Code())
	}

	if !op.clientWritten && op.header.Datatype.Has(memdx.DatatypeFlagJSON) {
		errCtx, err := memdx.ParseServerErrorContext(op.valueBytes())
		if err != nil {
			op.logger.Debug("failed to parse error context", zap.Error(err))
		} else if !errCtx.IsEmpty() {
			message += fmt.Sprintf(" (Context: %s, Ref #: %s)", orNone(errCtx.Text), orNone(errCtx.Ref))

			if op.resultErr() == nil {
				op.serverErr = &KvResponseError{
					Status:  status,
					OpCode:  op.opCode,
					Opaque:  op.opaque,
					Context: errCtx.Text,
					Ref:     errCtx.Ref,
				}
			}
		}
	}

	return message
}
