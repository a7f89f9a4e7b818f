package gocbkvx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/couchbase/gocbkvx/commonflags"
	"github.com/couchbase/gocbkvx/contrib/cbconfig"
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/couchbase/gocbkvx/zaputils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var hostPlaceholder = []byte("$HOST")

// Read appends a chunk of response bytes.  The header is parsed as soon as
// enough bytes have arrived; a response whose opaque does not match this
// operation is turned into a client failure and the remainder of it is
// discarded.
func (op *Operation) Read(buf []byte) error {
	if op.released {
		return ErrOperationReleased
	}
	if op.discarding || op.result != nil {
		return nil
	}

	if op.buf == nil {
		op.buf = responseBuffers.Get()
	}

	op.buf.Write(buf)
	op.received += len(buf)

	if !op.headerParsed && op.header.BodyLength == 0 && op.buf.Len() >= memdx.HeaderLen {
		op.parseHeader()
	}

	return nil
}

func (op *Operation) parseHeader() {
	op.header = memdx.ParseHeader(op.buf.Bytes(), op.errMap)
	op.headerParsed = true

	if op.header.Opaque != op.opaque {
		op.logger.Debug("received response for a different operation",
			zaputils.DocID("key", []byte(op.key)),
			zaputils.Opaque("expected", op.opaque),
			zaputils.Opaque("actual", op.header.Opaque),
			zaputils.OpCode("responseOpCode", op.header.OpCode))

		message := fmt.Sprintf("Expected opaque %d but got %d", op.opaque, op.header.Opaque)
		op.HandleClientError(message, memdx.StatusClientFailure)
		op.clientErr = errors.Wrap(ErrOpaqueMismatch, message)
		op.discarding = true
		return
	}

	if op.telemOp != nil {
		op.telemOp.MarkReceived()
	}

	if op.header.FramingExtrasLength > 0 {
		framingExtras := op.buf.Bytes()[memdx.HeaderLen:]
		if len(framingExtras) > op.header.FramingExtrasLength {
			framingExtras = framingExtras[:op.header.FramingExtrasLength]
		}

		dura, found, err := memdx.FindServerDuration(framingExtras)
		if err != nil {
			op.logger.Debug("failed to decode response framing extras", zap.Error(err))
		} else if found {
			op.serverDuration = dura
			if op.telemOp != nil {
				op.telemOp.RecordServerDuration(dura)
			}
		}
	}
}

// ReadFrame reads exactly one response frame from r and feeds it to Read.
func (op *Operation) ReadFrame(r io.Reader) error {
	var pr memdx.PacketReader
	frame, err := pr.ReadFrame(r)
	if err != nil {
		return err
	}

	return op.Read(frame)
}

// IsComplete reports whether the whole response has been received.
func (op *Operation) IsComplete() bool {
	if op.clientWritten {
		return true
	}
	return op.headerParsed && op.received >= op.header.TotalLength()
}

func (op *Operation) State() OpState {
	switch {
	case op.IsComplete():
		return OpStateComplete
	case op.headerParsed:
		return OpStateBodyAccumulating
	case op.received > 0:
		return OpStateHeaderPending
	}
	return OpStateUnstarted
}

// Reset discards any buffered response and local failure state so the
// operation can consume a fresh response, replacing the header with one
// carrying the given status.  When the carried body length is zero the next
// Read parses a new header.
func (op *Operation) Reset(status memdx.Status) {
	op.releaseBuffer()
	op.released = false
	op.buf = responseBuffers.Get()
	op.received = 0

	op.header = memdx.OperationHeader{
		Magic:      op.header.Magic,
		OpCode:     op.opCode,
		Cas:        op.header.Cas,
		BodyLength: op.header.BodyLength,
		Status:     status,
	}
	op.headerParsed = op.header.BodyLength != 0

	op.clientWritten = false
	op.discarding = false
	op.clientErr = nil
	op.handledErr = nil
	op.serverErr = nil
	op.serverDuration = 0

	if op.result != nil {
		op.result = nil
		op.telemOp = nil
	}
}

// HandleClientError completes the operation locally with the given status,
// using message as the response body.
func (op *Operation) HandleClientError(message string, status memdx.Status) {
	op.Reset(status)
	op.headerParsed = true

	op.buf.WriteString(message)
	op.received += len(message)
	op.clientWritten = true
	op.handledErr = &ClientError{Message: message}
}

func (op *Operation) releaseBuffer() {
	if op.released {
		return
	}
	op.released = true

	if op.buf != nil {
		responseBuffers.Put(op.buf)
		op.buf = nil
	}
}

// Release returns the response buffer to the pool.  It only needs to be
// called after GetConfig, as GetResult releases the buffer for every other
// status.  Calling it more than once is harmless.
func (op *Operation) Release() {
	op.releaseBuffer()
}

// valueBytes returns the value section of the buffered response, bounded by
// what has actually been received.
func (op *Operation) valueBytes() []byte {
	if op.buf == nil || op.clientWritten {
		return nil
	}

	data := op.buf.Bytes()
	start := op.header.ValueOffset()
	end := start + op.header.ValueLength()
	if start > len(data) {
		return nil
	}
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}

func (op *Operation) decompressedValue() ([]byte, error) {
	value := op.valueBytes()
	if !op.header.Datatype.Has(memdx.DatatypeFlagCompressed) {
		return value, nil
	}

	compression := op.compression
	if compression == nil {
		compression = NewCompressionManagerDefault(nil)
	}

	value, _, err := compression.Decompress(op.header.Datatype, value)
	return value, err
}

// bodyText is the textual form of the response body used when building
// status messages.  Locally completed operations use the whole buffer.
func (op *Operation) bodyText() string {
	if op.buf == nil {
		return ""
	}
	if op.clientWritten {
		return op.buf.String()
	}
	return string(op.valueBytes())
}

func (op *Operation) resultErr() error {
	if op.clientErr != nil {
		return op.clientErr
	}
	if op.handledErr != nil {
		return op.handledErr
	}
	return op.serverErr
}

func (op *Operation) readMutationToken() MutationToken {
	if !op.family.isMutation() || op.vbucket == nil || op.header.ExtrasLength < 16 {
		return UnsetMutationToken
	}

	data := op.buf.Bytes()
	offset := op.header.ExtrasOffset()

	vbUuid, err := memdx.ToUInt64(data, offset)
	if err != nil {
		return UnsetMutationToken
	}
	seqNo, err := memdx.ToUInt64(data, offset+8)
	if err != nil {
		return UnsetMutationToken
	}

	return MutationToken{
		VbID:       op.vbucket.Index(),
		VbUuid:     vbUuid,
		SeqNo:      seqNo,
		BucketName: op.vbucket.BucketName(),
	}
}

// GetResult builds the terminal result of the operation.  The response
// buffer is released on every path except NotMyVBucket, where it is kept
// for GetConfig until Release is called.  Later calls return the same
// result.
func (op *Operation) GetResult() (result *OperationResult) {
	if op.result != nil {
		return op.result
	}

	defer func() {
		if r := recover(); r != nil {
			op.logger.Error("panic while decoding response", zap.Any("panic", r))

			op.clientErr = errors.Errorf("failed to decode response: %v", r)
			result = &OperationResult{
				Success:    false,
				Message:    op.clientErr.Error(),
				Status:     memdx.StatusClientFailure,
				Token:      UnsetMutationToken,
				Err:        op.clientErr,
				OpCode:     op.opCode,
				transcoder: op.transcoder,
			}
			op.finish(result)
		}
	}()

	result = &OperationResult{
		OpCode:         op.opCode,
		Cas:            op.header.Cas,
		Datatype:       op.header.Datatype,
		ErrorCode:      op.header.ErrorCode,
		ServerDuration: op.serverDuration,
		Token:          UnsetMutationToken,
		transcoder:     op.transcoder,
	}

	if op.isSuccess() {
		err := op.family.readValue(op, result)
		if err != nil {
			op.logger.Debug("failed to decode response value", zap.Error(err))
			op.clientErr = &ClientError{
				Message: "failed to decode response value",
				Cause:   errors.Wrapf(err, "failed to decode %s response", op.opCode),
			}
		}
	}

	result.Success = op.isSuccess()
	result.Status = op.GetResponseStatus()
	result.Message = op.GetMessage()
	result.Err = op.resultErr()
	if result.Success {
		result.Token = op.readMutationToken()
	}

	op.finish(result)
	return result
}

func (op *Operation) finish(result *OperationResult) {
	op.result = result

	if result.Status == memdx.StatusClientFailure {
		clientFailures.Add(context.Background(), 1)
	}

	if result.Status == memdx.StatusNotMyVBucket && !op.released && op.header.ValueLength() > 0 {
		configPushes.Add(context.Background(), 1)
	} else {
		op.releaseBuffer()
	}

	if op.telemOp != nil {
		op.telemOp.End(op.telemCtx, result.Err)
	}
}

// GetConfig decodes the bucket configuration the server pushed alongside a
// NotMyVBucket response.  It returns nil when the response was not a
// NotMyVBucket or carried no configuration.
func (op *Operation) GetConfig() (*cbconfig.TerseConfigJson, error) {
	if op.header.Status != memdx.StatusNotMyVBucket || op.header.ValueLength() == 0 {
		return nil, nil
	}
	if op.released {
		return nil, ErrOperationReleased
	}

	value, err := op.decompressedValue()
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, nil
	}

	if op.currentHost != "" {
		value = bytes.ReplaceAll(value, hostPlaceholder, []byte(op.currentHost))
	}

	var config *cbconfig.TerseConfigJson
	err = op.transcoder.Decode(value, commonflags.JSONFlags(), memdx.OpCodeGetClusterConfig, &config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode pushed config")
	}

	if config != nil && !config.IsNewerThan(config.RevEpoch, op.lastConfigRevisionTried) {
		op.logger.Debug("received stale config push",
			zap.Int("rev", config.Rev),
			zap.Int("lastTried", op.lastConfigRevisionTried))
	}

	return config, nil
}
