package gocbkvx

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpState is the progress of an operation through reading its response.
type OpState int

const (
	OpStateUnstarted OpState = iota
	OpStateHeaderPending
	OpStateBodyAccumulating
	OpStateComplete
)

func (s OpState) String() string {
	switch s {
	case OpStateUnstarted:
		return "unstarted"
	case OpStateHeaderPending:
		return "header-pending"
	case OpStateBodyAccumulating:
		return "body-accumulating"
	case OpStateComplete:
		return "complete"
	}
	return "unknown"
}

// Operation is a single KV request together with the state needed to consume
// its response.  An Operation is owned by one goroutine at a time; it is
// built by an OpFactory, written to the transport, fed the response bytes
// and finally turned into an OperationResult.
type Operation struct {
	family opFamily
	opCode memdx.OpCode

	key     string
	value   interface{}
	cas     uint64
	opaque  uint32
	expiry  uint32
	vbucket VBucket

	delta         uint64
	initial       uint64
	lockTime      uint32
	features      []memdx.HelloFeature
	errMapVersion uint16

	attempts                uint32
	creationTime            time.Time
	timeout                 time.Duration
	timedOut                bool
	lastConfigRevisionTried int
	bucketName              string
	currentHost             string

	buf            *bytes.Buffer
	released       bool
	received       int
	header         memdx.OperationHeader
	headerParsed   bool
	discarding     bool
	clientWritten  bool
	serverDuration time.Duration

	// clientErr is a local failure which forces the result status to
	// ClientFailure.  handledErr is the error recorded by HandleClientError
	// for a status chosen by the caller.  serverErr is derived from the
	// server's response body.
	clientErr  error
	handledErr error
	serverErr  error
	result     *OperationResult

	transcoder     Transcoder
	compression    CompressionManager
	supportsSnappy bool
	errMap         *memdx.ErrorMap
	baseLogger     *zap.Logger
	logger         *zap.Logger
	opaques        OpaqueGenerator
	telem          OpTelem
	telemOp        OpTelemOp
	telemCtx       context.Context
	now            func() time.Time
}

func (op *Operation) OpCode() memdx.OpCode {
	return op.opCode
}

func (op *Operation) Key() string {
	return op.key
}

func (op *Operation) Opaque() uint32 {
	return op.opaque
}

// Cas returns the CAS of the response once its header has been read, or the
// CAS the request was built with before that.
func (op *Operation) Cas() uint64 {
	if op.headerParsed {
		return op.header.Cas
	}
	return op.cas
}

func (op *Operation) Expiry() uint32 {
	return op.expiry
}

func (op *Operation) VBucket() VBucket {
	return op.vbucket
}

func (op *Operation) BucketName() string {
	return op.bucketName
}

func (op *Operation) Attempts() uint32 {
	return op.attempts
}

// IncrementAttempts records that another attempt is about to be made.
func (op *Operation) IncrementAttempts() {
	op.attempts++
}

func (op *Operation) CreationTime() time.Time {
	return op.creationTime
}

func (op *Operation) Timeout() time.Duration {
	return op.timeout
}

func (op *Operation) LastConfigRevisionTried() int {
	return op.lastConfigRevisionTried
}

func (op *Operation) SetLastConfigRevisionTried(rev int) {
	op.lastConfigRevisionTried = rev
}

func (op *Operation) CurrentHost() string {
	return op.currentHost
}

// SetCurrentHost records the host the operation is being sent to.  It is
// substituted for the $HOST placeholder in configurations pushed back by
// that host.
func (op *Operation) SetCurrentHost(host string) {
	op.currentHost = host
}

// Header returns the parsed response header.  It is only meaningful once
// State has moved past OpStateHeaderPending.
func (op *Operation) Header() memdx.OperationHeader {
	return op.header
}

// ServerDuration is the server-side processing time reported in the
// response framing extras, or zero when none was reported.
func (op *Operation) ServerDuration() time.Duration {
	return op.serverDuration
}

// CreateKey encodes the key section of the request.
func (op *Operation) CreateKey() ([]byte, error) {
	if op.family.requiresKey() && op.key == "" {
		return nil, invalidArgError{op.opCode.Name() + " requires a key"}
	}
	if len(op.key) > maxKeyLength {
		return nil, invalidArgError{"key exceeds the maximum key length"}
	}

	if !op.family.keyInHeader() {
		return nil, nil
	}
	return []byte(op.key), nil
}

// CreateExtras encodes the extras section of the request.
func (op *Operation) CreateExtras() ([]byte, error) {
	return op.family.createExtras(op)
}

// CreateBody encodes the value section of the request along with the
// datatype describing it.
func (op *Operation) CreateBody() ([]byte, memdx.DatatypeFlag, error) {
	return op.family.createBody(op)
}

// requestPacket describes the request made up of the given sections.
func (op *Operation) requestPacket(extras, body, key []byte, datatype memdx.DatatypeFlag) *memdx.Packet {
	pak := &memdx.Packet{
		Magic:    memdx.MagicReq,
		OpCode:   op.opCode,
		Datatype: uint8(datatype),
		Opaque:   op.opaque,
		Cas:      op.cas,
		Extras:   extras,
		Key:      key,
		Value:    body,
	}
	if op.vbucket != nil {
		pak.VbucketID = op.vbucket.Index()
	}
	return pak
}

// CreateHeader encodes the 24-byte request header describing the given
// sections.
func (op *Operation) CreateHeader(extras, body, key []byte, datatype memdx.DatatypeFlag) ([]byte, error) {
	header := make([]byte, memdx.HeaderLen)
	err := memdx.EncodeHeader(header, op.requestPacket(extras, body, key, datatype))
	if err != nil {
		return nil, err
	}
	return header, nil
}

// encodeRequest builds the request packet and starts the operation's
// telemetry span as a child of ctx.
func (op *Operation) encodeRequest(ctx context.Context) (*memdx.Packet, error) {
	key, err := op.CreateKey()
	if err != nil {
		return nil, err
	}

	extras, err := op.CreateExtras()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode extras for %s", op.opCode)
	}

	body, datatype, err := op.CreateBody()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode body for %s", op.opCode)
	}

	pak := op.requestPacket(extras, body, key, datatype)

	if op.telemOp == nil {
		op.telemCtx, op.telemOp = op.telem.BeginOp(ctx, op.bucketName, op.opCode.Name())
	}
	op.telemOp.MarkSent()

	op.logger.Debug("encoded request",
		zap.Int("length", memdx.HeaderLen+len(extras)+len(key)+len(body)),
		zap.Stringer("datatype", datatype))

	return pak, nil
}

// Write encodes the full request packet.
func (op *Operation) Write() ([]byte, error) {
	return op.WriteContext(context.Background())
}

// WriteContext encodes the full request packet and starts the operation's
// telemetry span as a child of ctx.
func (op *Operation) WriteContext(ctx context.Context) ([]byte, error) {
	pak, err := op.encodeRequest(ctx)
	if err != nil {
		return nil, err
	}

	return memdx.AppendPacket(nil, pak)
}

// WriteTo writes the encoded request to w.
func (op *Operation) WriteTo(w io.Writer) (int64, error) {
	pak, err := op.encodeRequest(context.Background())
	if err != nil {
		return 0, err
	}

	var pw memdx.PacketWriter
	err = pw.WritePacket(w, pak)
	if err != nil {
		return 0, err
	}

	return int64(memdx.HeaderLen + len(pak.Extras) + len(pak.Key) + len(pak.Value)), nil
}
