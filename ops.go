package gocbkvx

import (
	"fmt"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
	"github.com/couchbase/gocbkvx/zaputils"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const defaultKvTimeout = 2500 * time.Millisecond

// OpFactory builds operations sharing one configuration.  It is safe for
// concurrent use; the error map may be replaced at any time and applies to
// operations created afterwards.
type OpFactory struct {
	logger             *zap.Logger
	transcoder         Transcoder
	errMap             atomic.Pointer[memdx.ErrorMap]
	bucketName         string
	currentHost        string
	defaultTimeout     time.Duration
	vbucketMap         atomic.Pointer[VbucketMap]
	compression        CompressionManager
	compressionEnabled bool
	errMapVersion      uint16
	opaques            OpaqueGenerator
	telem              OpTelem
}

func NewOpFactory(opts *OpFactoryOptions) *OpFactory {
	if opts == nil {
		opts = &OpFactoryOptions{}
	}

	transcoder := opts.Transcoder
	if transcoder == nil {
		transcoder = DefaultTranscoder{}
	}

	defaultTimeout := opts.DefaultTimeout
	if defaultTimeout <= 0 {
		defaultTimeout = defaultKvTimeout
	}

	compression := opts.CompressionManager
	if compression == nil {
		compression = NewCompressionManagerDefault(nil)
	}

	opaques := opts.OpaqueGenerator
	if opaques == nil {
		opaques = NewOpaqueGenerator(0)
	}

	telem := opts.Telemetry
	if telem == nil {
		telem = &opTelemNoOp{}
	}

	errMapVersion := opts.ErrorMapVersion
	if errMapVersion == 0 {
		errMapVersion = defaultErrorMapVersion
	}

	f := &OpFactory{
		logger:             loggerOrNop(opts.Logger),
		transcoder:         transcoder,
		bucketName:         opts.BucketName,
		currentHost:        opts.CurrentHost,
		defaultTimeout:     defaultTimeout,
		compression:        compression,
		compressionEnabled: opts.CompressionEnabled,
		errMapVersion:      errMapVersion,
		opaques:            opaques,
		telem:              telem,
	}
	f.errMap.Store(opts.ErrorMap)
	f.vbucketMap.Store(opts.VbucketMap)

	f.logger.Debug("created operation factory",
		zaputils.BucketName("bucket", f.bucketName),
		zap.String("host", f.currentHost),
		zap.Duration("defaultTimeout", f.defaultTimeout),
		zap.Bool("compression", f.compressionEnabled))

	return f
}

// SetErrorMap installs the error map fetched from the server.
func (f *OpFactory) SetErrorMap(errMap *memdx.ErrorMap) {
	f.errMap.Store(errMap)
}

func (f *OpFactory) ErrorMap() *memdx.ErrorMap {
	return f.errMap.Load()
}

// SetVbucketMap installs the map used to route operations which were not
// given an explicit VBucket.
func (f *OpFactory) SetVbucketMap(vbMap *VbucketMap) {
	f.vbucketMap.Store(vbMap)
}

func (f *OpFactory) newOp(family opFamily, opCode memdx.OpCode, key string, vbucket VBucket) *Operation {
	if vbucket == nil && family.requiresKey() {
		if vbMap := f.vbucketMap.Load(); vbMap != nil {
			vbucket = vbMap.TargetForKey([]byte(key), f.bucketName)
		}
	}

	opaque := f.opaques.Next()

	op := &Operation{
		family:         family,
		opCode:         opCode,
		key:            key,
		opaque:         opaque,
		vbucket:        vbucket,
		creationTime:   time.Now(),
		timeout:        f.defaultTimeout,
		bucketName:     f.bucketName,
		currentHost:    f.currentHost,
		transcoder:     f.transcoder,
		compression:    f.compression,
		supportsSnappy: f.compressionEnabled,
		errMap:         f.errMap.Load(),
		baseLogger:     f.logger,
		logger:         opLogger(f.logger, f.bucketName, opCode, opaque),
		opaques:        f.opaques,
		telem:          f.telem,
		now:            time.Now,
	}
	op.header.Status = memdx.StatusNone

	return op
}

type GetRequest struct {
	Key     string
	VBucket VBucket
}

func (f *OpFactory) Get(req *GetRequest) *Operation {
	return f.newOp(familyGet, memdx.OpCodeGet, req.Key, req.VBucket)
}

type GetReplicaRequest struct {
	Key     string
	VBucket VBucket
}

func (f *OpFactory) GetReplica(req *GetReplicaRequest) *Operation {
	return f.newOp(familyGetReplica, memdx.OpCodeGetReplica, req.Key, req.VBucket)
}

type GetAndTouchRequest struct {
	Key     string
	Expiry  uint32
	VBucket VBucket
}

func (f *OpFactory) GetAndTouch(req *GetAndTouchRequest) *Operation {
	op := f.newOp(familyGetAndTouch, memdx.OpCodeGAT, req.Key, req.VBucket)
	op.expiry = req.Expiry
	return op
}

type GetAndLockRequest struct {
	Key      string
	LockTime uint32
	VBucket  VBucket
}

func (f *OpFactory) GetAndLock(req *GetAndLockRequest) *Operation {
	op := f.newOp(familyGetAndLock, memdx.OpCodeGetLocked, req.Key, req.VBucket)
	op.lockTime = req.LockTime
	return op
}

type StoreRequest struct {
	Key     string
	Value   interface{}
	Cas     uint64
	Expiry  uint32
	VBucket VBucket
}

func (f *OpFactory) newStore(opCode memdx.OpCode, req *StoreRequest) *Operation {
	op := f.newOp(familyStore, opCode, req.Key, req.VBucket)
	op.value = req.Value
	op.cas = req.Cas
	op.expiry = req.Expiry
	return op
}

func (f *OpFactory) Set(req *StoreRequest) *Operation {
	return f.newStore(memdx.OpCodeSet, req)
}

func (f *OpFactory) Add(req *StoreRequest) *Operation {
	return f.newStore(memdx.OpCodeAdd, req)
}

func (f *OpFactory) Replace(req *StoreRequest) *Operation {
	return f.newStore(memdx.OpCodeReplace, req)
}

type ConcatRequest struct {
	Key     string
	Value   interface{}
	Cas     uint64
	VBucket VBucket
}

func (f *OpFactory) newConcat(opCode memdx.OpCode, req *ConcatRequest) *Operation {
	op := f.newOp(familyConcat, opCode, req.Key, req.VBucket)
	op.value = req.Value
	op.cas = req.Cas
	return op
}

func (f *OpFactory) Append(req *ConcatRequest) *Operation {
	return f.newConcat(memdx.OpCodeAppend, req)
}

func (f *OpFactory) Prepend(req *ConcatRequest) *Operation {
	return f.newConcat(memdx.OpCodePrepend, req)
}

type DeleteRequest struct {
	Key     string
	Cas     uint64
	VBucket VBucket
}

func (f *OpFactory) Delete(req *DeleteRequest) *Operation {
	op := f.newOp(familyDelete, memdx.OpCodeDelete, req.Key, req.VBucket)
	op.cas = req.Cas
	return op
}

type CounterRequest struct {
	Key     string
	Delta   uint64
	Initial uint64
	Expiry  uint32
	VBucket VBucket
}

func (f *OpFactory) newCounter(opCode memdx.OpCode, req *CounterRequest) *Operation {
	op := f.newOp(familyCounter, opCode, req.Key, req.VBucket)
	op.delta = req.Delta
	op.initial = req.Initial
	op.expiry = req.Expiry
	return op
}

func (f *OpFactory) Increment(req *CounterRequest) *Operation {
	return f.newCounter(memdx.OpCodeIncrement, req)
}

func (f *OpFactory) Decrement(req *CounterRequest) *Operation {
	return f.newCounter(memdx.OpCodeDecrement, req)
}

type TouchRequest struct {
	Key     string
	Expiry  uint32
	VBucket VBucket
}

func (f *OpFactory) Touch(req *TouchRequest) *Operation {
	op := f.newOp(familyTouch, memdx.OpCodeTouch, req.Key, req.VBucket)
	op.expiry = req.Expiry
	return op
}

type ObserveRequest struct {
	Key     string
	VBucket VBucket
}

func (f *OpFactory) Observe(req *ObserveRequest) *Operation {
	return f.newOp(familyObserve, memdx.OpCodeObserve, req.Key, req.VBucket)
}

type UnlockRequest struct {
	Key     string
	Cas     uint64
	VBucket VBucket
}

func (f *OpFactory) Unlock(req *UnlockRequest) *Operation {
	op := f.newOp(familyUnlock, memdx.OpCodeUnlockKey, req.Key, req.VBucket)
	op.cas = req.Cas
	return op
}

func (f *OpFactory) Noop() *Operation {
	return f.newOp(familyNoop, memdx.OpCodeNoop, "", nil)
}

type HelloRequest struct {
	// ClientName identifies the connection in server logs.  A unique name is
	// generated when it is empty.
	ClientName        string
	RequestedFeatures []memdx.HelloFeature
}

func helloClientName() string {
	return fmt.Sprintf(`{"a":"gocbkvx/%s","i":"%s"}`, buildVersion, uuid.NewString())
}

func (f *OpFactory) Hello(req *HelloRequest) *Operation {
	clientName := req.ClientName
	if clientName == "" {
		clientName = helloClientName()
	}

	op := f.newOp(familyHello, memdx.OpCodeHello, clientName, nil)
	op.features = req.RequestedFeatures
	return op
}

type GetErrorMapRequest struct {
	// Version is the highest error map format understood by the client.  The
	// factory's configured version is used when it is zero.
	Version uint16
}

func (f *OpFactory) GetErrorMap(req *GetErrorMapRequest) *Operation {
	op := f.newOp(familyGetErrorMap, memdx.OpCodeGetErrorMap, "", nil)
	op.errMapVersion = req.Version
	if op.errMapVersion == 0 {
		op.errMapVersion = f.errMapVersion
	}
	return op
}

func (f *OpFactory) GetClusterConfig() *Operation {
	return f.newOp(familyGetClusterConfig, memdx.OpCodeGetClusterConfig, "", nil)
}
