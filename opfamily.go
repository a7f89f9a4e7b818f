package gocbkvx

import (
	"github.com/couchbase/gocbkvx/commonflags"
	"github.com/couchbase/gocbkvx/contrib/cbconfig"
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/pkg/errors"
)

// opFamily selects the request layout and response handling shared by a
// group of opcodes.
type opFamily uint8

const (
	familyGet opFamily = iota
	familyGetReplica
	familyGetAndTouch
	familyGetAndLock
	familyStore
	familyConcat
	familyDelete
	familyCounter
	familyTouch
	familyObserve
	familyUnlock
	familyNoop
	familyHello
	familyGetErrorMap
	familyGetClusterConfig
)

const maxKeyLength = 250

func (f opFamily) String() string {
	switch f {
	case familyGet:
		return "get"
	case familyGetReplica:
		return "get-replica"
	case familyGetAndTouch:
		return "get-and-touch"
	case familyGetAndLock:
		return "get-and-lock"
	case familyStore:
		return "store"
	case familyConcat:
		return "concat"
	case familyDelete:
		return "delete"
	case familyCounter:
		return "counter"
	case familyTouch:
		return "touch"
	case familyObserve:
		return "observe"
	case familyUnlock:
		return "unlock"
	case familyNoop:
		return "noop"
	case familyHello:
		return "hello"
	case familyGetErrorMap:
		return "get-error-map"
	case familyGetClusterConfig:
		return "get-cluster-config"
	}
	return "unknown"
}

// requiresKey reports whether the request is meaningless without a key.
func (f opFamily) requiresKey() bool {
	switch f {
	case familyNoop, familyHello, familyGetErrorMap, familyGetClusterConfig:
		return false
	}
	return true
}

// keyInHeader reports whether the key is sent in the key section, as opposed
// to being carried by the body or not sent at all.
func (f opFamily) keyInHeader() bool {
	switch f {
	case familyObserve, familyNoop, familyGetErrorMap, familyGetClusterConfig:
		return false
	}
	return true
}

func (f opFamily) isMutation() bool {
	switch f {
	case familyStore, familyConcat, familyDelete, familyCounter:
		return true
	}
	return false
}

func (f opFamily) isRead() bool {
	switch f {
	case familyGet, familyGetReplica, familyGetAndTouch, familyGetAndLock,
		familyObserve, familyGetClusterConfig:
		return true
	}
	return false
}

func (f opFamily) returnsDocument() bool {
	switch f {
	case familyGet, familyGetReplica, familyGetAndTouch, familyGetAndLock:
		return true
	}
	return false
}

func (f opFamily) carriesValue() bool {
	return f == familyStore || f == familyConcat
}

func (f opFamily) createExtras(op *Operation) ([]byte, error) {
	switch f {
	case familyStore:
		extras := make([]byte, 8)
		if err := commonflags.FlagsForValue(op.value).Write(extras); err != nil {
			return nil, err
		}
		if err := memdx.FromUInt32(op.expiry, extras, 4); err != nil {
			return nil, err
		}
		return extras, nil

	case familyCounter:
		extras := make([]byte, 20)
		if err := memdx.FromUInt64(op.delta, extras, 0); err != nil {
			return nil, err
		}
		if err := memdx.FromUInt64(op.initial, extras, 8); err != nil {
			return nil, err
		}
		if err := memdx.FromUInt32(op.expiry, extras, 16); err != nil {
			return nil, err
		}
		return extras, nil

	case familyTouch, familyGetAndTouch:
		extras := make([]byte, 4)
		if err := memdx.FromUInt32(op.expiry, extras, 0); err != nil {
			return nil, err
		}
		return extras, nil

	case familyGetAndLock:
		extras := make([]byte, 4)
		if err := memdx.FromUInt32(op.lockTime, extras, 0); err != nil {
			return nil, err
		}
		return extras, nil
	}

	return nil, nil
}

func (f opFamily) createBody(op *Operation) ([]byte, memdx.DatatypeFlag, error) {
	switch f {
	case familyStore, familyConcat:
		flags := commonflags.FlagsForValue(op.value)
		body, err := op.transcoder.Encode(op.value, flags, op.opCode)
		if err != nil {
			return nil, 0, err
		}

		datatype := memdx.DatatypeFlagNone
		if op.compression != nil {
			body, datatype, err = op.compression.Compress(op.supportsSnappy, datatype, body)
			if err != nil {
				return nil, 0, errors.Wrap(err, "failed to compress value")
			}
		}
		return body, datatype, nil

	case familyHello:
		return memdx.EncodeHelloFeatures(op.features), memdx.DatatypeFlagNone, nil

	case familyGetErrorMap:
		body := make([]byte, 2)
		if err := memdx.FromUInt16(op.errMapVersion, body, 0); err != nil {
			return nil, 0, err
		}
		return body, memdx.DatatypeFlagNone, nil

	case familyObserve:
		var vbID uint16
		if op.vbucket != nil {
			vbID = op.vbucket.Index()
		}
		body, err := encodeObserveBody(vbID, op.key)
		if err != nil {
			return nil, 0, err
		}
		return body, memdx.DatatypeFlagNone, nil
	}

	return nil, memdx.DatatypeFlagNone, nil
}

// readValue decodes the value section of a successful response into res.
func (f opFamily) readValue(op *Operation, res *OperationResult) error {
	value, err := op.decompressedValue()
	if err != nil {
		return err
	}

	switch f {
	case familyGet, familyGetReplica, familyGetAndTouch, familyGetAndLock:
		flags := commonflags.JSONFlags()
		if op.header.ExtrasLength >= commonflags.ExtrasLen {
			extras := op.buf.Bytes()[op.header.ExtrasOffset():op.header.KeyOffset()]
			flags, err = commonflags.ReadFlags(extras)
			if err != nil {
				return err
			}
		}

		res.Flags = flags
		res.Value = append([]byte{}, value...)
		return nil

	case familyCounter:
		var counter uint64
		err := op.transcoder.Decode(value, commonflags.Flags{}, op.opCode, &counter)
		if err != nil {
			return err
		}
		res.Counter = counter
		return nil

	case familyHello:
		features, err := memdx.DecodeHelloFeatures(value)
		if err != nil {
			return err
		}
		res.Features = features
		return nil

	case familyGetErrorMap:
		errMap, err := memdx.ParseErrorMap(value)
		if err != nil {
			return err
		}
		res.ErrorMap = errMap
		return nil

	case familyGetClusterConfig:
		config, err := cbconfig.ParseTerseConfig(value, op.currentHost)
		if err != nil {
			return errors.Wrap(err, "failed to parse cluster config")
		}
		res.Config = config
		return nil

	case familyObserve:
		state, err := decodeObserveState(value, op.header.Cas)
		if err != nil {
			return err
		}
		res.Observe = state
		return nil
	}

	return nil
}
