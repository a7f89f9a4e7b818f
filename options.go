package gocbkvx

import (
	"strconv"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
	"github.com/couchbaselabs/gocbconnstr/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultErrorMapVersion = 2

type OpFactoryOptions struct {
	Logger     *zap.Logger
	Transcoder Transcoder

	// ErrorMap resolves status codes outside of the core protocol.  It is
	// usually installed later with SetErrorMap once GetErrorMap completes.
	ErrorMap *memdx.ErrorMap

	BucketName     string
	CurrentHost    string
	DefaultTimeout time.Duration
	VbucketMap     *VbucketMap

	// CompressionEnabled indicates that the connection negotiated snappy, so
	// request values may be sent compressed.
	CompressionEnabled bool
	CompressionManager CompressionManager

	ErrorMapVersion uint16
	OpaqueGenerator OpaqueGenerator
	Telemetry       OpTelem
}

// ParseConnStrOptions builds factory options from a couchbase connection
// string such as couchbase://10.0.0.1/default?kv_timeout=5s&compression=true.
func ParseConnStrOptions(connStr string) (*OpFactoryOptions, error) {
	baseSpec, err := gocbconnstr.Parse(connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse connection string")
	}

	spec, err := gocbconnstr.Resolve(baseSpec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve connection string")
	}

	opts := &OpFactoryOptions{
		BucketName: spec.Bucket,
	}

	if len(spec.MemdHosts) > 0 {
		opts.CurrentHost = spec.MemdHosts[0].Host
	}

	if val, ok := lastOption(spec.Options, "kv_timeout"); ok {
		timeout, err := parseDurationOption(val)
		if err != nil {
			return nil, errors.Wrap(invalidArgError{"kv_timeout: " + err.Error()}, "invalid connection string option")
		}
		opts.DefaultTimeout = timeout
	}

	if val, ok := lastOption(spec.Options, "compression"); ok {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return nil, errors.Wrap(invalidArgError{"compression: " + err.Error()}, "invalid connection string option")
		}
		opts.CompressionEnabled = enabled
	}

	var compressionOpts CompressionManagerOptions
	customCompression := false

	if val, ok := lastOption(spec.Options, "compression_min_size"); ok {
		minSize, err := strconv.Atoi(val)
		if err != nil || minSize < 1 {
			return nil, errors.Wrap(invalidArgError{"compression_min_size must be a positive integer"}, "invalid connection string option")
		}
		compressionOpts.MinSize = minSize
		customCompression = true
	}

	if val, ok := lastOption(spec.Options, "compression_min_ratio"); ok {
		minRatio, err := strconv.ParseFloat(val, 64)
		if err != nil || minRatio <= 0 || minRatio > 1 {
			return nil, errors.Wrap(invalidArgError{"compression_min_ratio must be within (0, 1]"}, "invalid connection string option")
		}
		compressionOpts.MinRatio = minRatio
		customCompression = true
	}

	if customCompression {
		opts.CompressionManager = NewCompressionManagerDefault(&compressionOpts)
	}

	if val, ok := lastOption(spec.Options, "errmap_version"); ok {
		version, err := strconv.ParseUint(val, 10, 16)
		if err != nil || version == 0 {
			return nil, errors.Wrap(invalidArgError{"errmap_version must be a positive integer"}, "invalid connection string option")
		}
		opts.ErrorMapVersion = uint16(version)
	}

	return opts, nil
}

func lastOption(options map[string][]string, name string) (string, bool) {
	vals := options[name]
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// parseDurationOption accepts either a Go duration or a bare number of
// milliseconds.
func parseDurationOption(val string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		if ms <= 0 {
			return 0, errors.New("must be positive")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	dura, err := time.ParseDuration(val)
	if err != nil {
		return 0, err
	}
	if dura <= 0 {
		return 0, errors.New("must be positive")
	}
	return dura, nil
}
