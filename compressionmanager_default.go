package gocbkvx

import (
	"github.com/couchbase/gocbkvx/memdx"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

const (
	defaultCompressionMinSize  = 32
	defaultCompressionMinRatio = 0.83
)

type CompressionManagerOptions struct {
	MinSize  int
	MinRatio float64

	// Some users require the ability to disable decompressing values. e.g. if they read docs from
	// the server and then want to store them compressed as a backup.
	DisableDecompression bool
}

type CompressionManagerDefault struct {
	compressionMinSize   int
	compressionMinRatio  float64
	disableDecompression bool
}

var _ CompressionManager = (*CompressionManagerDefault)(nil)

func NewCompressionManagerDefault(opts *CompressionManagerOptions) *CompressionManagerDefault {
	if opts == nil {
		opts = &CompressionManagerOptions{}
	}

	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = defaultCompressionMinSize
	}

	minRatio := opts.MinRatio
	if minRatio <= 0 || minRatio > 1 {
		minRatio = defaultCompressionMinRatio
	}

	return &CompressionManagerDefault{
		compressionMinSize:   minSize,
		compressionMinRatio:  minRatio,
		disableDecompression: opts.DisableDecompression,
	}
}

func (cmd *CompressionManagerDefault) Compress(supportsSnappy bool, datatype memdx.DatatypeFlag, value []byte) ([]byte, memdx.DatatypeFlag, error) {
	if !supportsSnappy {
		return value, datatype, nil
	}

	// If the value is already compressed then we don't want to compress it again.
	if datatype.Has(memdx.DatatypeFlagCompressed) {
		return value, datatype, nil
	}

	valueSize := len(value)
	if valueSize <= cmd.compressionMinSize {
		return value, datatype, nil
	}

	compressedValue := snappy.Encode(nil, value)
	if float64(len(compressedValue))/float64(valueSize) > cmd.compressionMinRatio {
		return value, datatype, nil
	}

	return compressedValue, datatype | memdx.DatatypeFlagCompressed, nil
}

func (cmd *CompressionManagerDefault) Decompress(datatype memdx.DatatypeFlag, value []byte) ([]byte, memdx.DatatypeFlag, error) {
	if cmd.disableDecompression {
		return value, datatype, nil
	}

	if !datatype.Has(memdx.DatatypeFlagCompressed) {
		return value, datatype, nil
	}

	newValue, err := snappy.Decode(nil, value)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to decompress value")
	}

	return newValue, datatype & ^memdx.DatatypeFlagCompressed, nil
}
