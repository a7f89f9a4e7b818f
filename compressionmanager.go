package gocbkvx

import "github.com/couchbase/gocbkvx/memdx"

// CompressionManager compresses request values and decompresses response
// values according to the datatype negotiated with the server.
type CompressionManager interface {
	Compress(bool, memdx.DatatypeFlag, []byte) ([]byte, memdx.DatatypeFlag, error)
	Decompress(memdx.DatatypeFlag, []byte) ([]byte, memdx.DatatypeFlag, error)
}
