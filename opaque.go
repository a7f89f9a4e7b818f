package gocbkvx

import "go.uber.org/atomic"

// OpaqueGenerator hands out the opaque values used to correlate a request
// with its response.  Implementations must be safe for concurrent use.
type OpaqueGenerator interface {
	Next() uint32
}

type opaqueCounter struct {
	value atomic.Uint32
}

var _ OpaqueGenerator = (*opaqueCounter)(nil)

// NewOpaqueGenerator returns a generator whose first value is start+1.
func NewOpaqueGenerator(start uint32) OpaqueGenerator {
	gen := &opaqueCounter{}
	gen.value.Store(start)
	return gen
}

func (c *opaqueCounter) Next() uint32 {
	return c.value.Inc()
}
