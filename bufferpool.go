package gocbkvx

import (
	"bytes"
	"sync"
)

// responseBufferPool holds the buffers used to accumulate response bytes.
// Buffers larger than maxPooledBufferSize are dropped instead of pooled so a
// single large document does not pin memory.
type responseBufferPool struct {
	pool sync.Pool
}

const maxPooledBufferSize = 64 * 1024

func newResponseBufferPool() *responseBufferPool {
	return &responseBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

func (p *responseBufferPool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (p *responseBufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var responseBuffers = newResponseBufferPool()
