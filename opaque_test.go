package gocbkvx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpaqueGeneratorSequence(t *testing.T) {
	gen := NewOpaqueGenerator(10)
	assert.Equal(t, uint32(11), gen.Next())
	assert.Equal(t, uint32(12), gen.Next())
}

func TestOpaqueGeneratorConcurrent(t *testing.T) {
	gen := NewOpaqueGenerator(0)

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[uint32]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]uint32, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				local = append(local, gen.Next())
			}

			mu.Lock()
			for _, opaque := range local {
				seen[opaque] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestFactoryUsesOpaqueGenerator(t *testing.T) {
	f := newTestFactory(t, &OpFactoryOptions{OpaqueGenerator: NewOpaqueGenerator(100)})

	assert.Equal(t, uint32(101), f.Noop().Opaque())
	assert.Equal(t, uint32(102), f.Noop().Opaque())

	op := f.Noop()
	assert.Equal(t, uint32(104), op.Clone().Opaque())
}

func TestFactoriesHaveIndependentOpaques(t *testing.T) {
	first := newTestFactory(t, nil)
	second := newTestFactory(t, nil)

	assert.Equal(t, uint32(1), first.Noop().Opaque())
	assert.Equal(t, uint32(2), first.Noop().Opaque())
	assert.Equal(t, uint32(1), second.Noop().Opaque())
}
