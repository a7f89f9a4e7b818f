package gocbkvx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCowCacheGeneratesOnce(t *testing.T) {
	var lock sync.Mutex
	calls := make(map[string]int)

	cache := newCowCache(func(k string) int {
		lock.Lock()
		calls[k]++
		lock.Unlock()
		return len(k)
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 5, cache.Get("hello"))
			assert.Equal(t, 3, cache.Get("get"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls["hello"])
	assert.Equal(t, 1, calls["get"])
}
