package ipc

import (
	"sync"
	"testing"
)

// TestBufferPoolConcurrent hammers Get/Put from many goroutines.
func TestBufferPoolConcurrent(t *testing.T) {
	pool := NewBufferPool(1024, 10)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := pool.Get()
				if len(buf) != 1024 {
					t.Errorf("buffer length = %d, want 1024", len(buf))
				}
				buf[0] = byte(j)
				pool.Put(buf)
			}
		}()
	}
	wg.Wait()
}

// TestBufferPoolWrongSize verifies that foreign buffers are discarded
// and the pool keeps handing out correctly sized ones.
func TestBufferPoolWrongSize(t *testing.T) {
	pool := NewBufferPool(1024, 2)

	pool.Put(make([]byte, 512))

	for i := 0; i < 3; i++ {
		if buf := pool.Get(); cap(buf) != 1024 {
			t.Errorf("get %d: cap = %d, want 1024", i, cap(buf))
		}
	}
}
