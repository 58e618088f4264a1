package ipc

// BufferPool manages reusable fixed-size byte slices. MsgQueue.Receive
// uses one for its ceiling-sized staging buffers so a busy consumer does
// not allocate a full maximum-size message per read.
//
// BufferPool is safe for concurrent use: the channel-based design gives
// lock-free Get and Put.
type BufferPool struct {
	pool    chan []byte
	bufSize int
}

// NewBufferPool creates a pool pre-populated with count buffers of
// bufSize bytes each.
func NewBufferPool(bufSize, count int) *BufferPool {
	pool := make(chan []byte, count)
	for i := 0; i < count; i++ {
		pool <- make([]byte, bufSize)
	}
	return &BufferPool{
		pool:    pool,
		bufSize: bufSize,
	}
}

// Get returns a buffer of length bufSize, allocating a fresh one when
// the pool is empty.
func (bp *BufferPool) Get() []byte {
	select {
	case buf := <-bp.pool:
		return buf
	default:
		return make([]byte, bp.bufSize)
	}
}

// Put returns a buffer to the pool. Buffers with a different capacity
// are discarded, as is anything beyond the pool's capacity.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.bufSize {
		return
	}
	select {
	case bp.pool <- buf[:bp.bufSize]:
	default:
		// Pool is full; let the buffer be collected.
	}
}
