package ipc

// Channel is the common contract implemented by the byte-stream and
// message channels (Pipe, Fifo, MsgQueue).
//
// Every transfer takes a deadline in milliseconds: negative blocks
// indefinitely, zero performs an immediate readiness poll, positive
// bounds the wait. A transfer that times out returns (0, ErrTimeout);
// a transfer on a closed descriptor returns (0, ErrClosed).
type Channel interface {
	// Read transfers at most len(p) bytes from the channel into p and
	// returns the number of bytes actually received.
	Read(p []byte, waitMs int) (int, error)

	// Write transfers bytes from p into the channel and returns the
	// number of bytes accepted, which for stream channels may be less
	// than len(p).
	Write(p []byte, waitMs int) (int, error)

	// Close releases the channel's descriptors. Close is idempotent;
	// subsequent reads and writes fail with ErrClosed.
	Close() error
}

// Destroyer is implemented by channels backed by a named kernel object.
// Destroy closes the local handle and removes the name from the kernel
// namespace. By convention exactly one participant, the owning server
// side, invokes it; peers merely Close.
type Destroyer interface {
	Destroy() error
}
