package ipc

import "errors"

// Sentinel errors returned by channel, semaphore, and shared memory
// operations. Match with errors.Is; OS-level failures are wrapped and
// carry the underlying errno.
var (
	// ErrClosed is returned when an operation requires a descriptor that
	// has already been closed (or was never opened).
	ErrClosed = errors.New("ipc: descriptor is closed")

	// ErrTimeout is returned when a bounded wait expires before the
	// resource becomes ready. It is distinct from an I/O failure: no data
	// was transferred and the operation may simply be retried.
	ErrTimeout = errors.New("ipc: timed out")

	// ErrBadMode is returned when a mode character is not one of the
	// supported vocabulary for the operation.
	ErrBadMode = errors.New("ipc: unsupported mode")

	// ErrEmptyName is returned when a named kernel object is constructed
	// with an empty name.
	ErrEmptyName = errors.New("ipc: empty object name")

	// ErrAlreadyOpen is returned by Fifo.Open when a descriptor is
	// already open on the instance.
	ErrAlreadyOpen = errors.New("ipc: descriptor already open")

	// ErrAlreadyMapped is returned by SharedMemory.Map when the segment
	// instance already holds an active mapping.
	ErrAlreadyMapped = errors.New("ipc: segment already mapped")

	// ErrBufferTooSmall is returned by MsgQueue.Read when the supplied
	// buffer cannot hold a maximum-size message. The queue is not touched.
	ErrBufferTooSmall = errors.New("ipc: buffer smaller than queue message size")

	// ErrNotOwner is returned when Destroy or Unlink is invoked on an
	// instance that was not constructed as the owning (server) side.
	ErrNotOwner = errors.New("ipc: not the owner of the named object")
)
