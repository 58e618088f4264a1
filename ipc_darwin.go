package ipc

import "errors"

// ErrNotAvailable is returned for primitives without a Darwin
// implementation: the kernel has no POSIX message queues, and the
// futex-backed semaphores and /dev/shm segments are Linux-specific.
// Pipe, Fifo, and the readiness poller work everywhere.
var ErrNotAvailable = errors.New("ipc: primitive not available on this platform")

// DefaultMaxMessage mirrors the Linux default for API parity.
const DefaultMaxMessage = 8192

// SemSize mirrors the Linux counter size for API parity.
const SemSize = 4

// Sigevent is a placeholder for the mq_notify registration payload.
type Sigevent struct {
	Value  uintptr
	Signo  int32
	Notify int32
}

// Notification dispositions for Sigevent.Notify, mirrored for API
// parity; no queue exists to deliver them here.
const (
	SigevSignal = 0
	SigevNone   = 1
	SigevThread = 2
)

// MsgQueue is a stub; all operations report ErrNotAvailable.
type MsgQueue struct{}

func NewMsgQueue(name string, mode byte, maxMsg int, owner bool) (*MsgQueue, error) {
	return nil, ErrNotAvailable
}

func (q *MsgQueue) Read(p []byte, waitMs int) (int, error)  { return 0, ErrNotAvailable }
func (q *MsgQueue) Write(p []byte, waitMs int) (int, error) { return 0, ErrNotAvailable }
func (q *MsgQueue) Receive(waitMs int) ([]byte, error)      { return nil, ErrNotAvailable }
func (q *MsgQueue) SetBlocking(enable bool) error           { return ErrNotAvailable }
func (q *MsgQueue) Notify(sev *Sigevent) error              { return ErrNotAvailable }
func (q *MsgQueue) Close() error                            { return nil }
func (q *MsgQueue) Destroy() error                          { return ErrNotAvailable }
func (q *MsgQueue) MaxMessage() int                         { return 0 }
func (q *MsgQueue) Name() string                            { return "" }

// NamedSem is a stub; all operations report ErrNotAvailable.
type NamedSem struct{}

func NewNamedSem(name string, owner bool) (*NamedSem, error) { return nil, ErrNotAvailable }

func (s *NamedSem) Acquire() error                             { return ErrNotAvailable }
func (s *NamedSem) TryAcquire() (bool, error)                  { return false, ErrNotAvailable }
func (s *NamedSem) AcquireTimeout(timeoutMs int) (bool, error) { return false, ErrNotAvailable }
func (s *NamedSem) Release() error                             { return ErrNotAvailable }
func (s *NamedSem) Value() (int, error)                        { return -1, ErrNotAvailable }
func (s *NamedSem) Close() error                               { return nil }
func (s *NamedSem) Unlink() error                              { return ErrNotAvailable }

// Sem is a stub; all operations report ErrNotAvailable.
type Sem struct{}

func NewSem() *Sem                      { return &Sem{} }
func NewSemAt(mem []byte) (*Sem, error) { return nil, ErrNotAvailable }

func (s *Sem) Acquire() error                             { return ErrNotAvailable }
func (s *Sem) TryAcquire() (bool, error)                  { return false, ErrNotAvailable }
func (s *Sem) AcquireTimeout(timeoutMs int) (bool, error) { return false, ErrNotAvailable }
func (s *Sem) Release() error                             { return ErrNotAvailable }
func (s *Sem) Close() error                               { return nil }

// SharedMemory is a stub; all operations report ErrNotAvailable.
type SharedMemory struct{}

func NewSharedMemory(name string, mode byte, owner bool) (*SharedMemory, error) {
	return nil, ErrNotAvailable
}

func (m *SharedMemory) Truncate(size int64) error { return ErrNotAvailable }
func (m *SharedMemory) Size() (int64, error)      { return 0, ErrNotAvailable }
func (m *SharedMemory) Map(length int, mode byte, shared bool, offset int64) ([]byte, error) {
	return nil, ErrNotAvailable
}
func (m *SharedMemory) Bytes() []byte { return nil }
func (m *SharedMemory) Unmap() error  { return nil }
func (m *SharedMemory) Close() error  { return nil }
func (m *SharedMemory) Destroy() error {
	return ErrNotAvailable
}
func (m *SharedMemory) Name() string { return "" }
