package ipc

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SemSize is the number of bytes a semaphore counter occupies. Callers
// placing an unnamed semaphore inside a mapped region with NewSemAt must
// reserve at least this much, 4-byte aligned.
const SemSize = 4

// futexSem is the counter core shared by the named and unnamed
// variants: a 32-bit count mutated with CAS, with futex wait/wake as the
// blocking mechanism.
type futexSem struct {
	v       *uint32
	private bool
}

func (s *futexSem) tryAcquire() bool {
	for {
		cur := atomic.LoadUint32(s.v)
		if cur == 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(s.v, cur, cur-1) {
			return true
		}
	}
}

// acquire decrements the count, waiting up to waitMs milliseconds for
// it to become positive (negative waits indefinitely). Returns false
// only on timeout.
func (s *futexSem) acquire(waitMs int) (bool, error) {
	if waitMs < 0 {
		for {
			if s.tryAcquire() {
				return true, nil
			}
			if err := futexWait(s.v, 0, -1, s.private); err != nil {
				return false, err
			}
		}
	}
	deadline := time.Now().Add(time.Duration(waitMs) * time.Millisecond)
	for {
		if s.tryAcquire() {
			return true, nil
		}
		remain := int(time.Until(deadline) / time.Millisecond)
		if remain <= 0 {
			return false, nil
		}
		if err := futexWait(s.v, 0, remain, s.private); err != nil {
			if errors.Is(err, ErrTimeout) {
				// Give the count one last look before reporting expiry.
				return s.tryAcquire(), nil
			}
			return false, err
		}
	}
}

func (s *futexSem) release() {
	atomic.AddUint32(s.v, 1)
	futexWake(s.v, 1, s.private)
}

// NamedSem is a counting semaphore identified by a name in the kernel
// namespace, usable across unrelated processes. The counter lives in a
// 4-byte /dev/shm file mapped into every participant; waiting and waking
// go through shared futex operations, so no CGO or libc is involved.
//
// The owning side creates the name exclusively and is the only
// participant allowed to Unlink it. Fresh semaphores start at count 1.
type NamedSem struct {
	name  string
	path  string
	mem   []byte
	sem   futexSem
	owner bool
}

// semPath maps a semaphore name to its backing file. The "go.sem."
// prefix keeps the namespace apart from glibc's own "sem.*" files,
// whose layout is incompatible.
func semPath(name string) string {
	return "/dev/shm/go.sem." + name
}

// NewNamedSem opens the named semaphore, creating it with an initial
// count of 1 if it does not exist. With owner=true creation is exclusive
// and an existing name is a construction failure, mirroring
// sem_open(O_CREAT|O_EXCL).
func NewNamedSem(name string, owner bool) (*NamedSem, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return nil, ErrEmptyName
	}
	flags := unix.O_RDWR | unix.O_CREAT | unix.O_CLOEXEC
	if owner {
		flags |= unix.O_EXCL
	}
	path := semPath(name)
	fd, err := unix.Open(path, flags, 0666)
	if err != nil {
		return nil, fmt.Errorf("ipc: sem open %s: %w", name, err)
	}

	// A zero-length file is freshly created and needs sizing plus the
	// initial count. Initialization is not atomic with creation: the
	// creator must exist before peers start acquiring, which the
	// owner/peer convention already guarantees.
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ipc: sem stat %s: %w", name, err)
	}
	created := st.Size < SemSize
	if created {
		if err := unix.Ftruncate(fd, SemSize); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("ipc: sem size %s: %w", name, err)
		}
	}

	mem, err := unix.Mmap(fd, 0, SemSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	unix.Close(fd)
	if err != nil {
		return nil, fmt.Errorf("ipc: sem map %s: %w", name, err)
	}

	s := &NamedSem{
		name:  name,
		path:  path,
		mem:   mem,
		sem:   futexSem{v: (*uint32)(unsafe.Pointer(&mem[0]))},
		owner: owner,
	}
	if created {
		atomic.StoreUint32(s.sem.v, 1)
	}
	return s, nil
}

// Acquire blocks until the count can be decremented.
func (s *NamedSem) Acquire() error {
	if s.mem == nil {
		return ErrClosed
	}
	_, err := s.sem.acquire(-1)
	return err
}

// TryAcquire attempts an immediate decrement and reports false without
// waiting when the count is zero.
func (s *NamedSem) TryAcquire() (bool, error) {
	if s.mem == nil {
		return false, ErrClosed
	}
	return s.sem.tryAcquire(), nil
}

// AcquireTimeout waits up to timeoutMs milliseconds for the count to
// become available. Returns false when the deadline expires.
func (s *NamedSem) AcquireTimeout(timeoutMs int) (bool, error) {
	if s.mem == nil {
		return false, ErrClosed
	}
	return s.sem.acquire(timeoutMs)
}

// Release increments the count and wakes one waiter.
func (s *NamedSem) Release() error {
	if s.mem == nil {
		return ErrClosed
	}
	s.sem.release()
	return nil
}

// Value returns the current count.
func (s *NamedSem) Value() (int, error) {
	if s.mem == nil {
		return -1, ErrClosed
	}
	return int(atomic.LoadUint32(s.sem.v)), nil
}

// Close unmaps the local view of the counter. Idempotent; the named
// object stays in the kernel namespace for other handles.
func (s *NamedSem) Close() error {
	if s.mem != nil {
		unix.Munmap(s.mem)
		s.mem = nil
		s.sem.v = nil
	}
	return nil
}

// Unlink closes the local view and removes the name from the kernel
// namespace. Only the owning side may unlink; an already-removed name
// is not an error, so close-then-unlink is idempotent.
func (s *NamedSem) Unlink() error {
	s.Close()
	if !s.owner {
		return ErrNotOwner
	}
	if err := unix.Unlink(s.path); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("ipc: sem unlink %s: %w", s.name, err)
	}
	return nil
}

// Sem is an unnamed counting semaphore with an initial count of 1.
// NewSem places the counter in process-private memory and only
// coordinates goroutines/threads of one process; NewSemAt places it in
// caller-supplied memory, typically a mapped SharedMemory region, for
// cross-process use.
type Sem struct {
	sem futexSem
}

// NewSem returns a process-private semaphore with count 1.
func NewSem() *Sem {
	v := new(uint32)
	*v = 1
	return &Sem{sem: futexSem{v: v, private: true}}
}

// NewSemAt binds a process-shared semaphore to the first SemSize bytes
// of mem and initializes the count to 1. mem must be 4-byte aligned and
// reside in memory visible to every sharing process.
func NewSemAt(mem []byte) (*Sem, error) {
	if len(mem) < SemSize {
		return nil, fmt.Errorf("ipc: sem placement needs %d bytes, have %d", SemSize, len(mem))
	}
	p := unsafe.Pointer(&mem[0])
	if uintptr(p)%SemSize != 0 {
		return nil, fmt.Errorf("ipc: sem placement is not %d-byte aligned", SemSize)
	}
	s := &Sem{sem: futexSem{v: (*uint32)(p)}}
	atomic.StoreUint32(s.sem.v, 1)
	return s, nil
}

// Acquire blocks until the count can be decremented.
func (s *Sem) Acquire() error {
	if s.sem.v == nil {
		return ErrClosed
	}
	_, err := s.sem.acquire(-1)
	return err
}

// TryAcquire attempts an immediate decrement without waiting.
func (s *Sem) TryAcquire() (bool, error) {
	if s.sem.v == nil {
		return false, ErrClosed
	}
	return s.sem.tryAcquire(), nil
}

// AcquireTimeout waits up to timeoutMs milliseconds for the count.
func (s *Sem) AcquireTimeout(timeoutMs int) (bool, error) {
	if s.sem.v == nil {
		return false, ErrClosed
	}
	return s.sem.acquire(timeoutMs)
}

// Release increments the count and wakes one waiter.
func (s *Sem) Release() error {
	if s.sem.v == nil {
		return ErrClosed
	}
	s.sem.release()
	return nil
}

// Close detaches the semaphore from its counter. For NewSemAt the
// backing memory belongs to the caller and is left untouched.
func (s *Sem) Close() error {
	s.sem.v = nil
	return nil
}
