package ipc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation codes from <linux/futex.h>. x/sys/unix exports only
// the syscall numbers, not the op constants.
const (
	futexOpWait      = 0
	futexOpWake      = 1
	futexPrivateFlag = 128
)

// futexOp adds the private-futex optimization for waiters that never
// cross a process boundary. Shared (non-private) ops are required when
// the word lives in a MAP_SHARED region.
func futexOp(op int, private bool) uintptr {
	if private {
		op |= futexPrivateFlag
	}
	return uintptr(op)
}

// futexWait blocks until the value at addr differs from val, a waker
// arrives, or the relative timeout expires. waitMs < 0 waits
// indefinitely. Spurious wakeups are possible: callers always re-check
// their condition in a loop.
//
// The value is re-checked atomically before entering the syscall so a
// wake between the caller's snapshot and the futex entry is not lost.
func futexWait(addr *uint32, val uint32, waitMs int, private bool) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}
	var errno unix.Errno
	if waitMs >= 0 {
		ts := unix.NsecToTimespec(int64(waitMs) * 1e6)
		_, _, errno = unix.Syscall6(unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(addr)), futexOp(futexOpWait, private),
			uintptr(val), uintptr(unsafe.Pointer(&ts)), 0, 0)
	} else {
		_, _, errno = unix.Syscall6(unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(addr)), futexOp(futexOpWait, private),
			uintptr(val), 0, 0, 0)
	}
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		// EAGAIN: the value changed before we slept. EINTR: signal.
		// Both mean "go re-check the condition".
		return nil
	case unix.ETIMEDOUT:
		return ErrTimeout
	}
	return fmt.Errorf("ipc: futex wait: %w", errno)
}

// futexWake wakes up to n waiters sleeping on addr.
func futexWake(addr *uint32, n int, private bool) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), futexOp(futexOpWake, private),
		uintptr(n), 0, 0, 0)
}
