//go:build linux || darwin

package ipc

import "golang.org/x/sys/unix"

// invalidFD is the sentinel for a descriptor that is not open.
const invalidFD = -1

// desc is an owned file descriptor. A desc is either a valid kernel
// handle or invalidFD; no other state is representable. Instances are
// single-owner: callers sharing a channel across goroutines coordinate
// externally, so no atomics are needed here.
type desc struct {
	fd int
}

func newDesc() desc {
	return desc{fd: invalidFD}
}

// ok reports whether the descriptor is open.
func (d *desc) ok() bool {
	return d.fd != invalidFD
}

// close releases the descriptor and resets it to the invalid sentinel.
// Calling close on an already-closed desc is a no-op, which makes every
// teardown path idempotent.
func (d *desc) close() {
	if d.fd != invalidFD {
		unix.Close(d.fd)
		d.fd = invalidFD
	}
}

// setBlocking flips the O_NONBLOCK flag on an open descriptor.
func setBlocking(fd int, enable bool) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return err
	}
	if enable {
		flags &^= unix.O_NONBLOCK
	} else {
		flags |= unix.O_NONBLOCK
	}
	_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags)
	return err
}
