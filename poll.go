//go:build linux || darwin

package ipc

import "golang.org/x/sys/unix"

// direction selects which readiness a poll waits for.
type direction int

const (
	dirRead direction = iota
	dirWrite
)

// pollDesc waits until fd is ready for the given direction or the
// deadline expires. waitMs < 0 blocks indefinitely; waitMs == 0 still
// performs a non-blocking readiness check rather than skipping it.
//
// Returns (true, nil) when ready, (false, ErrTimeout) when the deadline
// expired, and (false, err) when select itself failed, so callers can
// tell "nothing arrived in time" from a broken descriptor.
func pollDesc(fd int, dir direction, waitMs int) (bool, error) {
	var fds unix.FdSet
	fds.Zero()
	fds.Set(fd)

	var tv *unix.Timeval
	if waitMs >= 0 {
		t := unix.NsecToTimeval(int64(waitMs) * 1e6)
		tv = &t
	}

	var n int
	var err error
	switch dir {
	case dirRead:
		n, err = unix.Select(fd+1, &fds, nil, nil, tv)
	case dirWrite:
		n, err = unix.Select(fd+1, nil, &fds, nil, tv)
	}
	if err != nil {
		return false, err
	}
	if n == 0 || !fds.IsSet(fd) {
		return false, ErrTimeout
	}
	return true, nil
}

// timedRead polls fd for readability and then issues a single read.
// A short read is normal stream behavior; no retry loop is imposed.
func timedRead(fd int, p []byte, waitMs int) (int, error) {
	if ready, err := pollDesc(fd, dirRead, waitMs); !ready {
		return 0, err
	}
	return unix.Read(fd, p)
}

// timedWrite polls fd for writability and then issues a single write.
func timedWrite(fd int, p []byte, waitMs int) (int, error) {
	if ready, err := pollDesc(fd, dirWrite, waitMs); !ready {
		return 0, err
	}
	return unix.Write(fd, p)
}
