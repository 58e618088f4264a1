package ipc

import "golang.org/x/sys/unix"

// setPipeSize resizes the pipe buffer via F_SETPIPE_SZ. The kernel may
// round the size up to a page multiple or refuse it entirely; either
// way the pipe keeps working, so the result is advisory.
func setPipeSize(fd, size int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_SETPIPE_SZ, size)
	return err == nil
}
