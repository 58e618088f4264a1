package ipc

// setPipeSize is a no-op on Darwin, which has no pipe-resize fcntl.
// The default kernel capacity applies.
func setPipeSize(fd, size int) bool {
	return false
}
