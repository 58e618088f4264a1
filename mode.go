//go:build linux || darwin

package ipc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// openFlags translates a creation-mode character into open(2) flags.
// The vocabulary is shared by Fifo, MsgQueue, and SharedMemory:
//
//	'r': read only        open if exists
//	'a': append           created if not exists
//	'w': write            created if not exists, truncated if exists
//	'm': modify           like 'w', but not truncated if exists
//	'd': default          read-write, created if not exists
//
// An unrecognized character fails before any kernel object is touched.
func openFlags(mode byte) (int, error) {
	switch mode {
	case 'r':
		return unix.O_RDONLY, nil
	case 'a':
		return unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND, nil
	case 'w':
		return unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC, nil
	case 'm':
		return unix.O_WRONLY | unix.O_CREAT, nil
	case 'd':
		return unix.O_RDWR | unix.O_CREAT | unix.O_APPEND, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, mode)
}

// mapProt translates an access-mode character into mmap(2) protection
// flags for shared memory mappings:
//
//	'r': read only
//	'w': write only
//	'e': execute only
//	'd': read-write
//	'n': no access
//	'm': read-write-execute
func mapProt(mode byte) (int, error) {
	switch mode {
	case 'r':
		return unix.PROT_READ, nil
	case 'w':
		return unix.PROT_WRITE, nil
	case 'e':
		return unix.PROT_EXEC, nil
	case 'd':
		return unix.PROT_READ | unix.PROT_WRITE, nil
	case 'n':
		return unix.PROT_NONE, nil
	case 'm':
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, mode)
}
