//go:build linux || darwin

package ipc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Fifo is a named byte-stream channel over a filesystem FIFO. Unlike
// Pipe it can connect unrelated processes: both sides name the same
// path. Construction creates the kernel object but does not open a
// descriptor; call Open separately with the role-appropriate mode.
type Fifo struct {
	path string
	fd   desc
}

// NewFifo validates the path and mode and creates the FIFO node. An
// already-existing FIFO at the path is fine: the reader side of a pair
// typically arrives second. The descriptor is not opened yet.
func NewFifo(path string, mode byte) (*Fifo, error) {
	if path == "" {
		return nil, ErrEmptyName
	}
	if _, err := openFlags(mode); err != nil {
		return nil, err
	}
	if err := unix.Mkfifo(path, 0666); err != nil && !errors.Is(err, unix.EEXIST) {
		return nil, fmt.Errorf("ipc: mkfifo %s: %w", path, err)
	}
	return &Fifo{path: path, fd: newDesc()}, nil
}

// Open opens a descriptor on the FIFO with the given mode character.
// Fails with ErrAlreadyOpen if a descriptor is already open on this
// instance, and with ErrBadMode before any syscall for an unsupported
// mode. Note that opening one side of a FIFO blocks until a peer opens
// the other, except for mode 'd' (read-write) which succeeds alone.
func (f *Fifo) Open(mode byte) error {
	if f.fd.ok() {
		return ErrAlreadyOpen
	}
	flags, err := openFlags(mode)
	if err != nil {
		return err
	}
	fd, err := unix.Open(f.path, flags, 0666)
	if err != nil {
		return fmt.Errorf("ipc: open %s: %w", f.path, err)
	}
	f.fd.fd = fd
	return nil
}

// Read transfers up to len(p) bytes from the FIFO, bounded by waitMs.
func (f *Fifo) Read(p []byte, waitMs int) (int, error) {
	if !f.fd.ok() {
		return 0, ErrClosed
	}
	return timedRead(f.fd.fd, p, waitMs)
}

// Write transfers bytes from p into the FIFO, bounded by waitMs.
func (f *Fifo) Write(p []byte, waitMs int) (int, error) {
	if !f.fd.ok() {
		return 0, ErrClosed
	}
	return timedWrite(f.fd.fd, p, waitMs)
}

// SetBlocking toggles blocking mode on the open descriptor.
func (f *Fifo) SetBlocking(enable bool) error {
	if !f.fd.ok() {
		return ErrClosed
	}
	return setBlocking(f.fd.fd, enable)
}

// Close closes the descriptor and resets it to the invalid sentinel.
// Idempotent; the FIFO node itself stays in the filesystem.
func (f *Fifo) Close() error {
	f.fd.close()
	return nil
}

// Path returns the filesystem path naming the FIFO.
func (f *Fifo) Path() string {
	return f.path
}
