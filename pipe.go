//go:build linux || darwin

package ipc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Pipe is a unidirectional byte-stream channel over an anonymous pipe.
// The read end and write end are allocated together at construction and
// may be closed independently, which is the usual pattern around
// fork/exec: the parent keeps one end and closes the other.
//
// A Pipe instance is designed for a single owner; sharing one across
// goroutines requires external coordination.
type Pipe struct {
	r desc
	w desc
}

// NewPipe allocates a connected read/write descriptor pair. The whole
// construction fails if the OS cannot allocate the pair.
func NewPipe() (*Pipe, error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, fmt.Errorf("ipc: pipe: %w", err)
	}
	return &Pipe{r: desc{fd: p[0]}, w: desc{fd: p[1]}}, nil
}

// Read transfers up to len(p) bytes from the read end, waiting at most
// waitMs milliseconds for data (negative waits indefinitely). Fails with
// ErrClosed without consulting the poller when the read end is closed.
func (p *Pipe) Read(b []byte, waitMs int) (int, error) {
	if !p.r.ok() {
		return 0, ErrClosed
	}
	return timedRead(p.r.fd, b, waitMs)
}

// Write transfers bytes from b into the write end, waiting at most
// waitMs milliseconds for buffer space. A short write is normal stream
// behavior once the pipe buffer is nearly full.
func (p *Pipe) Write(b []byte, waitMs int) (int, error) {
	if !p.w.ok() {
		return 0, ErrClosed
	}
	return timedWrite(p.w.fd, b, waitMs)
}

// CloseRead closes the read end. Idempotent.
func (p *Pipe) CloseRead() {
	p.r.close()
}

// CloseWrite closes the write end. Idempotent.
func (p *Pipe) CloseWrite() {
	p.w.close()
}

// Close closes both ends. Idempotent.
func (p *Pipe) Close() error {
	p.w.close()
	p.r.close()
	return nil
}

// SetBlocking toggles blocking mode on whichever end is still open, the
// read end taking precedence when both are. Fails when neither end is
// open.
func (p *Pipe) SetBlocking(enable bool) error {
	if p.r.ok() {
		return setBlocking(p.r.fd, enable)
	}
	if p.w.ok() {
		return setBlocking(p.w.fd, enable)
	}
	return ErrClosed
}

// SetSize asks the kernel to resize the pipe buffer. The request is a
// best-effort hint: platforms without pipe resizing report success and
// keep the default capacity, so callers must not assume the requested
// size was honored. Fails only when both ends are already closed.
func (p *Pipe) SetSize(size int) error {
	if !p.r.ok() && !p.w.ok() {
		return ErrClosed
	}
	fd := p.w.fd
	if !p.w.ok() {
		fd = p.r.fd
	}
	setPipeSize(fd, size)
	return nil
}

// ReadFD returns the raw read-end descriptor, or -1 if closed. Exposed
// for callers that hand the end to a child process.
func (p *Pipe) ReadFD() int {
	return p.r.fd
}

// WriteFD returns the raw write-end descriptor, or -1 if closed.
func (p *Pipe) WriteFD() int {
	return p.w.fd
}
