package ipc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// shmDir is where POSIX shared memory names live on Linux; shm_open is
// a thin libc wrapper over open(2) in this directory.
const shmDir = "/dev/shm/"

// SharedMemory is a named, sized memory segment with an explicit
// map/unmap lifecycle. Construction opens (and creates, per mode) the
// name but does not map; size the fresh segment with Truncate, then
// establish a single mapping with Map.
//
// The mapping is owned by the instance: it is handed out as a bounded
// byte slice, a second simultaneous Map is refused, and Unmap releases
// it. The name outlives any one process's handle; the instance
// constructed with owner=true removes it with Destroy.
type SharedMemory struct {
	name  string
	path  string
	fd    desc
	mem   []byte
	owner bool
}

// shmFlags translates the shared creation-mode vocabulary for segment
// use. The write modes open O_RDWR rather than O_WRONLY: Linux refuses
// to map a descriptor it cannot read.
func shmFlags(mode byte) (int, error) {
	switch mode {
	case 'r':
		return unix.O_RDONLY, nil
	case 'a', 'm', 'd':
		return unix.O_RDWR | unix.O_CREAT, nil
	case 'w':
		return unix.O_RDWR | unix.O_CREAT | unix.O_TRUNC, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, mode)
}

// NewSharedMemory opens the named segment per mode. The name may be
// written with or without the leading '/'.
func NewSharedMemory(name string, mode byte, owner bool) (*SharedMemory, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return nil, ErrEmptyName
	}
	flags, err := shmFlags(mode)
	if err != nil {
		return nil, err
	}
	path := shmDir + name
	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, 0666)
	if err != nil {
		return nil, fmt.Errorf("ipc: shm open %s: %w", name, err)
	}
	return &SharedMemory{name: name, path: path, fd: desc{fd: fd}, owner: owner}, nil
}

// Truncate sets the segment size. A fresh segment has size zero and
// must be sized before the first mapping, or the mapping faults on
// first touch.
func (m *SharedMemory) Truncate(size int64) error {
	if !m.fd.ok() {
		return ErrClosed
	}
	if err := unix.Ftruncate(m.fd.fd, size); err != nil {
		return fmt.Errorf("ipc: shm truncate %s: %w", m.name, err)
	}
	return nil
}

// Size returns the current segment size.
func (m *SharedMemory) Size() (int64, error) {
	if !m.fd.ok() {
		return 0, ErrClosed
	}
	var st unix.Stat_t
	if err := unix.Fstat(m.fd.fd, &st); err != nil {
		return 0, fmt.Errorf("ipc: shm stat %s: %w", m.name, err)
	}
	return st.Size, nil
}

// Map establishes the instance's single mapping of length bytes at the
// given segment offset and returns it as a byte slice. The access mode
// uses the r/w/e/d/n/m vocabulary; shared selects MAP_SHARED (writes
// visible to other processes) over MAP_PRIVATE (copy-on-write). Calling
// Map while a mapping is active fails with ErrAlreadyMapped without
// creating a second mapping.
func (m *SharedMemory) Map(length int, mode byte, shared bool, offset int64) ([]byte, error) {
	if m.mem != nil {
		return nil, ErrAlreadyMapped
	}
	if !m.fd.ok() {
		return nil, ErrClosed
	}
	prot, err := mapProt(mode)
	if err != nil {
		return nil, err
	}
	mapFlags := unix.MAP_PRIVATE
	if shared {
		mapFlags = unix.MAP_SHARED
	}
	mem, err := unix.Mmap(m.fd.fd, offset, length, prot, mapFlags)
	if err != nil {
		return nil, fmt.Errorf("ipc: shm map %s: %w", m.name, err)
	}
	m.mem = mem
	return mem, nil
}

// Bytes returns the active mapping, or nil when unmapped. The slice is
// only valid until Unmap.
func (m *SharedMemory) Bytes() []byte {
	return m.mem
}

// Unmap releases the active mapping. Idempotent.
func (m *SharedMemory) Unmap() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	if err != nil {
		return fmt.Errorf("ipc: shm unmap %s: %w", m.name, err)
	}
	return nil
}

// Close unmaps and closes the local descriptor. Idempotent; the named
// segment stays in the kernel namespace for other handles.
func (m *SharedMemory) Close() error {
	err := m.Unmap()
	m.fd.close()
	return err
}

// Destroy unmaps, closes, and removes the segment name from the kernel
// namespace. Only the owning (server) instance may destroy; a name
// already removed by this owner is not an error.
func (m *SharedMemory) Destroy() error {
	if err := m.Close(); err != nil {
		return err
	}
	if !m.owner {
		return ErrNotOwner
	}
	if err := unix.Unlink(m.path); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("ipc: shm unlink %s: %w", m.name, err)
	}
	return nil
}

// Name returns the segment name without the leading slash.
func (m *SharedMemory) Name() string {
	return m.name
}
