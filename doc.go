// Package ipc provides a unified abstraction over the local POSIX
// inter-process communication primitives: anonymous pipes, named FIFOs,
// POSIX message queues, counting semaphores, and shared memory
// segments.
//
// The package reconciles the divergent kernel semantics of these
// primitives under a small set of capability interfaces. Byte-stream
// and message channels (Pipe, Fifo, MsgQueue) share the Channel
// contract; the semaphore variants share the Semaphore contract; named
// objects additionally implement Destroyer. Everything is implemented
// directly on golang.org/x/sys/unix, with no CGO.
//
// # Timeouts
//
// Every blocking operation takes a deadline in milliseconds:
//
//   - negative: block indefinitely
//   - zero: immediate readiness poll, no waiting
//   - positive: bounded wait
//
// A bounded wait that expires returns (0, ErrTimeout), distinct from an
// I/O failure: nothing was transferred and the call may be retried.
// Descriptor-based channels implement this with a select(2)-based
// readiness poll composed with a single transfer syscall; the message
// queue uses the kernel's absolute-deadline mq calls; semaphores wait
// on a futex.
//
// # Channels
//
//	p, _ := ipc.NewPipe()
//	defer p.Close()
//
//	p.Write([]byte("ping"), -1)
//	buf := make([]byte, 64)
//	n, _ := p.Read(buf, 1000) // up to one second
//
// Fifo connects unrelated processes through a filesystem path;
// construction creates the node and Open attaches a descriptor with a
// role-appropriate mode character ('r', 'a', 'w', 'm', or 'd').
//
// MsgQueue exchanges discrete messages with a fixed size ceiling and a
// bounded depth. Sends are all-or-nothing; reads require a buffer that
// can hold a maximum-size message, or use Receive for a pooled,
// exact-size result.
//
// # Names, handles, and ownership
//
// A named kernel object (FIFO path, queue name, semaphore name, segment
// name) is distinct from any process's open handle to it. Close releases
// the local handle and is always idempotent; Destroy or Unlink
// additionally removes the name from the kernel namespace. Exactly one
// participant, constructed with owner=true, holds the destroy role;
// everyone else gets ErrNotOwner. This keeps a peer from unlinking an
// object the server still expects to exist.
//
// # Semaphores
//
//	sem, _ := ipc.NewNamedSem("/my_sem", true)
//	defer sem.Unlink()
//
//	sem.Acquire()
//	// critical section - access shared resource
//	sem.Release()
//
// NewSem gives an unnamed process-private semaphore; NewSemAt places
// the counter inside caller-supplied shared memory for cross-process
// use. All variants start at count 1.
//
// # Shared memory
//
//	shm, _ := ipc.NewSharedMemory("/my_shm", 'w', true)
//	defer shm.Destroy()
//
//	shm.Truncate(4096)
//	buf, _ := shm.Map(4096, 'd', true, 0)
//	copy(buf, "hello")
//	shm.Unmap()
//
// A segment instance holds at most one mapping at a time; Map refuses a
// second, and Unmap is idempotent.
//
// # Concurrency
//
// Instances are single-owner: the package takes no internal locks, so
// sharing one channel or segment instance across goroutines requires
// external coordination. Cross-process shared mutable state is exactly
// what shared memory plus a process-shared semaphore is for.
//
// # Platform support
//
// Linux is fully supported. On Darwin the pipe, FIFO, and readiness
// poller work; message queues, semaphores, and shared memory report
// ErrNotAvailable (the kernel lacks POSIX mq, and the semaphore and
// segment implementations use Linux futexes and /dev/shm).
package ipc
