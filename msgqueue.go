//go:build linux

package ipc

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultMaxMessage is the message-size ceiling used when a MsgQueue is
// constructed without an explicit limit. It matches the kernel's default
// msgsize_max so unprivileged creation succeeds out of the box.
const DefaultMaxMessage = 8192

// mqDepth is the queue depth requested at creation. The kernel default
// msg_max is 10 for unprivileged callers; asking for more fails EINVAL.
const mqDepth = 10

// mqAttr mirrors the kernel mq_attr layout. Fields are C long, which is
// pointer-sized on every Linux port.
type mqAttr struct {
	Flags   int
	MaxMsg  int
	MsgSize int
	CurMsgs int
	_       [4]int
}

// Sigevent mirrors the 64-byte kernel sigevent passed to mq_notify.
type Sigevent struct {
	Value  uintptr
	Signo  int32
	Notify int32
	_      [48]byte
}

// Notification dispositions for Sigevent.Notify.
const (
	SigevSignal = 0 // deliver Signo to the process
	SigevNone   = 1 // register interest, deliver nothing
	SigevThread = 2 // notify via thread (libc-level; rarely useful here)
)

// MsgQueue is a discrete-message channel over a POSIX message queue.
// Messages are all-or-nothing: a send either enqueues the whole payload
// or nothing, and a receive always returns one complete message. The
// queue is bounded both in depth and in per-message size.
//
// The queue name lives in the kernel mq namespace independent of any
// process. Exactly one participant should be constructed with owner=true
// and call Destroy when the conversation is over.
type MsgQueue struct {
	name   string
	fd     desc
	maxMsg int
	owner  bool
	pool   *BufferPool
}

// NewMsgQueue opens (and creates, per mode) the named queue with the
// given message-size limit. maxMsg <= 0 selects DefaultMaxMessage. The
// name may be written with or without the leading '/'.
func NewMsgQueue(name string, mode byte, maxMsg int, owner bool) (*MsgQueue, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return nil, ErrEmptyName
	}
	if strings.ContainsRune(name, '/') {
		return nil, fmt.Errorf("ipc: mq name %q must not contain '/'", name)
	}
	flags, err := openFlags(mode)
	if err != nil {
		return nil, err
	}
	// The mq namespace has no append or truncate semantics.
	flags &^= unix.O_APPEND | unix.O_TRUNC

	if maxMsg <= 0 {
		maxMsg = DefaultMaxMessage
	}
	attr := mqAttr{MaxMsg: mqDepth, MsgSize: maxMsg}

	namep, err := unix.BytePtrFromString(name)
	if err != nil {
		return nil, err
	}
	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(namep)), uintptr(flags), 0666,
		uintptr(unsafe.Pointer(&attr)), 0, 0)
	if errno != 0 {
		return nil, fmt.Errorf("ipc: mq_open %s: %w", name, errno)
	}
	return &MsgQueue{
		name:   name,
		fd:     desc{fd: int(fd)},
		maxMsg: maxMsg,
		owner:  owner,
		pool:   NewBufferPool(maxMsg, 4),
	}, nil
}

// absDeadline converts a bounded wait in milliseconds to the absolute
// CLOCK_REALTIME timespec the mq_timed* calls expect.
func absDeadline(waitMs int) unix.Timespec {
	deadline := time.Now().Add(time.Duration(waitMs) * time.Millisecond)
	return unix.NsecToTimespec(deadline.UnixNano())
}

// Write enqueues p as one message at a fixed priority. A negative
// waitMs blocks until queue space is available; a non-negative waitMs
// bounds the wait with an absolute deadline and returns (0, ErrTimeout)
// if the queue stays full. On success the requested length is reported:
// the queue transfer is all-or-nothing per message.
func (q *MsgQueue) Write(p []byte, waitMs int) (int, error) {
	if !q.fd.ok() {
		return 0, ErrClosed
	}
	var bufp unsafe.Pointer
	if len(p) > 0 {
		bufp = unsafe.Pointer(&p[0])
	}
	var errno unix.Errno
	if waitMs >= 0 {
		ts := absDeadline(waitMs)
		_, _, errno = unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
			uintptr(q.fd.fd), uintptr(bufp), uintptr(len(p)), 0,
			uintptr(unsafe.Pointer(&ts)), 0)
	} else {
		_, _, errno = unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
			uintptr(q.fd.fd), uintptr(bufp), uintptr(len(p)), 0, 0, 0)
	}
	switch errno {
	case 0:
		return len(p), nil
	case unix.ETIMEDOUT:
		return 0, ErrTimeout
	default:
		return 0, fmt.Errorf("ipc: mq_send %s: %w", q.name, errno)
	}
}

// Read dequeues the next message into p and returns its kernel-reported
// length, which may be less than the configured ceiling. The buffer
// must be able to hold a maximum-size message; a smaller buffer fails
// with ErrBufferTooSmall before the queue is touched.
func (q *MsgQueue) Read(p []byte, waitMs int) (int, error) {
	if !q.fd.ok() {
		return 0, ErrClosed
	}
	if len(p) < q.maxMsg {
		return 0, ErrBufferTooSmall
	}
	var n uintptr
	var errno unix.Errno
	if waitMs >= 0 {
		ts := absDeadline(waitMs)
		n, _, errno = unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
			uintptr(q.fd.fd), uintptr(unsafe.Pointer(&p[0])), uintptr(len(p)), 0,
			uintptr(unsafe.Pointer(&ts)), 0)
	} else {
		n, _, errno = unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
			uintptr(q.fd.fd), uintptr(unsafe.Pointer(&p[0])), uintptr(len(p)), 0, 0, 0)
	}
	switch errno {
	case 0:
		return int(n), nil
	case unix.ETIMEDOUT:
		return 0, ErrTimeout
	default:
		return 0, fmt.Errorf("ipc: mq_receive %s: %w", q.name, errno)
	}
}

// Receive dequeues the next message using a pooled staging buffer and
// returns an exact-size copy. Convenient when the caller does not want
// to manage ceiling-sized buffers itself.
func (q *MsgQueue) Receive(waitMs int) ([]byte, error) {
	buf := q.pool.Get()
	defer q.pool.Put(buf)
	n, err := q.Read(buf, waitMs)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, buf[:n])
	return out, nil
}

// SetBlocking toggles O_NONBLOCK on the queue descriptor. Non-blocking
// sends and receives fail immediately with EAGAIN instead of waiting.
func (q *MsgQueue) SetBlocking(enable bool) error {
	if !q.fd.ok() {
		return ErrClosed
	}
	var cur mqAttr
	_, _, errno := unix.Syscall6(unix.SYS_MQ_GETSETATTR,
		uintptr(q.fd.fd), 0, uintptr(unsafe.Pointer(&cur)), 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("ipc: mq_getattr %s: %w", q.name, errno)
	}
	if enable {
		cur.Flags = 0
	} else {
		cur.Flags = unix.O_NONBLOCK
	}
	_, _, errno = unix.Syscall6(unix.SYS_MQ_GETSETATTR,
		uintptr(q.fd.fd), uintptr(unsafe.Pointer(&cur)), 0, 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("ipc: mq_setattr %s: %w", q.name, errno)
	}
	return nil
}

// Notify registers a one-shot notification delivered when a message
// arrives on the empty queue. Passing nil revokes an existing
// registration. Only one process may hold a registration at a time, and
// a process blocked in Read takes priority over the notification.
func (q *MsgQueue) Notify(sev *Sigevent) error {
	if !q.fd.ok() {
		return ErrClosed
	}
	var errno unix.Errno
	if sev != nil {
		_, _, errno = unix.Syscall(unix.SYS_MQ_NOTIFY,
			uintptr(q.fd.fd), uintptr(unsafe.Pointer(sev)), 0)
	} else {
		_, _, errno = unix.Syscall(unix.SYS_MQ_NOTIFY, uintptr(q.fd.fd), 0, 0)
	}
	if errno != 0 {
		return fmt.Errorf("ipc: mq_notify %s: %w", q.name, errno)
	}
	return nil
}

// Close closes the local queue descriptor. Idempotent; the named queue
// stays in the kernel namespace for other handles.
func (q *MsgQueue) Close() error {
	q.fd.close()
	return nil
}

// Destroy closes the local handle and removes the queue name from the
// kernel namespace. Only the owning (server) instance may destroy; a
// queue already unlinked by this owner is not an error.
func (q *MsgQueue) Destroy() error {
	q.fd.close()
	if !q.owner {
		return ErrNotOwner
	}
	namep, err := unix.BytePtrFromString(q.name)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(namep)), 0, 0)
	if errno != 0 && errno != unix.ENOENT {
		return fmt.Errorf("ipc: mq_unlink %s: %w", q.name, errno)
	}
	return nil
}

// MaxMessage returns the per-message size ceiling the queue was
// configured with.
func (q *MsgQueue) MaxMessage() int {
	return q.maxMsg
}

// Name returns the queue name within the kernel mq namespace, without
// the leading slash.
func (q *MsgQueue) Name() string {
	return q.name
}
