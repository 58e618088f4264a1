package ipc

// Semaphore is the counting-synchronization capability shared by the
// named and unnamed variants. It is deliberately separate from Channel:
// counting semantics and stream semantics do not mix.
//
// Example:
//
//	sem, _ := ipc.NewNamedSem("/my_sem", true)
//	defer sem.Close()
//
//	sem.Acquire()
//	// critical section - access shared resource
//	sem.Release()
type Semaphore interface {
	// Acquire blocks until the semaphore can be decremented.
	Acquire() error

	// TryAcquire attempts to decrement the semaphore without blocking.
	// Returns true if acquired, false if the count was zero.
	TryAcquire() (bool, error)

	// AcquireTimeout attempts to acquire with a maximum wait time in
	// milliseconds. Returns true if acquired, false if the timeout elapsed.
	AcquireTimeout(timeoutMs int) (bool, error)

	// Release increments the semaphore, potentially unblocking waiters.
	Release() error

	// Close releases local resources associated with the semaphore.
	// The kernel object of a named semaphore outlives Close; see Unlink.
	Close() error
}
