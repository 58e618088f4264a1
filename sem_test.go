//go:build linux

package ipc

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

var semSeq int

func semTestName() string {
	semSeq++
	return fmt.Sprintf("ipc_test_sem_%d_%d", os.Getpid(), semSeq)
}

// TestNamedSemContention walks the canonical scenario: holder A blocks
// out B's non-blocking acquire until A releases.
func TestNamedSemContention(t *testing.T) {
	name := semTestName()
	a, err := NewNamedSem(name, true)
	if err != nil {
		t.Fatalf("NewNamedSem owner: %v", err)
	}
	defer a.Unlink()

	b, err := NewNamedSem(name, false)
	if err != nil {
		t.Fatalf("NewNamedSem peer: %v", err)
	}
	defer b.Close()

	if v, _ := a.Value(); v != 1 {
		t.Fatalf("fresh semaphore count = %d", v)
	}

	if err := a.Acquire(); err != nil {
		t.Fatalf("A Acquire: %v", err)
	}
	if ok, err := b.TryAcquire(); ok || err != nil {
		t.Errorf("B TryAcquire while held: ok=%v err=%v", ok, err)
	}
	if err := a.Release(); err != nil {
		t.Fatalf("A Release: %v", err)
	}
	if ok, err := b.TryAcquire(); !ok || err != nil {
		t.Errorf("B TryAcquire after release: ok=%v err=%v", ok, err)
	}
	b.Release()
}

// TestNamedSemExclusiveCreate verifies owner construction fails when
// the name already exists.
func TestNamedSemExclusiveCreate(t *testing.T) {
	name := semTestName()
	a, err := NewNamedSem(name, true)
	if err != nil {
		t.Fatalf("NewNamedSem: %v", err)
	}
	defer a.Unlink()

	if _, err := NewNamedSem(name, true); err == nil {
		t.Error("second exclusive create succeeded")
	}
}

// TestNamedSemAcquireTimeout verifies the bounded-wait contract: a
// 100ms acquire on a held semaphore reports expiry, not error, within a
// bounded overrun.
func TestNamedSemAcquireTimeout(t *testing.T) {
	s, err := NewNamedSem(semTestName(), true)
	if err != nil {
		t.Fatalf("NewNamedSem: %v", err)
	}
	defer s.Unlink()

	if err := s.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	start := time.Now()
	ok, err := s.AcquireTimeout(100)
	elapsed := time.Since(start)

	if ok || err != nil {
		t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
	}
	if elapsed < 90*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Errorf("100ms acquire returned after %v", elapsed)
	}

	// With the count available the same call succeeds promptly.
	s.Release()
	if ok, err := s.AcquireTimeout(100); !ok || err != nil {
		t.Errorf("acquire of free semaphore: ok=%v err=%v", ok, err)
	}
}

// TestNamedSemBlockingHandoff verifies that a blocked Acquire is woken
// by a Release from another goroutine.
func TestNamedSemBlockingHandoff(t *testing.T) {
	s, err := NewNamedSem(semTestName(), true)
	if err != nil {
		t.Fatalf("NewNamedSem: %v", err)
	}
	defer s.Unlink()

	if err := s.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		acquired <- s.Acquire()
	}()

	// The waiter must still be blocked.
	select {
	case err := <-acquired:
		t.Fatalf("Acquire returned while held: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()
	select {
	case err := <-acquired:
		if err != nil {
			t.Errorf("woken Acquire: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Release did not wake the waiter")
	}
	s.Release()
}

// TestNamedSemOwnerGate verifies that only the owning side unlinks and
// that close-then-unlink is idempotent for the owner.
func TestNamedSemOwnerGate(t *testing.T) {
	name := semTestName()
	srv, err := NewNamedSem(name, true)
	if err != nil {
		t.Fatalf("owner NewNamedSem: %v", err)
	}
	cli, err := NewNamedSem(name, false)
	if err != nil {
		t.Fatalf("peer NewNamedSem: %v", err)
	}

	if err := cli.Unlink(); !errors.Is(err, ErrNotOwner) {
		t.Errorf("peer Unlink: %v", err)
	}
	// The name must survive a non-owner unlink attempt.
	if peek, err := NewNamedSem(name, false); err != nil {
		t.Errorf("name vanished after peer Unlink: %v", err)
	} else {
		peek.Close()
	}

	if err := srv.Unlink(); err != nil {
		t.Errorf("owner Unlink: %v", err)
	}
	if err := srv.Unlink(); err != nil {
		t.Errorf("second owner Unlink: %v", err)
	}
}

// TestNamedSemClosed verifies ErrClosed after Close.
func TestNamedSemClosed(t *testing.T) {
	s, err := NewNamedSem(semTestName(), true)
	if err != nil {
		t.Fatalf("NewNamedSem: %v", err)
	}
	path := s.path
	defer os.Remove(path)

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := s.Acquire(); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire after Close: %v", err)
	}
	if _, err := s.Value(); !errors.Is(err, ErrClosed) {
		t.Errorf("Value after Close: %v", err)
	}
}

// TestSemMutualExclusion drives an unnamed semaphore as a mutex across
// many goroutines and checks the guarded counter for lost updates.
func TestSemMutualExclusion(t *testing.T) {
	s := NewSem()
	defer s.Close()

	const goroutines = 50
	const opsPer = 200
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < opsPer; j++ {
				if err := s.Acquire(); err != nil {
					t.Errorf("Acquire: %v", err)
					return
				}
				counter++
				if err := s.Release(); err != nil {
					t.Errorf("Release: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*opsPer {
		t.Errorf("lost updates: counter = %d, want %d", counter, goroutines*opsPer)
	}
}

// TestSemTryAcquire verifies non-blocking semantics on the unnamed
// variant.
func TestSemTryAcquire(t *testing.T) {
	s := NewSem()
	defer s.Close()

	if ok, err := s.TryAcquire(); !ok || err != nil {
		t.Fatalf("first TryAcquire: ok=%v err=%v", ok, err)
	}
	if ok, err := s.TryAcquire(); ok || err != nil {
		t.Errorf("second TryAcquire: ok=%v err=%v", ok, err)
	}
	s.Release()
	if ok, err := s.TryAcquire(); !ok || err != nil {
		t.Errorf("TryAcquire after Release: ok=%v err=%v", ok, err)
	}
}

// TestSemAt places an unnamed semaphore inside a mapped shared memory
// segment, the configuration process-shared use requires.
func TestSemAt(t *testing.T) {
	shm, err := NewSharedMemory(fmt.Sprintf("ipc_test_semat_%d", os.Getpid()), 'w', true)
	if err != nil {
		t.Fatalf("NewSharedMemory: %v", err)
	}
	defer shm.Destroy()

	if err := shm.Truncate(int64(SemSize)); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	mem, err := shm.Map(SemSize, 'd', true, 0)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	s, err := NewSemAt(mem)
	if err != nil {
		t.Fatalf("NewSemAt: %v", err)
	}
	defer s.Close()

	if ok, err := s.TryAcquire(); !ok || err != nil {
		t.Fatalf("TryAcquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := s.TryAcquire(); ok {
		t.Error("count exceeded initial value")
	}
	s.Release()

	if _, err := NewSemAt(make([]byte, SemSize-1)); err == nil {
		t.Error("undersized placement accepted")
	}
}
