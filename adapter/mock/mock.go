// Package mock implements the adapter contract in pure Go, with no host
// kernel underneath. It stands in for the "mock adapter" the design notes
// call for so tests can exercise the shared idmgr/wrapper layer without a
// real platform, and it is the default adapter for hosts (like a
// bare-metal runtime) with no native primitives of their own.
package mock

import (
	"sync"
	"time"

	"github.com/cfs-go/osal/idcodec"
)

// Locks is a GlobalLock implementation backed by one sync.Mutex per
// resource type, created lazily on first use.
type Locks struct {
	mu    sync.Mutex
	byType map[idcodec.Type]*sync.Mutex
}

// NewLocks returns a ready-to-use lock registry.
func NewLocks() *Locks {
	return &Locks{byType: make(map[idcodec.Type]*sync.Mutex)}
}

func (l *Locks) mutexFor(t idcodec.Type) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.byType[t]
	if !ok {
		m = &sync.Mutex{}
		l.byType[t] = m
	}
	l.mu.Unlock()
	return m
}

// LockGlobal acquires the lock for t.
func (l *Locks) LockGlobal(t idcodec.Type) { l.mutexFor(t).Lock() }

// UnlockGlobal releases the lock for t.
func (l *Locks) UnlockGlobal(t idcodec.Type) { l.mutexFor(t).Unlock() }

// Clock is a Clock implementation that really sleeps; tests that need
// deterministic timing should supply their own Clock instead.
type Clock struct{}

// Sleep blocks for d.
func (Clock) Sleep(d time.Duration) { time.Sleep(d) }

// Tasks tracks which handle counts as the current task. Go has no
// goroutine-local storage, so it keeps a single process-wide value:
// Register sets it and CurrentTask reads it back, standing in for how a
// real kernel adapter would read a TCB field.
type Tasks struct {
	mu      sync.Mutex
	current idcodec.Handle
}

// NewTasks returns a Tasks tracker with no current task.
func NewTasks() *Tasks {
	return &Tasks{}
}

// CurrentTask returns the most recently registered task handle, or
// idcodec.Undefined if none has been registered. This mock intentionally
// has process-wide rather than per-goroutine granularity: it is good
// enough to drive the idmgr/wrapper tests, which is its only job.
func (t *Tasks) CurrentTask() idcodec.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Register records h as the current task.
func (t *Tasks) Register(h idcodec.Handle) {
	t.mu.Lock()
	t.current = h
	t.mu.Unlock()
}
