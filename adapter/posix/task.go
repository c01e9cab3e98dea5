//go:build linux

package posix

import (
	"sync"
	"time"

	"github.com/cfs-go/osal/osstatus"
)

// Tasks backs the task resource kind by spawning a real goroutine per
// task and delaying via the package's own unix.Nanosleep-based Clock,
// rather than time.Sleep, so OS_TaskDelay on this adapter goes through
// the same syscall path the rest of the posix package uses.
type Tasks struct {
	mu    sync.Mutex
	alive map[int]bool
}

// NewTasks returns an empty real-goroutine task backend.
func NewTasks() *Tasks {
	return &Tasks{alive: make(map[int]bool)}
}

// Spawn implements adapter.TaskBackend.
func (t *Tasks) Spawn(slot int, _ string, _ uint32, _ uint32, entry func()) osstatus.Status {
	t.mu.Lock()
	t.alive[slot] = true
	t.mu.Unlock()
	go entry()
	return osstatus.SUCCESS
}

// Delete implements adapter.TaskBackend. Go has no API to forcibly
// cancel an arbitrary goroutine, so this is best-effort bookkeeping,
// matching §5's "TaskDelete is best-effort on hosts with no forced
// preemption".
func (t *Tasks) Delete(slot int) osstatus.Status {
	t.mu.Lock()
	delete(t.alive, slot)
	t.mu.Unlock()
	return osstatus.SUCCESS
}

// Delay implements adapter.TaskBackend using Clock's unix.Nanosleep.
func (t *Tasks) Delay(_ int, milliseconds uint32) osstatus.Status {
	Clock{}.Sleep(time.Duration(milliseconds) * time.Millisecond)
	return osstatus.SUCCESS
}
