package mock

import (
	"sync"
	"time"

	"github.com/cfs-go/osal/osstatus"
)

// The types below are pure-Go stand-ins for the per-resource-kind
// platform adapter (§6.4), each backed by ordinary Go concurrency
// primitives instead of a host kernel's native ones. They exist so the
// resource-wrapper packages can be exercised end-to-end without a real
// adapter, and so a bare-metal build with no native semaphore/queue
// primitives of its own has somewhere to start.

// Semaphores backs both the binsem and countsem resource kinds: a
// counting channel-based semaphore is a strict generalization of a
// binary one.
type Semaphores struct {
	mu    sync.Mutex
	chans map[int]chan struct{}
	max   map[int]uint32
}

// NewSemaphores returns an empty semaphore backend.
func NewSemaphores() *Semaphores {
	return &Semaphores{chans: make(map[int]chan struct{}), max: make(map[int]uint32)}
}

func (s *Semaphores) create(slot int, initialValue uint32, capacity uint32) osstatus.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, capacity)
	for i := uint32(0); i < initialValue; i++ {
		ch <- struct{}{}
	}
	s.chans[slot] = ch
	s.max[slot] = capacity
	return osstatus.SUCCESS
}

// Create implements adapter.BinsemBackend (capacity fixed at 1).
func (s *Semaphores) Create(slot int, initialValue uint32, _ uint32) osstatus.Status {
	if initialValue > 1 {
		initialValue = 1
	}
	return s.create(slot, initialValue, 1)
}

// CreateCounting implements adapter.CountSemBackend with an unbounded
// (practically: very large) capacity, matching a counting semaphore's
// semantics.
func (s *Semaphores) CreateCounting(slot int, initialValue uint32) osstatus.Status {
	return s.create(slot, initialValue, 1<<20)
}

// Delete implements both Binsem/CountSemBackend.
func (s *Semaphores) Delete(slot int) osstatus.Status {
	s.mu.Lock()
	delete(s.chans, slot)
	delete(s.max, slot)
	s.mu.Unlock()
	return osstatus.SUCCESS
}

func (s *Semaphores) chanFor(slot int) chan struct{} {
	s.mu.Lock()
	ch := s.chans[slot]
	s.mu.Unlock()
	return ch
}

// Give implements both Binsem/CountSemBackend.
func (s *Semaphores) Give(slot int) osstatus.Status {
	ch := s.chanFor(slot)
	select {
	case ch <- struct{}{}:
		return osstatus.SUCCESS
	default:
		return osstatus.ErrSemFailure
	}
}

// Take implements both Binsem/CountSemBackend.
func (s *Semaphores) Take(slot int) osstatus.Status {
	ch := s.chanFor(slot)
	<-ch
	return osstatus.SUCCESS
}

// TimedWait implements both Binsem/CountSemBackend.
func (s *Semaphores) TimedWait(slot int, timeoutUsec uint32) osstatus.Status {
	ch := s.chanFor(slot)
	select {
	case <-ch:
		return osstatus.SUCCESS
	case <-time.After(time.Duration(timeoutUsec) * time.Microsecond):
		return osstatus.ErrSemTimeout
	}
}

// Flush implements adapter.BinsemBackend by filling the semaphore's
// channel up to its capacity. For a binary semaphore (capacity 1) that
// releases at most one pending Take; other waiters stay blocked.
func (s *Semaphores) Flush(slot int) osstatus.Status {
	ch := s.chanFor(slot)
	for {
		select {
		case ch <- struct{}{}:
		default:
			return osstatus.SUCCESS
		}
	}
}

// CountingSemaphores adapts Semaphores to the CountSemBackend shape: its
// Create method means "counting", where the embedded Semaphores' own
// Create means "binary". A counting and a binary semaphore module each
// wrap a distinct CountingSemaphores/Semaphores value even though both
// ultimately call into the same channel-based implementation.
type CountingSemaphores struct {
	*Semaphores
}

// NewCountingSemaphores returns a counting-semaphore view over sem.
func NewCountingSemaphores(sem *Semaphores) *CountingSemaphores {
	return &CountingSemaphores{Semaphores: sem}
}

// Create implements adapter.CountSemBackend.
func (s *CountingSemaphores) Create(slot int, initialValue uint32, _ uint32) osstatus.Status {
	return s.Semaphores.CreateCounting(slot, initialValue)
}

// Mutexes is a mutex-semaphore backend: one real sync.Mutex per slot.
type Mutexes struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// NewMutexes returns an empty mutex backend.
func NewMutexes() *Mutexes {
	return &Mutexes{locks: make(map[int]*sync.Mutex)}
}

// Create implements adapter.MutexBackend.
func (m *Mutexes) Create(slot int, _ uint32) osstatus.Status {
	m.mu.Lock()
	m.locks[slot] = &sync.Mutex{}
	m.mu.Unlock()
	return osstatus.SUCCESS
}

// Delete implements adapter.MutexBackend.
func (m *Mutexes) Delete(slot int) osstatus.Status {
	m.mu.Lock()
	delete(m.locks, slot)
	m.mu.Unlock()
	return osstatus.SUCCESS
}

func (m *Mutexes) lockFor(slot int) *sync.Mutex {
	m.mu.Lock()
	l := m.locks[slot]
	m.mu.Unlock()
	return l
}

// Take implements adapter.MutexBackend.
func (m *Mutexes) Take(slot int) osstatus.Status {
	m.lockFor(slot).Lock()
	return osstatus.SUCCESS
}

// Give implements adapter.MutexBackend.
func (m *Mutexes) Give(slot int) osstatus.Status {
	m.lockFor(slot).Unlock()
	return osstatus.SUCCESS
}

// Queues is a message-queue backend implemented with buffered Go
// channels of byte slices.
type Queues struct {
	mu    sync.Mutex
	queue map[int]chan []byte
}

// NewQueues returns an empty queue backend.
func NewQueues() *Queues {
	return &Queues{queue: make(map[int]chan []byte)}
}

// Create implements adapter.QueueBackend.
func (q *Queues) Create(slot int, depth uint32, _ uint32, _ uint32) osstatus.Status {
	q.mu.Lock()
	q.queue[slot] = make(chan []byte, depth)
	q.mu.Unlock()
	return osstatus.SUCCESS
}

// Delete implements adapter.QueueBackend.
func (q *Queues) Delete(slot int) osstatus.Status {
	q.mu.Lock()
	delete(q.queue, slot)
	q.mu.Unlock()
	return osstatus.SUCCESS
}

func (q *Queues) chanFor(slot int) chan []byte {
	q.mu.Lock()
	ch := q.queue[slot]
	q.mu.Unlock()
	return ch
}

// Put implements adapter.QueueBackend.
func (q *Queues) Put(slot int, data []byte, _ uint32) osstatus.Status {
	cp := make([]byte, len(data))
	copy(cp, data)
	select {
	case q.chanFor(slot) <- cp:
		return osstatus.SUCCESS
	default:
		return osstatus.ErrQueueFull
	}
}

// Get implements adapter.QueueBackend. timeoutUsec < 0 means "block
// forever", 0 means "do not block", > 0 is a bounded wait.
func (q *Queues) Get(slot int, buf []byte, timeoutUsec int32) (int, osstatus.Status) {
	ch := q.chanFor(slot)
	switch {
	case timeoutUsec == 0:
		select {
		case msg := <-ch:
			return copy(buf, msg), osstatus.SUCCESS
		default:
			return 0, osstatus.ErrQueueEmpty
		}
	case timeoutUsec < 0:
		msg := <-ch
		return copy(buf, msg), osstatus.SUCCESS
	default:
		select {
		case msg := <-ch:
			return copy(buf, msg), osstatus.SUCCESS
		case <-time.After(time.Duration(timeoutUsec) * time.Microsecond):
			return 0, osstatus.ErrQueueTimeout
		}
	}
}

// TimeBases backs the timebase resource kind: one mutex per slot,
// standing in for a real kernel's TimeBaseLock_Impl/Unlock_Impl.
type TimeBases struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// NewTimeBases returns an empty timebase backend.
func NewTimeBases() *TimeBases {
	return &TimeBases{locks: make(map[int]*sync.Mutex)}
}

// Create implements adapter.TimeBaseBackend.
func (t *TimeBases) Create(slot int) osstatus.Status {
	t.mu.Lock()
	t.locks[slot] = &sync.Mutex{}
	t.mu.Unlock()
	return osstatus.SUCCESS
}

// Delete implements adapter.TimeBaseBackend.
func (t *TimeBases) Delete(slot int) osstatus.Status {
	t.mu.Lock()
	delete(t.locks, slot)
	t.mu.Unlock()
	return osstatus.SUCCESS
}

// Set implements adapter.TimeBaseBackend; the mock adapter has no native
// timer to reprogram, so this is a no-op that always succeeds.
func (t *TimeBases) Set(_ int, _, _ int32) osstatus.Status {
	return osstatus.SUCCESS
}

func (t *TimeBases) lockFor(slot int) *sync.Mutex {
	t.mu.Lock()
	l := t.locks[slot]
	t.mu.Unlock()
	return l
}

// LockTimeBase implements adapter.TimeBaseBackend.
func (t *TimeBases) LockTimeBase(slot int) { t.lockFor(slot).Lock() }

// UnlockTimeBase implements adapter.TimeBaseBackend.
func (t *TimeBases) UnlockTimeBase(slot int) { t.lockFor(slot).Unlock() }
