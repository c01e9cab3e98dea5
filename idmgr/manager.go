// Package idmgr is the shared object-handle and resource-management core
// (§4.D): allocate-new / lookup-by-id / lookup-by-name / search-by-predicate
// / finalize-new / finalize-delete / refcount-decrement, each honoring the
// lock-mode contract of §4.D.1. Every resource wrapper (task, queue,
// binsem, filesys, ...) is a thin layer on top of this package plus a
// platform adapter; this package never imports any of them.
package idmgr

import (
	"fmt"
	"time"

	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/osstatus"
)

// ExclusiveRetryInterval is the short, platform-defined delay an
// EXCLUSIVE-mode lookup sleeps between retries while waiting for a
// record's refcount to drain (§4.D.1, §5).
const ExclusiveRetryInterval = 10 * time.Millisecond

// ExclusiveRetryLimit bounds how many times an EXCLUSIVE-mode lookup
// retries before giving up with ErrObjInUse (§4.D.1: "documented: 4").
const ExclusiveRetryLimit = 4

// Manager owns every resource type's common-record table and mediates
// all access to it through the lock-mode contract. One Manager is shared
// process-wide; wrappers hold a reference to it rather than each
// maintaining their own bookkeeping.
type Manager struct {
	lock    adapter.GlobalLock
	clock   adapter.Clock
	taskCtx adapter.TaskContext

	tables map[idcodec.Type]*typeTable
}

// NewManager builds a Manager around the given platform-adapter
// primitives. Per-type tables are added later via InitType, mirroring
// how API_Init walks resource types one at a time (§4.G).
func NewManager(lock adapter.GlobalLock, clock adapter.Clock, taskCtx adapter.TaskContext) *Manager {
	return &Manager{
		lock:    lock,
		clock:   clock,
		taskCtx: taskCtx,
		tables:  make(map[idcodec.Type]*typeTable),
	}
}

// InitType allocates and zero-initializes the common-record table for t
// (§4.B, §4.G). Calling it twice for the same type replaces the table,
// which is only safe before any handle of that type has been handed out;
// callers (osal.Init) only ever call this once per type at boot.
func (m *Manager) InitType(t idcodec.Type, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("idmgr: capacity for type %v must be > 0, got %d", t, capacity)
	}
	m.tables[t] = newTypeTable(capacity)
	return nil
}

// Capacity reports the configured table size for t.
func (m *Manager) Capacity(t idcodec.Type) int {
	return m.table(t).capacity
}

func (m *Manager) table(t idcodec.Type) *typeTable {
	tbl, ok := m.tables[t]
	if !ok {
		panic(fmt.Sprintf("idmgr: type %v was never initialized via InitType", t))
	}
	return tbl
}

// AllocateNew reserves a free slot for a new object of type t (§4.D.2).
// On success the type-lock is left held and the caller MUST complete the
// operation with FinalizeNew. name may be empty for resource kinds that
// don't support lookup-by-name.
func (m *Manager) AllocateNew(t idcodec.Type, name string) (slot int, rec *CommonRecord, status osstatus.Status) {
	tbl := m.table(t)
	m.lock.LockGlobal(t)

	if name != "" {
		for i := range tbl.records {
			r := &tbl.records[i]
			if r.state() == slotActive && r.NameEntry != nil && *r.NameEntry == name {
				m.lock.UnlockGlobal(t)
				return 0, nil, osstatus.ErrNameTaken
			}
		}
	}

	idx := -1
	for i := 0; i < tbl.capacity; i++ {
		cand := (tbl.lastAlloc + 1 + i) % tbl.capacity
		if tbl.records[cand].state() == slotFree {
			idx = cand
			break
		}
	}
	if idx < 0 {
		m.lock.UnlockGlobal(t)
		return 0, nil, osstatus.ErrNoFreeIDs
	}

	tbl.lastAlloc = idx
	r := &tbl.records[idx]
	r.ActiveID = idcodec.Reserved
	r.Creator = m.taskCtx.CurrentTask()
	r.Refcount = 0
	r.Flags = 0
	r.NameEntry = nil

	return idx, r, osstatus.SUCCESS
}

// FinalizeNew completes an AllocateNew (§4.D.3). If operationStatus is
// SUCCESS, the reserved slot is published as active and its handle
// returned; otherwise the slot is rolled back to free. Either way the
// type-lock taken by AllocateNew is released.
func (m *Manager) FinalizeNew(t idcodec.Type, slot int, operationStatus osstatus.Status) (idcodec.Handle, osstatus.Status) {
	tbl := m.table(t)
	r := &tbl.records[slot]

	var handle idcodec.Handle
	if operationStatus == osstatus.SUCCESS {
		serial, gen := idcodec.NextSerial(tbl.generation[slot], slot)
		tbl.generation[slot] = gen
		handle = idcodec.Compose(t, serial)
		r.ActiveID = handle
	} else {
		r.NameEntry = nil
		r.Creator = idcodec.Undefined
		r.ActiveID = idcodec.Undefined
		handle = idcodec.Undefined
	}

	m.lock.UnlockGlobal(t)
	return handle, operationStatus
}

// GetById resolves h to its slot and record (§4.D.4), applying the given
// lock-mode policy on success.
func (m *Manager) GetById(mode LockMode, t idcodec.Type, h idcodec.Handle) (slot int, rec *CommonRecord, status osstatus.Status) {
	if idcodec.TypeOf(h) != t {
		return 0, nil, osstatus.ErrInvalidID
	}
	tbl := m.table(t)
	idx, ok := idcodec.SlotOf(h, t, tbl.capacity)
	if !ok {
		return 0, nil, osstatus.ErrInvalidID
	}

	m.lock.LockGlobal(t)
	r := &tbl.records[idx]
	if r.ActiveID != h {
		m.lock.UnlockGlobal(t)
		return 0, nil, osstatus.ErrInvalidID
	}

	return m.applyLockMode(t, idx, r, mode)
}

// MatchFunc is a predicate used by GetBySearch to find a record by
// criteria other than its handle.
type MatchFunc func(slot int, rec *CommonRecord) bool

// GetBySearch walks every active slot of type t invoking match, applying
// the lock-mode policy to the first match (§4.D.5). It fails with
// ErrNameNotFound if nothing matches.
func (m *Manager) GetBySearch(mode LockMode, t idcodec.Type, match MatchFunc) (slot int, rec *CommonRecord, status osstatus.Status) {
	tbl := m.table(t)
	m.lock.LockGlobal(t)

	for i := range tbl.records {
		r := &tbl.records[i]
		if r.state() != slotActive {
			continue
		}
		if match(i, r) {
			return m.applyLockMode(t, i, r, mode)
		}
	}

	m.lock.UnlockGlobal(t)
	return 0, nil, osstatus.ErrNameNotFound
}

// GetByName is GetBySearch specialized to the built-in name-equality
// predicate (§4.D.5).
func (m *Manager) GetByName(mode LockMode, t idcodec.Type, name string) (slot int, rec *CommonRecord, status osstatus.Status) {
	return m.GetBySearch(mode, t, func(_ int, r *CommonRecord) bool {
		return r.NameEntry != nil && *r.NameEntry == name
	})
}

// FinalizeDelete completes a delete begun by GetById(LockExclusive, ...)
// (§4.D.6). If operationStatus is SUCCESS the slot is freed; otherwise it
// is left active. Either way the type-lock is released.
func (m *Manager) FinalizeDelete(t idcodec.Type, slot int, operationStatus osstatus.Status) osstatus.Status {
	tbl := m.table(t)
	r := &tbl.records[slot]

	if operationStatus == osstatus.SUCCESS {
		r.ActiveID = idcodec.Undefined
		r.NameEntry = nil
		r.Creator = idcodec.Undefined
		r.Flags = 0
		r.Refcount = 0
	}

	m.lock.UnlockGlobal(t)
	return operationStatus
}

// DecrementRefcount reverses a LockRefcount-mode GetById/GetBySearch
// (§4.D.6). It panics if called on a record whose refcount is already
// zero: that is a caller bug, not a recoverable runtime condition.
func (m *Manager) DecrementRefcount(t idcodec.Type, slot int) {
	tbl := m.table(t)
	m.lock.LockGlobal(t)
	r := &tbl.records[slot]
	if r.Refcount == 0 {
		m.lock.UnlockGlobal(t)
		panic(fmt.Sprintf("idmgr: refcount underflow on type %v slot %d", t, slot))
	}
	r.Refcount--
	m.lock.UnlockGlobal(t)
}

// Unlock releases the type-lock for t. Callers that obtained a record
// under LockGlobal or LockExclusive mode must call this exactly once
// when done, unless they instead call FinalizeDelete (which unlocks for
// them).
func (m *Manager) Unlock(t idcodec.Type) {
	m.lock.UnlockGlobal(t)
}

// SetName binds rec's borrowed name pointer. Wrappers call this after
// AllocateNew, once they've copied the name into their own internal
// record (§3.2: "name_entry (borrowed pointer to name buffer owned by
// the internal record)").
func (m *Manager) SetName(rec *CommonRecord, name *string) {
	rec.NameEntry = name
}

// applyLockMode implements the four-way contract of §4.D.1 once a record
// has already been located (by id or by search).
func (m *Manager) applyLockMode(t idcodec.Type, idx int, r *CommonRecord, mode LockMode) (int, *CommonRecord, osstatus.Status) {
	expected := r.ActiveID

	switch mode {
	case LockNone:
		m.lock.UnlockGlobal(t)
		return idx, r, osstatus.SUCCESS

	case LockGlobal:
		return idx, r, osstatus.SUCCESS

	case LockRefcount:
		r.Refcount++
		m.lock.UnlockGlobal(t)
		return idx, r, osstatus.SUCCESS

	case LockExclusive:
		for attempt := 0; r.Refcount > 0; attempt++ {
			if attempt >= ExclusiveRetryLimit {
				m.lock.UnlockGlobal(t)
				return 0, nil, osstatus.ErrObjInUse
			}
			r.Flags |= FlagExclusiveRequest
			m.lock.UnlockGlobal(t)
			m.clock.Sleep(ExclusiveRetryInterval)
			m.lock.LockGlobal(t)

			if r.ActiveID != expected {
				// Deleted (or slot reused) while we slept.
				m.lock.UnlockGlobal(t)
				return 0, nil, osstatus.ErrInvalidID
			}
		}
		return idx, r, osstatus.SUCCESS

	default:
		m.lock.UnlockGlobal(t)
		return 0, nil, osstatus.ERROR
	}
}
