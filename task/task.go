// Package task implements the task resource wrapper (§4.E). Unlike the
// semaphore-family wrappers it also drives adapter.TaskContext.Register
// so a newly spawned task's own calls into the ID manager see the right
// "current task" creator handle, and so the timebase engine's "must not
// call from within a callback" check (§4.F) has something to inspect.
package task

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

const maxNameLen = 32

type internalRecord struct {
	name     string
	priority uint32
}

// Module holds the package-level state for the task resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.TaskBackend
	taskCtx adapter.TaskContext

	internal []internalRecord
}

// Init allocates the internal record table and registers the task type
// with idm. capacity is MAX_TASKS (§6.1).
func Init(idm *idmgr.Manager, backend adapter.TaskBackend, taskCtx adapter.TaskContext, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeTask, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		taskCtx:  taskCtx,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create spawns a new task named name at the given priority and stack
// size, running entry. entry is wrapped so the spawned goroutine
// registers its own handle as "current task" before the caller's entry
// point runs (§4.F's timebase-context check depends on this).
func (m *Module) Create(name string, priority uint32, stackSize uint32, entry func()) (idcodec.Handle, osstatus.Status) {
	if name == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeTask, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name, priority: priority}
	m.idm.SetName(rec, &m.internal[slot].name)

	// The adapter may start entry running before FinalizeNew has
	// computed this task's own handle (mock.TaskBackend does, via a
	// bare `go entry()`); wrapped blocks on ready so Register always
	// sees the real handle rather than racing FinalizeNew.
	ready := make(chan idcodec.Handle, 1)
	wrapped := func() {
		m.taskCtx.Register(<-ready)
		entry()
	}

	status = m.backend.Spawn(slot, name, priority, stackSize, wrapped)
	handle, status := m.idm.FinalizeNew(idcodec.TypeTask, slot, status)
	ready <- handle
	return handle, status
}

// Delete requests termination of h. Deleting an already-exited task is
// treated as success (§5 "TaskDelete from outside is best-effort").
func (m *Module) Delete(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeTask, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeTask, slot, status)
}

// Delay blocks the calling task for the given number of milliseconds.
func (m *Module) Delay(h idcodec.Handle, milliseconds uint32) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeTask, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Delay(slot, milliseconds)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeTask, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}
	return rec.ActiveID, osstatus.SUCCESS
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name     string
	Creator  idcodec.Handle
	Priority uint32
}

// GetInfo reports h's name, creator, and priority.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeTask, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeTask)
	ir := m.internal[slot]
	return Info{Name: ir.name, Creator: rec.Creator, Priority: ir.priority}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Delete(h).Ok()
}

// ForEach visits every live task handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeTask, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
