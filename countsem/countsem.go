// Package countsem implements the counting-semaphore resource wrapper
// (§4.E). It mirrors binsem closely — a counting semaphore differs only
// in not supporting Flush and in its adapter's wider value range.
package countsem

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

const maxNameLen = 32

type internalRecord struct {
	name string
}

// Module holds the package-level state for the countsem resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.CountSemBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the countsem
// type with idm. capacity is MAX_COUNT_SEMAPHORES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.CountSemBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeCountSem, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create allocates a new counting semaphore named name with the given
// initial value and adapter-specific options.
func (m *Module) Create(name string, initialValue uint32, options uint32) (idcodec.Handle, osstatus.Status) {
	if name == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeCountSem, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Create(slot, initialValue, options)
	return m.idm.FinalizeNew(idcodec.TypeCountSem, slot, status)
}

// Delete tears down h.
func (m *Module) Delete(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeCountSem, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeCountSem, slot, status)
}

// Give increments h once.
func (m *Module) Give(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeCountSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Give(slot)
}

// Take blocks until h has a positive count, then decrements it.
func (m *Module) Take(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeCountSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Take(slot)
}

// TimedWait blocks on h for at most timeoutUsec microseconds.
func (m *Module) TimedWait(h idcodec.Handle, timeoutUsec uint32) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeCountSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.TimedWait(slot, timeoutUsec)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeCountSem, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}
	return rec.ActiveID, osstatus.SUCCESS
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name    string
	Creator idcodec.Handle
}

// GetInfo reports h's name and creator.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeCountSem, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeCountSem)
	return Info{Name: m.internal[slot].name, Creator: rec.Creator}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Delete(h).Ok()
}

// ForEach visits every live countsem handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeCountSem, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
