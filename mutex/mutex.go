// Package mutex implements the mutex-semaphore resource wrapper (§4.E).
package mutex

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

// Module holds the package-level state for the mutex resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.MutexBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the mutex type
// with idm. capacity is MAX_MUTEXES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.MutexBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeMutex, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create allocates a new mutex semaphore named name.
func (m *Module) Create(name string, options uint32) (idcodec.Handle, osstatus.Status) {
	if name == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeMutex, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Create(slot, options)
	return m.idm.FinalizeNew(idcodec.TypeMutex, slot, status)
}

// Delete tears down h.
func (m *Module) Delete(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeMutex, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeMutex, slot, status)
}

// Take locks h, blocking the calling task if already held.
func (m *Module) Take(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeMutex, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Take(slot)
}

// Give unlocks h.
func (m *Module) Give(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeMutex, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Give(slot)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeMutex, name)
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
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeMutex, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeMutex)
	return Info{Name: m.internal[slot].name, Creator: rec.Creator}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Delete(h).Ok()
}

// ForEach visits every live mutex handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeMutex, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
