// Package binsem implements the binary-semaphore resource wrapper
// (§4.E), following the uniform Create/Delete/GetIdByName/GetInfo
// template shared by every OSAL resource kind.
package binsem

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

// Module holds the package-level state for the binsem resource kind: the
// shared ID manager, the platform adapter, and this type's internal
// record array, mirroring the original static per-wrapper table.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.BinsemBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the binsem type
// with idm. capacity is MAX_BIN_SEMAPHORES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.BinsemBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeBinSem, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create allocates a new binary semaphore named name with the given
// initial value (0 or 1) and adapter-specific options.
func (m *Module) Create(name string, initialValue uint32, options uint32) (idcodec.Handle, osstatus.Status) {
	if name == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeBinSem, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Create(slot, initialValue, options)
	return m.idm.FinalizeNew(idcodec.TypeBinSem, slot, status)
}

// Delete tears down h.
func (m *Module) Delete(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeBinSem, slot, status)
}

// Give releases h once.
func (m *Module) Give(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Give(slot)
}

// Take blocks until h is available.
func (m *Module) Take(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Take(slot)
}

// TimedWait blocks on h for at most timeoutUsec microseconds.
func (m *Module) TimedWait(h idcodec.Handle, timeoutUsec uint32) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.TimedWait(slot, timeoutUsec)
}

// Flush releases every task currently waiting on h.
func (m *Module) Flush(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Flush(slot)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeBinSem, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}
	return rec.ActiveID, osstatus.SUCCESS
}

// Info is the type-specific payload GetInfo reports in addition to the
// common name/creator fields.
type Info struct {
	Name    string
	Creator idcodec.Handle
}

// GetInfo reports h's name and creator.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeBinSem, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeBinSem)
	return Info{Name: m.internal[slot].name, Creator: rec.Creator}, osstatus.SUCCESS
}

// DeleteOne is the deleter hook the osal facade registers for bulk
// teardown (§4.D.8): it is a thin adapter over Delete that reports
// whether it actually removed a live object.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Delete(h).Ok()
}

// ForEach visits every live binsem handle, in the shape the osal
// facade's deleter registry expects.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeBinSem, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
