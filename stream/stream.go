// Package stream implements the file/socket stream resource wrapper
// (§4.E). Like dir, it operates on already-translated local paths.
package stream

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

type internalRecord struct {
	name string
}

// Module holds the package-level state for the stream resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.StreamBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the stream
// type with idm. capacity is MAX_NUM_OPEN_FILES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.StreamBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeStream, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Open opens localPath with the given flags/mode.
func (m *Module) Open(localPath string, flags, mode uint32) (idcodec.Handle, osstatus.Status) {
	if localPath == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeStream, localPath)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: localPath}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Open(slot, localPath, flags, mode)
	return m.idm.FinalizeNew(idcodec.TypeStream, slot, status)
}

// Close closes h.
func (m *Module) Close(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeStream, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Close(slot)
	return m.idm.FinalizeDelete(idcodec.TypeStream, slot, status)
}

// Read reads into buf, blocking per timeoutUsec.
func (m *Module) Read(h idcodec.Handle, buf []byte, timeoutUsec int32) (int, osstatus.Status) {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeStream, h)
	if !status.Ok() {
		return 0, status
	}
	return m.backend.Read(slot, buf, timeoutUsec)
}

// Write writes data, blocking per timeoutUsec.
func (m *Module) Write(h idcodec.Handle, data []byte, timeoutUsec int32) (int, osstatus.Status) {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeStream, h)
	if !status.Ok() {
		return 0, status
	}
	return m.backend.Write(slot, data, timeoutUsec)
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name    string
	Creator idcodec.Handle
}

// GetInfo reports h's name and creator.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeStream, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeStream)
	return Info{Name: m.internal[slot].name, Creator: rec.Creator}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Close(h).Ok()
}

// ForEach visits every open stream handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeStream, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
