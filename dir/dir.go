// Package dir implements the directory-stream resource wrapper (§4.E).
// It operates on already-translated local paths; path translation from
// a virtual OSAL path is the filesys package's job (and the osal
// facade's to chain the two).
package dir

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

type internalRecord struct {
	name string
	path string
}

// Module holds the package-level state for the directory-stream
// resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.DirBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the dir type
// with idm. capacity is MAX_NUM_OPEN_DIRS (§6.1).
func Init(idm *idmgr.Manager, backend adapter.DirBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeDir, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Open opens localPath for directory-entry iteration, naming the handle
// after the path itself (directories have no caller-chosen name).
func (m *Module) Open(localPath string) (idcodec.Handle, osstatus.Status) {
	if localPath == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeDir, localPath)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: localPath, path: localPath}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Open(slot, localPath)
	return m.idm.FinalizeNew(idcodec.TypeDir, slot, status)
}

// Close closes h.
func (m *Module) Close(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeDir, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Close(slot)
	return m.idm.FinalizeDelete(idcodec.TypeDir, slot, status)
}

// Read returns the next entry name in h, or eof=true once exhausted.
func (m *Module) Read(h idcodec.Handle) (name string, eof bool, status osstatus.Status) {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeDir, h)
	if !status.Ok() {
		return "", false, status
	}
	return m.backend.Read(slot)
}

// Rewind resets h's read position to the first entry.
func (m *Module) Rewind(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeDir, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Rewind(slot)
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Close(h).Ok()
}

// ForEach visits every open directory handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeDir, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
