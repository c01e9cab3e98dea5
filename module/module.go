// Package module implements the loadable-module resource wrapper (§4.E).
package module

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

const maxNameLen = 32

type internalRecord struct {
	name string
	path string
}

// Module holds the package-level state for the loadable-module resource
// kind. (Its Go type is also named Module, which shadows the package
// name inside this file; every other wrapper package follows the same
// convention, so this one does too rather than special-casing it.)
type Module struct {
	idm     *idmgr.Manager
	backend adapter.ModuleBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the module
// type with idm. capacity is MAX_MODULES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.ModuleBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeModule, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Load loads the dynamic module at path, naming it name.
func (m *Module) Load(name string, path string) (idcodec.Handle, osstatus.Status) {
	if name == "" || path == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeModule, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name, path: path}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Load(slot, path)
	if !status.Ok() {
		status = osstatus.ErrModuleLoadError
	}
	return m.idm.FinalizeNew(idcodec.TypeModule, slot, status)
}

// Unload unloads h.
func (m *Module) Unload(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeModule, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Unload(slot)
	return m.idm.FinalizeDelete(idcodec.TypeModule, slot, status)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeModule, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}
	return rec.ActiveID, osstatus.SUCCESS
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name    string
	Path    string
	Creator idcodec.Handle
}

// GetInfo reports h's name, load path, and creator.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeModule, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeModule)
	ir := m.internal[slot]
	return Info{Name: ir.name, Path: ir.path, Creator: rec.Creator}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Unload(h).Ok()
}

// ForEach visits every live module handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeModule, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
