// Package console implements the console-device resource wrapper (§4.E).
// A console has no name-based lookup in the original design (it is
// opened by a fixed index, not a name), so this wrapper omits
// GetIdByName; Create takes the console index instead of a name.
package console

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

type internalRecord struct {
	name string
}

// Module holds the package-level state for the console resource kind.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.ConsoleBackend

	internal []internalRecord
}

// Init allocates the internal record table and registers the console
// type with idm. capacity is MAX_CONSOLES (§6.1).
func Init(idm *idmgr.Manager, backend adapter.ConsoleBackend, capacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeConsole, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create opens console number index, recorded under the synthetic name
// "console<index>" so it still participates in the common ID-manager
// name-uniqueness check.
func (m *Module) Create(index int) (idcodec.Handle, osstatus.Status) {
	name := consoleName(index)

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeConsole, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Create(slot)
	return m.idm.FinalizeNew(idcodec.TypeConsole, slot, status)
}

func consoleName(index int) string {
	const digits = "0123456789"
	if index < 0 || index > 9 {
		return "console"
	}
	return "console" + string(digits[index])
}

// Write sends data to h.
func (m *Module) Write(h idcodec.Handle, data []byte) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeConsole, h)
	if !status.Ok() {
		return status
	}
	return m.backend.Write(slot, data)
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name    string
	Creator idcodec.Handle
}

// GetInfo reports h's name and creator.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeConsole, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeConsole)
	return Info{Name: m.internal[slot].name, Creator: rec.Creator}, osstatus.SUCCESS
}

// ForEach visits every live console handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeConsole, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}

// DeleteOne is the osal facade's deleter hook. Consoles have no native
// teardown in the original design (they live for the process lifetime),
// so this always reports "no progress".
func (m *Module) DeleteOne(idcodec.Handle) bool {
	return false
}
