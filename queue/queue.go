// Package queue implements the message-queue resource wrapper (§4.E),
// including the depth/size validation §4.E calls out explicitly:
// queue_depth must not exceed QUEUE_MAX_DEPTH, and Get into a buffer
// smaller than the queue's configured max_size fails with
// QUEUE_INVALID_SIZE rather than silently truncating.
package queue

import (
	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

const maxNameLen = 32

type internalRecord struct {
	name     string
	maxDepth uint32
	maxSize  uint32
}

// Module holds the package-level state for the queue resource kind.
type Module struct {
	idm      *idmgr.Manager
	backend  adapter.QueueBackend
	maxDepth uint32

	internal []internalRecord
}

// Init allocates the internal record table and registers the queue type
// with idm. capacity is MAX_QUEUES; queueMaxDepth is QUEUE_MAX_DEPTH
// (§6.1).
func Init(idm *idmgr.Manager, backend adapter.QueueBackend, capacity int, queueMaxDepth uint32) (*Module, error) {
	if err := idm.InitType(idcodec.TypeQueue, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:      idm,
		backend:  backend,
		maxDepth: queueMaxDepth,
		internal: make([]internalRecord, capacity),
	}, nil
}

// Create allocates a new queue named name with the given depth and
// per-message size limit.
func (m *Module) Create(name string, depth uint32, dataSize uint32, flags uint32) (idcodec.Handle, osstatus.Status) {
	if name == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}
	if depth > m.maxDepth {
		return idcodec.Undefined, osstatus.ErrQueueInvalidSize
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeQueue, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{name: name, maxDepth: depth, maxSize: dataSize}
	m.idm.SetName(rec, &m.internal[slot].name)

	status = m.backend.Create(slot, depth, dataSize, flags)
	return m.idm.FinalizeNew(idcodec.TypeQueue, slot, status)
}

// Delete tears down h.
func (m *Module) Delete(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeQueue, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeQueue, slot, status)
}

// Put enqueues data onto h.
func (m *Module) Put(h idcodec.Handle, data []byte, flags uint32) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeQueue, h)
	if !status.Ok() {
		return status
	}
	if uint32(len(data)) > m.internal[slot].maxSize {
		return osstatus.ErrQueueInvalidSize
	}
	return m.backend.Put(slot, data, flags)
}

// Get dequeues into buf, blocking per timeoutUsec (negative = forever,
// zero = no wait, positive = bounded). It fails with QUEUE_INVALID_SIZE
// (writing 0 to the returned count) if buf is smaller than the queue's
// configured message size.
func (m *Module) Get(h idcodec.Handle, buf []byte, timeoutUsec int32) (int, osstatus.Status) {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeQueue, h)
	if !status.Ok() {
		return 0, status
	}
	if uint32(len(buf)) < m.internal[slot].maxSize {
		return 0, osstatus.ErrQueueInvalidSize
	}
	return m.backend.Get(slot, buf, timeoutUsec)
}

// GetIdByName resolves name to its live handle.
func (m *Module) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	_, rec, status := m.idm.GetByName(idmgr.LockNone, idcodec.TypeQueue, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}
	return rec.ActiveID, osstatus.SUCCESS
}

// Info is the type-specific payload GetInfo reports.
type Info struct {
	Name     string
	Creator  idcodec.Handle
	MaxDepth uint32
	MaxSize  uint32
}

// GetInfo reports h's name, creator, and configured depth/size.
func (m *Module) GetInfo(h idcodec.Handle) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetById(idmgr.LockGlobal, idcodec.TypeQueue, h)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeQueue)
	ir := m.internal[slot]
	return Info{Name: ir.name, Creator: rec.Creator, MaxDepth: ir.maxDepth, MaxSize: ir.maxSize}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	return m.Delete(h).Ok()
}

// ForEach visits every live queue handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeQueue, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
