package idmgr

import "github.com/cfs-go/osal/idcodec"

// Flags is the common record's bitfield (§3.2).
type Flags uint16

// FlagExclusiveRequest marks a record that an EXCLUSIVE-mode lookup is
// waiting to drain: set while the requester sleeps out its retries so a
// concurrent observer (and a human reading a core dump) can tell a
// delete is pending.
const FlagExclusiveRequest Flags = 1 << 0

// CommonRecord is the shared-layer bookkeeping entry for one slot of one
// resource type (§3.2). Every kind of OSAL object — task, queue, binsem,
// filesystem, whatever — has exactly one of these per live or free slot;
// the type-specific payload lives in the wrapper's own internal record
// array at the same slot index.
type CommonRecord struct {
	NameEntry *string
	ActiveID  idcodec.Handle
	Creator   idcodec.Handle
	Refcount  uint32
	Flags     Flags
}

// slotState classifies a CommonRecord per §3.2.
type slotState int

const (
	slotFree slotState = iota
	slotReserved
	slotActive
)

func (r *CommonRecord) state() slotState {
	switch r.ActiveID {
	case idcodec.Undefined:
		return slotFree
	case idcodec.Reserved:
		return slotReserved
	default:
		return slotActive
	}
}

// typeTable is the per-type pair of parallel arrays described in §3.2 and
// §4.B: the common-record array (held here) sized from the type's
// configured capacity, plus the generation counters idcodec.NextSerial
// needs to avoid handing out a handle that collides with one still live
// at the same slot.
type typeTable struct {
	capacity   int
	records    []CommonRecord
	generation []uint32
	lastAlloc  int
}

func newTypeTable(capacity int) *typeTable {
	return &typeTable{
		capacity:   capacity,
		records:    make([]CommonRecord, capacity),
		generation: make([]uint32, capacity),
		lastAlloc:  capacity - 1, // so the first AllocateNew starts scanning at slot 0
	}
}
