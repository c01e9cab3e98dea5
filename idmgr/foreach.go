package idmgr

import "github.com/cfs-go/osal/idcodec"

// VisitFunc is invoked once per active object matched by ForEachObject.
type VisitFunc func(h idcodec.Handle, slot int)

// ForEachObject iterates every active slot of type t whose Creator
// matches creatorFilter (when hasFilter is true), invoking fn once per
// match (§4.D.7). The type-lock is held only while the table is being
// scanned into a snapshot; fn itself runs with no lock held, since the
// callback may go on to delete the very object it was given (§4.D.7:
// "Implementations must not hold a type-lock while invoking the
// callback").
func (m *Manager) ForEachObject(t idcodec.Type, creatorFilter idcodec.Handle, hasFilter bool, fn VisitFunc) {
	tbl := m.table(t)

	type hit struct {
		h    idcodec.Handle
		slot int
	}

	m.lock.LockGlobal(t)
	var hits []hit
	for i := range tbl.records {
		r := &tbl.records[i]
		if r.state() != slotActive {
			continue
		}
		if hasFilter && r.Creator != creatorFilter {
			continue
		}
		hits = append(hits, hit{r.ActiveID, i})
	}
	m.lock.UnlockGlobal(t)

	for _, hh := range hits {
		fn(hh.h, hh.slot)
	}
}

// CountActive reports the number of active slots of type t, used by
// DeleteAllObjects to decide when a bulk-delete pass made no progress.
func (m *Manager) CountActive(t idcodec.Type) int {
	tbl := m.table(t)
	m.lock.LockGlobal(t)
	n := 0
	for i := range tbl.records {
		if tbl.records[i].state() == slotActive {
			n++
		}
	}
	m.lock.UnlockGlobal(t)
	return n
}
