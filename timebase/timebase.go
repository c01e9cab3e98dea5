// Package timebase implements the timebase and timer-callback resource
// wrappers together (§4.F): a timebase owns a dedicated servicing
// goroutine — the natural Go analogue of "dedicated high-priority task"
// — that walks a circular ring of timer callbacks once per tick,
// re-arming each per its interval and firing it on the edge where its
// wait time crosses from positive to non-positive.
package timebase

import (
	"log"
	"time"

	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

// spinYield is how long the servicing loop sleeps once it decides the
// sync function is spinning without making tick progress (§4.F step 2).
const spinYield = 10 * time.Millisecond

const maxNameLen = 32

// spinLimit is how many consecutive zero-length ticks the servicing
// loop tolerates before it concludes the external sync function is
// spinning and starts yielding between iterations (§4.F step 2).
const spinLimit = 4

// SyncFunc is the external time source a timebase services against: it
// blocks until the next tick and reports how many microseconds elapsed,
// or 0 for a spurious wake. Returning done=true tells the servicing
// loop to exit immediately (used when the adapter itself is shutting
// down the clock source, distinct from the timebase being deleted).
type SyncFunc func() (tickTimeUsec int32, done bool)

// CallbackFunc is invoked once per firing of a timer callback, in the
// servicing goroutine's own context (§4.F "Callbacks execute in the
// timebase task context").
type CallbackFunc func(timerHandle idcodec.Handle, arg interface{})

type timebaseRecord struct {
	name        string
	freerunTime int64
	firstCB     int // slot index into the timer table, or -1 if empty
	sync        SyncFunc
}

type timerRecord struct {
	name          string
	handle        idcodec.Handle
	parent        idcodec.Handle
	parentSlot    int
	callback      CallbackFunc
	arg           interface{}
	intervalTime  int32
	waitTime      int32
	backlogResets uint32
	nextRef       int // ring link: slot index of the next timer sharing this timebase
}

// Module holds the package-level state for both the timebase and
// timer-callback resource kinds: they are specified separately but
// share a ring structure tight enough that splitting them into two
// packages would just require passing the ring back and forth.
type Module struct {
	idm     *idmgr.Manager
	backend adapter.TimeBaseBackend
	taskCtx adapter.TaskContext
	clock   adapter.Clock

	timebases []timebaseRecord
	timers    []timerRecord
}

// Init allocates both internal record tables and registers TypeTimeBase
// and TypeTimerCb with idm. tbCapacity is MAX_TIMEBASES, timerCapacity
// is MAX_TIMERS (§6.1).
func Init(idm *idmgr.Manager, backend adapter.TimeBaseBackend, taskCtx adapter.TaskContext, clock adapter.Clock, tbCapacity, timerCapacity int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeTimeBase, tbCapacity); err != nil {
		return nil, err
	}
	if err := idm.InitType(idcodec.TypeTimerCb, timerCapacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:       idm,
		backend:   backend,
		taskCtx:   taskCtx,
		clock:     clock,
		timebases: make([]timebaseRecord, tbCapacity),
		timers:    make([]timerRecord, timerCapacity),
	}, nil
}

// CreateTimeBase registers a new timebase named name, serviced by sync,
// and spawns its dedicated servicing goroutine.
func (m *Module) CreateTimeBase(name string, sync SyncFunc) (idcodec.Handle, osstatus.Status) {
	if name == "" || sync == nil {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(name) > maxNameLen {
		return idcodec.Undefined, osstatus.ErrNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeTimeBase, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.timebases[slot] = timebaseRecord{name: name, firstCB: -1, sync: sync}
	m.idm.SetName(rec, &m.timebases[slot].name)

	status = m.backend.Create(slot)
	handle, status := m.idm.FinalizeNew(idcodec.TypeTimeBase, slot, status)
	if status.Ok() {
		go m.serviceLoop(handle, slot)
	}
	return handle, status
}

// DeleteTimeBase tears down a timebase; its servicing goroutine notices
// the active_id change on its next lock acquisition and exits.
func (m *Module) DeleteTimeBase(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeTimeBase, h)
	if !status.Ok() {
		return status
	}
	status = m.backend.Delete(slot)
	return m.idm.FinalizeDelete(idcodec.TypeTimeBase, slot, status)
}

// FreeRunTime reports h's monotonic accumulated tick time in
// microseconds (§3.3, §8 property 7).
func (m *Module) FreeRunTime(h idcodec.Handle) (int64, osstatus.Status) {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeTimeBase, h)
	if !status.Ok() {
		return 0, status
	}
	m.backend.LockTimeBase(slot)
	v := m.timebases[slot].freerunTime
	m.backend.UnlockTimeBase(slot)
	return v, osstatus.SUCCESS
}

// CreateTimer attaches a new timer callback to timebase tb, named name,
// invoking cb(handle, arg) on firing.
func (m *Module) CreateTimer(tb idcodec.Handle, name string, cb CallbackFunc, arg interface{}) (idcodec.Handle, osstatus.Status) {
	if name == "" || cb == nil {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}

	tbSlot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeTimeBase, tb)
	if !status.Ok() {
		return idcodec.Undefined, osstatus.ErrTimerTimerID
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeTimerCb, name)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.timers[slot] = timerRecord{name: name, parent: tb, parentSlot: tbSlot, callback: cb, arg: arg, nextRef: -1}
	m.idm.SetName(rec, &m.timers[slot].name)

	handle, status := m.idm.FinalizeNew(idcodec.TypeTimerCb, slot, osstatus.SUCCESS)
	if status.Ok() {
		m.timers[slot].handle = handle
		m.linkIntoRing(tbSlot, slot)
	}
	return handle, status
}

// linkIntoRing threads timerSlot into tbSlot's circular timer-callback
// ring (§3.4), inserting right after first_cb.
func (m *Module) linkIntoRing(tbSlot, timerSlot int) {
	m.backend.LockTimeBase(tbSlot)
	defer m.backend.UnlockTimeBase(tbSlot)

	tbr := &m.timebases[tbSlot]
	if tbr.firstCB < 0 {
		tbr.firstCB = timerSlot
		m.timers[timerSlot].nextRef = timerSlot
		return
	}
	m.timers[timerSlot].nextRef = m.timers[tbr.firstCB].nextRef
	m.timers[tbr.firstCB].nextRef = timerSlot
}

func (m *Module) unlinkFromRing(tbSlot, timerSlot int) {
	m.backend.LockTimeBase(tbSlot)
	defer m.backend.UnlockTimeBase(tbSlot)

	tbr := &m.timebases[tbSlot]
	if tbr.firstCB < 0 {
		return
	}
	if tbr.firstCB == timerSlot && m.timers[timerSlot].nextRef == timerSlot {
		tbr.firstCB = -1
		return
	}
	prev := tbr.firstCB
	for m.timers[prev].nextRef != timerSlot {
		prev = m.timers[prev].nextRef
	}
	m.timers[prev].nextRef = m.timers[timerSlot].nextRef
	if tbr.firstCB == timerSlot {
		tbr.firstCB = m.timers[timerSlot].nextRef
	}
}

// Set arms (or re-arms) h to first fire after startTimeUsec, and every
// intervalTimeUsec thereafter; intervalTimeUsec == 0 means one-shot.
func (m *Module) Set(h idcodec.Handle, startTimeUsec, intervalTimeUsec int32) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeTimerCb, h)
	if !status.Ok() {
		return status
	}
	tr := &m.timers[slot]
	tbSlot := tr.parentSlot

	m.backend.LockTimeBase(tbSlot)
	tr.waitTime = startTimeUsec
	tr.intervalTime = intervalTimeUsec
	m.backend.UnlockTimeBase(tbSlot)

	return m.backend.Set(tbSlot, startTimeUsec, intervalTimeUsec)
}

// DeleteTimer removes h from its timebase's ring.
func (m *Module) DeleteTimer(h idcodec.Handle) osstatus.Status {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeTimerCb, h)
	if !status.Ok() {
		return status
	}
	m.unlinkFromRing(m.timers[slot].parentSlot, slot)
	return m.idm.FinalizeDelete(idcodec.TypeTimerCb, slot, osstatus.SUCCESS)
}

// CurrentTaskIsTimeBase reports whether the calling task's own handle is
// a timebase servicing goroutine's handle. CreateTimer, Set and
// DeleteTimer do not consult it: they accept calls made from within a
// timer callback.
func (m *Module) CurrentTaskIsTimeBase() bool {
	return idcodec.TypeOf(m.taskCtx.CurrentTask()) == idcodec.TypeTimeBase
}

// serviceLoop is the per-tick state machine of §4.F, run in its own
// goroutine for the lifetime of the timebase.
func (m *Module) serviceLoop(tbHandle idcodec.Handle, tbSlot int) {
	m.taskCtx.Register(tbHandle)

	spin := 0
	warned := false

	for {
		tickTime, done := m.timebases[tbSlot].sync()
		if done {
			return
		}

		if tickTime == 0 {
			spin++
			if spin >= spinLimit {
				if !warned {
					log.Printf("timebase: servicing loop spinning with no tick progress, yielding")
					warned = true
				}
				m.clock.Sleep(spinYield)
			}
			continue
		}
		spin = 0
		warned = false

		m.backend.LockTimeBase(tbSlot)

		_, _, status := m.idm.GetById(idmgr.LockNone, idcodec.TypeTimeBase, tbHandle)
		if !status.Ok() {
			m.backend.UnlockTimeBase(tbSlot)
			return
		}

		tbr := &m.timebases[tbSlot]
		tbr.freerunTime += int64(tickTime)

		if tbr.firstCB >= 0 {
			cur := tbr.firstCB
			for {
				tr := &m.timers[cur]
				savedWait := tr.waitTime
				tr.waitTime -= tickTime

				for tr.waitTime <= 0 {
					tr.waitTime += tr.intervalTime
					if tr.waitTime < -tr.intervalTime {
						tr.waitTime = -tr.intervalTime
						tr.backlogResets++
					}
					if savedWait > 0 {
						m.fireTimer(cur)
					}
					if tr.intervalTime <= 0 {
						break
					}
				}

				cur = tr.nextRef
				if cur == tbr.firstCB {
					break
				}
			}
		}

		m.backend.UnlockTimeBase(tbSlot)
	}
}

func (m *Module) fireTimer(slot int) {
	tr := &m.timers[slot]
	if tr.callback != nil {
		tr.callback(tr.handle, tr.arg)
	}
}

// DeleteOneTimeBase is the osal facade's deleter hook for the timebase
// type.
func (m *Module) DeleteOneTimeBase(h idcodec.Handle) bool {
	return m.DeleteTimeBase(h).Ok()
}

// ForEachTimeBase visits every live timebase handle.
func (m *Module) ForEachTimeBase(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeTimeBase, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}

// DeleteOneTimer is the osal facade's deleter hook for the timercb type.
func (m *Module) DeleteOneTimer(h idcodec.Handle) bool {
	return m.DeleteTimer(h).Ok()
}

// ForEachTimer visits every live timer-callback handle.
func (m *Module) ForEachTimer(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeTimerCb, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
