package idmgr_test

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

// fastClock never actually sleeps, so EXCLUSIVE-mode retry tests run
// quickly and deterministically.
type fastClock struct{ slept int }

func (c *fastClock) Sleep(time.Duration) { c.slept++ }

func newManager(t *testing.T) (*idmgr.Manager, *fastClock) {
	t.Helper()
	clock := &fastClock{}
	m := idmgr.NewManager(mock.NewLocks(), clock, mock.NewTasks())
	if err := m.InitType(idcodec.TypeBinSem, 4); err != nil {
		t.Fatal(err)
	}
	return m, clock
}

func createBinsem(t *testing.T, m *idmgr.Manager, name string) idcodec.Handle {
	t.Helper()
	slot, rec, status := m.AllocateNew(idcodec.TypeBinSem, name)
	if status != osstatus.SUCCESS {
		t.Fatalf("AllocateNew(%q) = %v", name, status)
	}
	buf := name
	m.SetName(rec, &buf)
	h, status := m.FinalizeNew(idcodec.TypeBinSem, slot, osstatus.SUCCESS)
	if status != osstatus.SUCCESS {
		t.Fatalf("FinalizeNew(%q) = %v", name, status)
	}
	return h
}

func TestAllocateNewThenGetById(t *testing.T) {
	m, _ := newManager(t)
	h := createBinsem(t, m, "s1")

	_, rec, status := m.GetById(idmgr.LockNone, idcodec.TypeBinSem, h)
	if status != osstatus.SUCCESS {
		t.Fatalf("GetById = %v", status)
	}
	if rec.ActiveID != h {
		t.Errorf("GetById resolved to a different record's ActiveID")
	}
}

func TestDeleteThenGetByIdFails(t *testing.T) {
	m, _ := newManager(t)
	h := createBinsem(t, m, "s1")

	slot, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
	if status != osstatus.SUCCESS {
		t.Fatalf("GetById(EXCLUSIVE) = %v", status)
	}
	if status := m.FinalizeDelete(idcodec.TypeBinSem, slot, osstatus.SUCCESS); status != osstatus.SUCCESS {
		t.Fatalf("FinalizeDelete = %v", status)
	}

	if _, _, status := m.GetById(idmgr.LockNone, idcodec.TypeBinSem, h); status != osstatus.ErrInvalidID {
		t.Errorf("GetById after delete = %v, want ErrInvalidID", status)
	}
}

func TestNameUniqueness(t *testing.T) {
	m, _ := newManager(t)
	createBinsem(t, m, "dup")

	_, _, status := m.AllocateNew(idcodec.TypeBinSem, "dup")
	if status != osstatus.ErrNameTaken {
		t.Errorf("AllocateNew with duplicate name = %v, want ErrNameTaken", status)
	}
}

func TestExhaustion(t *testing.T) {
	m, _ := newManager(t) // capacity 4

	var last osstatus.Status
	for i := 0; i < 5; i++ {
		slot, rec, status := m.AllocateNew(idcodec.TypeBinSem, "")
		if status == osstatus.SUCCESS {
			m.SetName(rec, nil)
			_, status = m.FinalizeNew(idcodec.TypeBinSem, slot, osstatus.SUCCESS)
		}
		last = status
	}
	if last != osstatus.ErrNoFreeIDs {
		t.Errorf("5th AllocateNew on a 4-slot table = %v, want ErrNoFreeIDs", last)
	}
}

func TestExclusiveDeleteWaitsOutRefcount(t *testing.T) {
	m, clock := newManager(t)
	h := createBinsem(t, m, "s1")

	// Take a REFCOUNT-mode hold and never release it, simulating an
	// in-progress call on the object.
	if _, _, status := m.GetById(idmgr.LockRefcount, idcodec.TypeBinSem, h); status != osstatus.SUCCESS {
		t.Fatalf("GetById(REFCOUNT) = %v", status)
	}

	_, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
	if status != osstatus.ErrObjInUse {
		t.Errorf("GetById(EXCLUSIVE) with outstanding refcount = %v, want ErrObjInUse", status)
	}
	if clock.slept != idmgr.ExclusiveRetryLimit {
		t.Errorf("slept %d times, want %d", clock.slept, idmgr.ExclusiveRetryLimit)
	}
}

func TestRefcountInvariant(t *testing.T) {
	m, _ := newManager(t)
	h := createBinsem(t, m, "s1")

	slot, _, status := m.GetById(idmgr.LockRefcount, idcodec.TypeBinSem, h)
	if status != osstatus.SUCCESS {
		t.Fatalf("GetById(REFCOUNT) = %v", status)
	}

	// While refcount > 0, EXCLUSIVE delete must not succeed immediately.
	if _, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h); status == osstatus.SUCCESS {
		t.Errorf("EXCLUSIVE GetById succeeded while refcount > 0")
	}

	m.DecrementRefcount(idcodec.TypeBinSem, slot)

	// Now it should succeed immediately (refcount == 0).
	s2, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
	if status != osstatus.SUCCESS {
		t.Fatalf("EXCLUSIVE GetById after refcount drained = %v", status)
	}
	m.Unlock(idcodec.TypeBinSem)
	_ = s2
}

func TestForEachObjectDoesNotHoldLockDuringCallback(t *testing.T) {
	m, _ := newManager(t)
	h1 := createBinsem(t, m, "a")
	h2 := createBinsem(t, m, "b")

	var seen []idcodec.Handle
	m.ForEachObject(idcodec.TypeBinSem, idcodec.Undefined, false, func(h idcodec.Handle, slot int) {
		// Deleting from inside the callback must not deadlock: this
		// is only possible if the scan didn't hold the lock here.
		slot2, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
		if status == osstatus.SUCCESS {
			m.FinalizeDelete(idcodec.TypeBinSem, slot2, osstatus.SUCCESS)
		}
		seen = append(seen, h)
	})

	if len(seen) != 2 {
		t.Fatalf("ForEachObject visited %d objects, want 2", len(seen))
	}
	for _, h := range []idcodec.Handle{h1, h2} {
		if _, _, status := m.GetById(idmgr.LockNone, idcodec.TypeBinSem, h); status != osstatus.ErrInvalidID {
			t.Errorf("handle %v survived ForEachObject-driven delete", h)
		}
	}
}

func TestConcurrentCreateDelete(t *testing.T) {
	clock := &fastClock{}
	m := idmgr.NewManager(mock.NewLocks(), clock, mock.NewTasks())
	if err := m.InitType(idcodec.TypeBinSem, 64); err != nil {
		t.Fatal(err)
	}

	fail := func(s osstatus.Status) error {
		if s == osstatus.SUCCESS {
			return nil
		}
		return s
	}

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			slot, rec, status := m.AllocateNew(idcodec.TypeBinSem, "")
			if status != osstatus.SUCCESS {
				return fail(status)
			}
			m.SetName(rec, nil)
			h, status := m.FinalizeNew(idcodec.TypeBinSem, slot, osstatus.SUCCESS)
			if status != osstatus.SUCCESS {
				return fail(status)
			}
			s2, _, status := m.GetById(idmgr.LockExclusive, idcodec.TypeBinSem, h)
			if status != osstatus.SUCCESS {
				return fail(status)
			}
			return fail(m.FinalizeDelete(idcodec.TypeBinSem, s2, osstatus.SUCCESS))
		})
	}
	if err := g.Wait(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
