package countsem_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/countsem"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

func newModule(t *testing.T) *countsem.Module {
	t.Helper()
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	sem := mock.NewCountingSemaphores(mock.NewSemaphores())
	m, err := countsem.Init(idm, sem, 4)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestGiveMultipleThenTakeMultiple(t *testing.T) {
	m := newModule(t)
	h, status := m.Create("c1", 0, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	for i := 0; i < 3; i++ {
		if status := m.Give(h); status != osstatus.SUCCESS {
			t.Fatalf("Give #%d = %v", i, status)
		}
	}
	for i := 0; i < 3; i++ {
		if status := m.Take(h); status != osstatus.SUCCESS {
			t.Fatalf("Take #%d = %v", i, status)
		}
	}
	if status := m.TimedWait(h, 1000); status != osstatus.ErrSemTimeout {
		t.Errorf("TimedWait on drained sem = %v, want ErrSemTimeout", status)
	}
}
