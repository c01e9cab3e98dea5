package mutex_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/mutex"
	"github.com/cfs-go/osal/osstatus"
)

func newModule(t *testing.T) *mutex.Module {
	t.Helper()
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := mutex.Init(idm, mock.NewMutexes(), 4)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTakeGiveDelete(t *testing.T) {
	m := newModule(t)
	h, status := m.Create("m1", 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	if status := m.Take(h); status != osstatus.SUCCESS {
		t.Fatalf("Take = %v", status)
	}
	if status := m.Give(h); status != osstatus.SUCCESS {
		t.Fatalf("Give = %v", status)
	}
	if status := m.Delete(h); status != osstatus.SUCCESS {
		t.Fatalf("Delete = %v", status)
	}
	if status := m.Take(h); status != osstatus.ErrInvalidID {
		t.Errorf("Take after delete = %v, want ErrInvalidID", status)
	}
}

func TestNameTooLong(t *testing.T) {
	m := newModule(t)
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	if _, status := m.Create(string(long), 0); status != osstatus.ErrNameTooLong {
		t.Errorf("Create with long name = %v, want ErrNameTooLong", status)
	}
}
