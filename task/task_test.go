package task_test

import (
	"testing"
	"time"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
	"github.com/cfs-go/osal/task"
)

func newModule(t *testing.T) (*task.Module, *mock.Tasks) {
	t.Helper()
	tasks := mock.NewTasks()
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, tasks)
	m, err := task.Init(idm, mock.NewTaskBackend(), tasks, 8)
	if err != nil {
		t.Fatal(err)
	}
	return m, tasks
}

func TestCreateRegistersCurrentTask(t *testing.T) {
	m, tasks := newModule(t)

	seen := make(chan idcodec.Handle, 1)
	h, status := m.Create("worker", 100, 4096, func() {
		seen <- tasks.CurrentTask()
	})
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}

	select {
	case got := <-seen:
		if got != h {
			t.Errorf("task saw CurrentTask() = %v, want %v", got, h)
		}
	case <-time.After(time.Second):
		t.Fatal("entry never ran")
	}
}

func TestDeleteThenGetInfoFails(t *testing.T) {
	m, _ := newModule(t)
	done := make(chan struct{})
	h, status := m.Create("t", 0, 0, func() { close(done) })
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	<-done

	if status := m.Delete(h); status != osstatus.SUCCESS {
		t.Fatalf("Delete = %v", status)
	}
	if _, status := m.GetInfo(h); status != osstatus.ErrInvalidID {
		t.Errorf("GetInfo after delete = %v, want ErrInvalidID", status)
	}
}
