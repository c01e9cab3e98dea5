package queue_test

import (
	"bytes"
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
	"github.com/cfs-go/osal/queue"
)

func newModule(t *testing.T) *queue.Module {
	t.Helper()
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := queue.Init(idm, mock.NewQueues(), 8, 256)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// TestCapacityCheck is scenario S2.
func TestCapacityCheck(t *testing.T) {
	m := newModule(t)

	q, status := m.Create("q", 4, 8, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}

	msg := []byte{0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18}
	if status := m.Put(q, msg, 0); status != osstatus.SUCCESS {
		t.Fatalf("first Put = %v", status)
	}
	if status := m.Put(q, msg, 0); status != osstatus.SUCCESS {
		t.Fatalf("second Put = %v", status)
	}

	small := make([]byte, 4)
	n, status := m.Get(q, small, 0)
	if status != osstatus.ErrQueueInvalidSize || n != 0 {
		t.Errorf("Get(small buf) = (%d, %v), want (0, ErrQueueInvalidSize)", n, status)
	}

	out := make([]byte, 8)
	n, status = m.Get(q, out, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Get(full buf) = %v", status)
	}
	if n != 8 {
		t.Errorf("Get returned n=%d, want 8", n)
	}
	if !bytes.Equal(out, msg) {
		t.Errorf("Get returned %v, want %v", out, msg)
	}
}

func TestDepthExceedsMax(t *testing.T) {
	m := newModule(t)
	if _, status := m.Create("toobig", 9999, 8, 0); status != osstatus.ErrQueueInvalidSize {
		t.Errorf("Create with depth > QueueMaxDepth = %v, want ErrQueueInvalidSize", status)
	}
}

func TestGetEmptyQueue(t *testing.T) {
	m := newModule(t)
	q, status := m.Create("q", 4, 8, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	out := make([]byte, 8)
	if _, status := m.Get(q, out, 0); status != osstatus.ErrQueueEmpty {
		t.Errorf("Get on empty queue = %v, want ErrQueueEmpty", status)
	}
}

func TestPutFullQueue(t *testing.T) {
	m := newModule(t)
	q, status := m.Create("q", 1, 4, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	msg := []byte{1, 2, 3, 4}
	if status := m.Put(q, msg, 0); status != osstatus.SUCCESS {
		t.Fatalf("first Put = %v", status)
	}
	if status := m.Put(q, msg, 0); status != osstatus.ErrQueueFull {
		t.Errorf("Put on full queue = %v, want ErrQueueFull", status)
	}
}
