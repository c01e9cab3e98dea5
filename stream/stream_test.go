package stream_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
	"github.com/cfs-go/osal/stream"
)

func TestWriteThenReadBack(t *testing.T) {
	fs := mock.NewFileSystems()
	fs.StartVolume(0, "", "", 0, 0, 0)

	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := stream.Init(idm, mock.NewStreams(fs), 8)
	if err != nil {
		t.Fatal(err)
	}

	h, status := m.Open("/x.bin", 1, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Open = %v", status)
	}

	data := []byte("hello world")
	n, status := m.Write(h, data, 0)
	if status != osstatus.SUCCESS || n != len(data) {
		t.Fatalf("Write = (%d, %v), want (%d, SUCCESS)", n, status, len(data))
	}
	if status := m.Close(h); status != osstatus.SUCCESS {
		t.Fatalf("Close = %v", status)
	}

	h2, status := m.Open("/x.bin", 0, 0)
	if status != osstatus.SUCCESS {
		t.Fatalf("re-Open = %v", status)
	}
	buf := make([]byte, len(data))
	n, status = m.Read(h2, buf, 0)
	if status != osstatus.SUCCESS || n != len(data) {
		t.Fatalf("Read = (%d, %v), want (%d, SUCCESS)", n, status, len(data))
	}
	if string(buf) != "hello world" {
		t.Errorf("Read returned %q, want %q", buf, "hello world")
	}
}
