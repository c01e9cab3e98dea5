package console_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/console"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

func TestCreateWrite(t *testing.T) {
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	backend := mock.NewConsole()
	m, err := console.Init(idm, backend, 2)
	if err != nil {
		t.Fatal(err)
	}

	h, status := m.Create(0)
	if status != osstatus.SUCCESS {
		t.Fatalf("Create = %v", status)
	}
	if status := m.Write(h, []byte("hello\n")); status != osstatus.SUCCESS {
		t.Fatalf("Write = %v", status)
	}

	if got := string(backend.Contents(0)); got != "hello\n" {
		t.Errorf("console contents = %q, want %q", got, "hello\n")
	}
}
