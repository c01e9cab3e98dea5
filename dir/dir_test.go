package dir_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/dir"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

func TestOpenReadRewind(t *testing.T) {
	fs := mock.NewFileSystems()
	fs.StartVolume(0, "", "", 0, 0, 0)
	if err := fs.WriteFile(0, "/data/a.bin", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(0, "/data/b.bin", []byte("b")); err != nil {
		t.Fatal(err)
	}

	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := dir.Init(idm, mock.NewDirs(fs), 8)
	if err != nil {
		t.Fatal(err)
	}

	h, status := m.Open("/data")
	if status != osstatus.SUCCESS {
		t.Fatalf("Open = %v", status)
	}

	var names []string
	for {
		name, eof, status := m.Read(h)
		if status != osstatus.SUCCESS {
			t.Fatalf("Read = %v", status)
		}
		if eof {
			break
		}
		names = append(names, name)
	}
	if len(names) != 2 {
		t.Fatalf("Read returned %d names, want 2: %v", len(names), names)
	}

	if status := m.Rewind(h); status != osstatus.SUCCESS {
		t.Fatalf("Rewind = %v", status)
	}
	if _, eof, status := m.Read(h); status != osstatus.SUCCESS || eof {
		t.Errorf("Read after Rewind = (eof=%v, %v), want (false, SUCCESS)", eof, status)
	}

	if status := m.Close(h); status != osstatus.SUCCESS {
		t.Fatalf("Close = %v", status)
	}
}
