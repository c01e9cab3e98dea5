package filesys_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/filesys"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

func newModule(t *testing.T) *filesys.Module {
	t.Helper()
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := filesys.Init(idm, mock.NewFileSystems(), 8, 32, 96)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// TestMountAndTranslatePath is scenario S3.
func TestMountAndTranslatePath(t *testing.T) {
	m := newModule(t)

	if _, status := m.Initialize("ram0", "RAM0", 512, 200, 0, true); status != osstatus.SUCCESS {
		t.Fatalf("Initialize = %v", status)
	}
	if status := m.Mount("ram0", "/ram0root", "/cf"); status != osstatus.SUCCESS {
		t.Fatalf("Mount = %v", status)
	}

	local, status := m.TranslatePath("/cf/data/x.bin")
	if status != osstatus.SUCCESS {
		t.Fatalf("TranslatePath = %v", status)
	}
	if want := "/ram0root/data/x.bin"; local != want {
		t.Errorf("TranslatePath = %q, want %q", local, want)
	}

	info, status := m.GetInfo("ram0")
	if status != osstatus.SUCCESS {
		t.Fatalf("GetInfo = %v", status)
	}
	if !info.IsRAM {
		t.Error("GetInfo.IsRAM = false, want true for a RAM0-prefixed volume")
	}

	if _, status := m.TranslatePath("/cf/"); status != osstatus.ErrFsPathInvalid {
		t.Errorf("TranslatePath(%q) = %v, want ErrFsPathInvalid", "/cf/", status)
	}
	if _, status := m.TranslatePath("cf/x"); status != osstatus.ErrFsPathInvalid {
		t.Errorf("TranslatePath(%q) = %v, want ErrFsPathInvalid", "cf/x", status)
	}
}

func TestMountRequiresReady(t *testing.T) {
	m := newModule(t)
	if _, status := m.AddFixedMap("/dev/rootfs", "/boot"); status != osstatus.SUCCESS {
		t.Fatalf("AddFixedMap = %v", status)
	}
	// AddFixedMap already marks the entry mounted; mounting it again
	// must be rejected since its flags are no longer the bare READY
	// state Mount requires.
	if status := m.Mount("rootfs", "/x", "/y"); status != osstatus.ErrIncorrectObjState {
		t.Errorf("Mount on an already-mounted fixed map = %v, want ErrIncorrectObjState", status)
	}
}

func TestUnmountThenRemove(t *testing.T) {
	m := newModule(t)
	if _, status := m.Initialize("ram0", "RAM0", 512, 200, 0, false); status != osstatus.SUCCESS {
		t.Fatalf("Initialize = %v", status)
	}
	if status := m.Mount("ram0", "/sysmnt", "/cf"); status != osstatus.SUCCESS {
		t.Fatalf("Mount = %v", status)
	}
	if status := m.Unmount("/cf"); status != osstatus.SUCCESS {
		t.Fatalf("Unmount = %v", status)
	}
	if status := m.RemoveFileSys("ram0"); status != osstatus.SUCCESS {
		t.Fatalf("RemoveFileSys = %v", status)
	}
}
