package module_test

import (
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idmgr"
	mod "github.com/cfs-go/osal/module"
	"github.com/cfs-go/osal/osstatus"
)

func TestLoadGetInfoUnload(t *testing.T) {
	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := mod.Init(idm, mock.NewModules(), 4)
	if err != nil {
		t.Fatal(err)
	}

	h, status := m.Load("app", "/cf/app.so")
	if status != osstatus.SUCCESS {
		t.Fatalf("Load = %v", status)
	}

	info, status := m.GetInfo(h)
	if status != osstatus.SUCCESS {
		t.Fatalf("GetInfo = %v", status)
	}
	if info.Path != "/cf/app.so" {
		t.Errorf("GetInfo.Path = %q, want %q", info.Path, "/cf/app.so")
	}

	if status := m.Unload(h); status != osstatus.SUCCESS {
		t.Fatalf("Unload = %v", status)
	}
	if _, status := m.GetInfo(h); status != osstatus.ErrInvalidID {
		t.Errorf("GetInfo after unload = %v, want ErrInvalidID", status)
	}
}
