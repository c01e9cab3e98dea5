package osal_test

import (
	"sync"
	"testing"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/osal"
	"github.com/cfs-go/osal/osstatus"
)

// osal.Init succeeds only once per process, so every test in this file
// shares the one Manager it returns.
var (
	sharedOnce sync.Once
	shared     *osal.Manager
	sharedErr  error
)

func newManager(t *testing.T) *osal.Manager {
	t.Helper()
	sharedOnce.Do(func() { shared, sharedErr = initManager() })
	if sharedErr != nil {
		t.Fatal(sharedErr)
	}
	return shared
}

func initManager() (*osal.Manager, error) {
	sems := mock.NewSemaphores()
	countingSems := mock.NewSemaphores()
	fs := mock.NewFileSystems()
	fs.StartVolume(0, "", "", 0, 0, 0)

	backends := osal.Backends{
		Task:     mock.NewTaskBackend(),
		Queue:    mock.NewQueues(),
		BinSem:   sems,
		CountSem: mock.NewCountingSemaphores(countingSems),
		Mutex:    mock.NewMutexes(),
		Stream:   mock.NewStreams(fs),
		Dir:      mock.NewDirs(fs),
		TimeBase: mock.NewTimeBases(),
		Module:   mock.NewModules(),
		FileSys:  fs,
		Console:  mock.NewConsole(),
	}

	return osal.Init(mock.NewLocks(), mock.Clock{}, mock.NewTasks(), backends, osal.DefaultConfig())
}

// TestCreateDeleteAcrossResourceKinds exercises the facade surface end
// to end: one object of several different kinds, then DeleteAllObjects
// sweeping every one of them away except the console, which has no
// teardown.
func TestCreateDeleteAcrossResourceKinds(t *testing.T) {
	m := newManager(t)

	if _, status := m.BinSem().Create("bs", 1, 0); status != osstatus.SUCCESS {
		t.Fatalf("BinSem().Create = %v", status)
	}
	if _, status := m.CountSem().Create("cs", 3, 0); status != osstatus.SUCCESS {
		t.Fatalf("CountSem().Create = %v", status)
	}
	if _, status := m.Mutex().Create("mx", 0); status != osstatus.SUCCESS {
		t.Fatalf("Mutex().Create = %v", status)
	}
	if _, status := m.Queue().Create("q", 4, 8, 0); status != osstatus.SUCCESS {
		t.Fatalf("Queue().Create = %v", status)
	}
	if _, status := m.ModuleWrapper().Load("app", "/cf/app.so"); status != osstatus.SUCCESS {
		t.Fatalf("ModuleWrapper().Load = %v", status)
	}
	if _, status := m.Console().Create(0); status != osstatus.SUCCESS {
		t.Fatalf("Console().Create = %v", status)
	}

	h, status := m.BinSem().GetIdByName("bs")
	if status != osstatus.SUCCESS {
		t.Fatalf("GetIdByName = %v", status)
	}
	if h2, status := m.GetIdByName("bs"); status != osstatus.SUCCESS || h2 != h {
		t.Errorf("Manager.GetIdByName(%q) = (%v, %v), want (%v, SUCCESS)", "bs", h2, status, h)
	}

	m.DeleteAllObjects()

	if _, status := m.BinSem().GetIdByName("bs"); status == osstatus.SUCCESS {
		t.Error("binsem survived DeleteAllObjects")
	}
	if _, status := m.CountSem().GetIdByName("cs"); status == osstatus.SUCCESS {
		t.Error("countsem survived DeleteAllObjects")
	}
	if _, status := m.Mutex().GetIdByName("mx"); status == osstatus.SUCCESS {
		t.Error("mutex survived DeleteAllObjects")
	}
	if _, status := m.Queue().GetIdByName("q"); status == osstatus.SUCCESS {
		t.Error("queue survived DeleteAllObjects")
	}
	if _, status := m.ModuleWrapper().GetIdByName("app"); status == osstatus.SUCCESS {
		t.Error("module survived DeleteAllObjects")
	}
}

func TestForEachObjectVisitsLiveHandles(t *testing.T) {
	m := newManager(t)

	want := map[idcodec.Handle]bool{}
	for _, name := range []string{"a", "b", "c"} {
		h, status := m.Mutex().Create(name, 0)
		if status != osstatus.SUCCESS {
			t.Fatalf("Create(%q) = %v", name, status)
		}
		want[h] = true
	}

	got := map[idcodec.Handle]bool{}
	if err := m.ForEachObject(idcodec.TypeMutex, func(h idcodec.Handle) {
		got[h] = true
	}); err != nil {
		t.Fatal(err)
	}

	if len(got) != len(want) {
		t.Fatalf("ForEachObject visited %d handles, want %d", len(got), len(want))
	}
	for h := range want {
		if !got[h] {
			t.Errorf("ForEachObject did not visit %v", h)
		}
	}
}
