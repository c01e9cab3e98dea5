package timebase_test

import (
	"testing"
	"time"

	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
	"github.com/cfs-go/osal/timebase"
)

func newModule(t *testing.T) (*timebase.Module, chan int32) {
	t.Helper()
	ticks := make(chan int32)
	sync := func() (int32, bool) {
		v, ok := <-ticks
		if !ok {
			return 0, true
		}
		return v, false
	}

	idm := idmgr.NewManager(mock.NewLocks(), mock.Clock{}, mock.NewTasks())
	m, err := timebase.Init(idm, mock.NewTimeBases(), mock.NewTasks(), mock.Clock{}, 4, 8)
	if err != nil {
		t.Fatal(err)
	}

	h, status := m.CreateTimeBase("tb", sync)
	if status != osstatus.SUCCESS {
		t.Fatalf("CreateTimeBase = %v", status)
	}
	_ = h
	return m, ticks
}

// TestOneShotFiresOnceAtTickThree exercises the one-shot half of S6.
func TestOneShotFiresOnceAtTickThree(t *testing.T) {
	m, ticks := newModule(t)
	defer close(ticks)

	var tbHandle idcodec.Handle
	m.ForEachTimeBase(func(h idcodec.Handle) { tbHandle = h })

	fired := make(chan struct{}, 10)
	timerHandle, status := m.CreateTimer(tbHandle, "oneshot", func(idcodec.Handle, interface{}) {
		fired <- struct{}{}
	}, nil)
	if status != osstatus.SUCCESS {
		t.Fatalf("CreateTimer = %v", status)
	}
	if status := m.Set(timerHandle, 2500, 0); status != osstatus.SUCCESS {
		t.Fatalf("Set = %v", status)
	}

	for i := 0; i < 2; i++ {
		ticks <- 1000
		select {
		case <-fired:
			t.Fatalf("timer fired early on tick %d", i+1)
		case <-time.After(50 * time.Millisecond):
		}
	}

	ticks <- 1000 // tick #3: crosses zero, must fire
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired by tick #3")
	}

	for i := 0; i < 3; i++ {
		ticks <- 1000
		select {
		case <-fired:
			t.Fatalf("one-shot timer fired again on tick %d", i+4)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// TestPeriodicFiresEveryTick exercises the periodic half of S6.
func TestPeriodicFiresEveryTick(t *testing.T) {
	m, ticks := newModule(t)
	defer close(ticks)

	var tbHandle idcodec.Handle
	m.ForEachTimeBase(func(h idcodec.Handle) { tbHandle = h })

	fired := make(chan struct{}, 10)
	timerHandle, status := m.CreateTimer(tbHandle, "periodic", func(idcodec.Handle, interface{}) {
		fired <- struct{}{}
	}, nil)
	if status != osstatus.SUCCESS {
		t.Fatalf("CreateTimer = %v", status)
	}
	if status := m.Set(timerHandle, 1000, 1000); status != osstatus.SUCCESS {
		t.Fatalf("Set = %v", status)
	}

	for i := 0; i < 5; i++ {
		ticks <- 1000
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatalf("periodic timer failed to fire on tick %d", i+1)
		}
	}
}

func TestFreeRunTimeAccumulates(t *testing.T) {
	m, ticks := newModule(t)
	defer close(ticks)

	var tbHandle idcodec.Handle
	m.ForEachTimeBase(func(h idcodec.Handle) { tbHandle = h })

	ticks <- 1000
	ticks <- 2000
	// Push one more tick through so we know the previous two have
	// definitely been applied before we read freerun time.
	ticks <- 0
	time.Sleep(20 * time.Millisecond)

	v, status := m.FreeRunTime(tbHandle)
	if status != osstatus.SUCCESS {
		t.Fatalf("FreeRunTime = %v", status)
	}
	if v != 3000 {
		t.Errorf("FreeRunTime = %d, want 3000", v)
	}
}
