// Package osal is the facade package that wires the shared idmgr core
// together with the platform adapter and every resource-wrapper package,
// re-exporting the single top-level Create/Delete surface a host binary
// actually calls (§4.G). Resource wrappers never import this package;
// this package imports all of them, which is what keeps the dependency
// graph acyclic (mirrors how osapi.c in the original source is the only
// translation unit that pulls in every os-impl module).
package osal

import (
	"fmt"

	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/binsem"
	"github.com/cfs-go/osal/console"
	"github.com/cfs-go/osal/countsem"
	"github.com/cfs-go/osal/dir"
	"github.com/cfs-go/osal/filesys"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	mod "github.com/cfs-go/osal/module"
	"github.com/cfs-go/osal/mutex"
	"github.com/cfs-go/osal/queue"
	"github.com/cfs-go/osal/stream"
	"github.com/cfs-go/osal/task"
	"github.com/cfs-go/osal/timebase"
)

// deleter is the uniform per-type hook the facade uses for
// DeleteAllObjects and ForEachObject (§4.G): every resource-wrapper
// package registers one at Init time instead of the facade switching on
// type by hand.
type deleter struct {
	// deleteOne attempts to tear down the single live object named by
	// handle, returning true if it actually removed something.
	deleteOne func(h idcodec.Handle) bool
	// forEach visits every live handle of this wrapper's type.
	forEach func(visit func(h idcodec.Handle))
}

// Manager is the process-wide facade: the shared idmgr core, the
// platform adapter's process-scope primitives, and the bookkeeping
// needed to answer "delete everything" / "visit every object" without
// the facade knowing any wrapper's internal record layout.
type Manager struct {
	globals sharedGlobals

	idm     *idmgr.Manager
	lock    adapter.GlobalLock
	clock   adapter.Clock
	taskCtx adapter.TaskContext

	config Config

	deleters map[idcodec.Type]*deleter

	task     *task.Module
	queue    *queue.Module
	binsem   *binsem.Module
	countsem *countsem.Module
	mutex    *mutex.Module
	stream   *stream.Module
	dir      *dir.Module
	timebase *timebase.Module
	module   *mod.Module
	filesys  *filesys.Module
	console  *console.Module
}

// newManager builds an uninitialized facade around the given adapter
// primitives. It is unexported: host code always goes through Init,
// which both builds and wires the Manager in one step (§4.G "API_Init").
func newManager(lock adapter.GlobalLock, clock adapter.Clock, taskCtx adapter.TaskContext, cfg Config) *Manager {
	return &Manager{
		idm:      idmgr.NewManager(lock, clock, taskCtx),
		lock:     lock,
		clock:    clock,
		taskCtx:  taskCtx,
		config:   cfg,
		deleters: make(map[idcodec.Type]*deleter),
	}
}

// IDManager returns the shared idmgr.Manager instance resource wrappers
// are Init'd against. Host code wires wrappers with this during Init;
// wrapper packages themselves never reach back into Manager.
func (m *Manager) IDManager() *idmgr.Manager { return m.idm }

// registerDeleter records t's wrapper-provided teardown/enumeration
// hooks. Called once per type from Init, after each wrapper package's
// own Init.
func (m *Manager) registerDeleter(t idcodec.Type, d *deleter) {
	m.deleters[t] = d
}

// ForEachObject visits every live handle of type t in slot-index order,
// exactly mirroring idmgr.Manager.ForEachObject's "no lock held during
// the callback" guarantee (§4.D.7), but expressed over the public
// handle surface rather than idmgr's internal slot numbers.
func (m *Manager) ForEachObject(t idcodec.Type, visit func(h idcodec.Handle)) error {
	d, ok := m.deleters[t]
	if !ok {
		return fmt.Errorf("osal: type %v was never initialized", t)
	}
	d.forEach(visit)
	return nil
}

// DeleteAllObjects tears down every live object of every registered
// type (§4.G, §9 Open Question (a)): up to 5 passes, a short pause
// between passes, stopping early once a pass makes no progress. Later
// types are visited before earlier ones so resources that hold other
// resources open (e.g. a timebase owning timer callbacks) get a chance
// to release them first.
func (m *Manager) DeleteAllObjects() {
	const maxPasses = 5

	for pass := 0; pass < maxPasses; pass++ {
		progressed := false

		for t := idcodec.Type(idcodec.NumTypes); t >= 1; t-- {
			d, ok := m.deleters[t]
			if !ok {
				continue
			}
			var live []idcodec.Handle
			d.forEach(func(h idcodec.Handle) { live = append(live, h) })
			for _, h := range live {
				if d.deleteOne(h) {
					progressed = true
				}
			}
		}

		if !progressed {
			return
		}
		if pass < maxPasses-1 {
			m.clock.Sleep(exclusiveRetryPause)
		}
	}
}
