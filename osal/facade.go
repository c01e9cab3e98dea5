package osal

import (
	"github.com/cfs-go/osal/binsem"
	"github.com/cfs-go/osal/console"
	"github.com/cfs-go/osal/countsem"
	"github.com/cfs-go/osal/dir"
	"github.com/cfs-go/osal/filesys"
	"github.com/cfs-go/osal/idcodec"
	mod "github.com/cfs-go/osal/module"
	"github.com/cfs-go/osal/mutex"
	"github.com/cfs-go/osal/osstatus"
	"github.com/cfs-go/osal/queue"
	"github.com/cfs-go/osal/stream"
	"github.com/cfs-go/osal/task"
	"github.com/cfs-go/osal/timebase"
)

// The methods in this file are the single top-level Create/Delete
// surface a host binary actually calls (§4.G): thin, uninteresting
// passthroughs to the resource-wrapper package the facade wired up in
// Init. They exist so a host never has to import all eleven wrapper
// packages itself just to call OSAL the way a real flight application
// would — one import, one Manager.

// Task exposes the task-resource wrapper.
func (m *Manager) Task() *task.Module { return m.task }

// Queue exposes the message-queue wrapper.
func (m *Manager) Queue() *queue.Module { return m.queue }

// BinSem exposes the binary-semaphore wrapper.
func (m *Manager) BinSem() *binsem.Module { return m.binsem }

// CountSem exposes the counting-semaphore wrapper.
func (m *Manager) CountSem() *countsem.Module { return m.countsem }

// Mutex exposes the mutex-semaphore wrapper.
func (m *Manager) Mutex() *mutex.Module { return m.mutex }

// Stream exposes the file/socket stream wrapper.
func (m *Manager) Stream() *stream.Module { return m.stream }

// Dir exposes the directory-stream wrapper.
func (m *Manager) Dir() *dir.Module { return m.dir }

// TimeBase exposes the timebase/timer-callback wrapper.
func (m *Manager) TimeBase() *timebase.Module { return m.timebase }

// ModuleWrapper exposes the loadable-module wrapper.
func (m *Manager) ModuleWrapper() *mod.Module { return m.module }

// FileSys exposes the filesystem wrapper.
func (m *Manager) FileSys() *filesys.Module { return m.filesys }

// Console exposes the console wrapper.
func (m *Manager) Console() *console.Module { return m.console }

// GetIdByName resolves name against the task, queue, binsem, countsem,
// mutex and module registries, in that order, stopping at the first
// match; filesystems, timebases and timers are not searched. It mirrors the constraint that
// OSAL names are unique only within a resource kind, not globally: if
// two kinds happen to share a name, the first kind checked below wins,
// matching the original implementation's fixed per-API lookup order.
func (m *Manager) GetIdByName(name string) (idcodec.Handle, osstatus.Status) {
	lookups := []func(string) (idcodec.Handle, osstatus.Status){
		m.task.GetIdByName,
		m.queue.GetIdByName,
		m.binsem.GetIdByName,
		m.countsem.GetIdByName,
		m.mutex.GetIdByName,
		m.module.GetIdByName,
	}
	for _, lookup := range lookups {
		if h, status := lookup(name); status == osstatus.SUCCESS {
			return h, status
		}
	}
	return idcodec.Undefined, osstatus.ErrNameNotFound
}
