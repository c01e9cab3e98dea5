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
	"github.com/cfs-go/osal/queue"
	"github.com/cfs-go/osal/stream"
	"github.com/cfs-go/osal/task"
	"github.com/cfs-go/osal/timebase"
)

// wire constructs every resource-wrapper package against m.idm and the
// matching field of b, and registers each one's deleter hooks so
// DeleteAllObjects/ForEachObject dispatch across the whole facade
// (§4.G). It is called exactly once, from Init.
func (m *Manager) wire(b Backends) error {
	var err error

	if m.task, err = task.Init(m.idm, b.Task, m.taskCtx, m.config.MaxTasks); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeTask, &deleter{deleteOne: m.task.DeleteOne, forEach: m.task.ForEach})

	if m.queue, err = queue.Init(m.idm, b.Queue, m.config.MaxQueues, uint32(m.config.QueueMaxDepth)); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeQueue, &deleter{deleteOne: m.queue.DeleteOne, forEach: m.queue.ForEach})

	if m.binsem, err = binsem.Init(m.idm, b.BinSem, m.config.MaxBinSemaphores); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeBinSem, &deleter{deleteOne: m.binsem.DeleteOne, forEach: m.binsem.ForEach})

	if m.countsem, err = countsem.Init(m.idm, b.CountSem, m.config.MaxCountSemaphores); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeCountSem, &deleter{deleteOne: m.countsem.DeleteOne, forEach: m.countsem.ForEach})

	if m.mutex, err = mutex.Init(m.idm, b.Mutex, m.config.MaxMutexes); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeMutex, &deleter{deleteOne: m.mutex.DeleteOne, forEach: m.mutex.ForEach})

	if m.stream, err = stream.Init(m.idm, b.Stream, m.config.MaxOpenFiles); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeStream, &deleter{deleteOne: m.stream.DeleteOne, forEach: m.stream.ForEach})

	if m.dir, err = dir.Init(m.idm, b.Dir, m.config.MaxOpenDirs); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeDir, &deleter{deleteOne: m.dir.DeleteOne, forEach: m.dir.ForEach})

	if m.timebase, err = timebase.Init(m.idm, b.TimeBase, m.taskCtx, m.clock, m.config.MaxTimeBases, m.config.MaxTimers); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeTimeBase, &deleter{deleteOne: m.timebase.DeleteOneTimeBase, forEach: m.timebase.ForEachTimeBase})
	m.registerDeleter(idcodec.TypeTimerCb, &deleter{deleteOne: m.timebase.DeleteOneTimer, forEach: m.timebase.ForEachTimer})

	if m.module, err = mod.Init(m.idm, b.Module, m.config.MaxModules); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeModule, &deleter{deleteOne: m.module.DeleteOne, forEach: m.module.ForEach})

	if m.filesys, err = filesys.Init(m.idm, b.FileSys, m.config.MaxFileSystems, m.config.MaxFileName, m.config.MaxLocalPathLen); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeFileSys, &deleter{deleteOne: m.filesys.DeleteOne, forEach: m.filesys.ForEach})

	if m.console, err = console.Init(m.idm, b.Console, m.config.MaxConsoles); err != nil {
		return err
	}
	m.registerDeleter(idcodec.TypeConsole, &deleter{deleteOne: m.console.DeleteOne, forEach: m.console.ForEach})

	return nil
}
