//go:build linux

package posix

import (
	"github.com/cfs-go/osal/adapter/mock"
	"github.com/cfs-go/osal/osal"
)

// NewBackends assembles one of each posix/mock-backed implementation
// into an osal.Backends, the way a host's main package would wire a
// real Linux build of the facade.
func NewBackends() osal.Backends {
	fs := NewFileSystems()
	return osal.Backends{
		Task:     NewTasks(),
		Queue:    NewQueues(),
		BinSem:   NewSemaphores(),
		CountSem: NewCountingSemaphores(NewSemaphores()),
		Mutex:    NewMutexes(),
		Stream:   NewStreams(),
		Dir:      NewDirs(),
		TimeBase: NewTimeBases(),
		Module:   NewModules(),
		FileSys:  fs,
		Console:  NewConsole(),
	}
}

// NewCountingSemaphores forwards to the mock adapter's counting-view
// wrapper (§ adapter/mock/backends.go) for the same reason compose.go's
// other aliases do.
func NewCountingSemaphores(sem *Semaphores) *mock.CountingSemaphores {
	return mock.NewCountingSemaphores(sem)
}
