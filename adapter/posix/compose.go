//go:build linux

package posix

import "github.com/cfs-go/osal/adapter/mock"

// Semaphores, Mutexes, Queues, TimeBases, Modules, and Console are
// re-exported directly from adapter/mock: none of golang.org/x/sys/unix
// gives a portable, non-cgo path to a real kernel semaphore, mutex,
// message queue, or dynamic loader primitive, so there is nothing a
// "real" syscall-backed implementation would do differently from the
// mock adapter's goroutine/channel primitives — both are the same
// in-process Go runtime underneath. Only the resource kinds that touch
// an actual kernel object (files, directories, mounts, tasks) get their
// own posix-specific implementation in this package.
type (
	Semaphores = mock.Semaphores
	Mutexes    = mock.Mutexes
	Queues     = mock.Queues
	TimeBases  = mock.TimeBases
	Modules    = mock.Modules
	Console    = mock.Console
)

// NewSemaphores, NewMutexes, NewQueues, NewTimeBases, NewModules, and
// NewConsole forward to the mock adapter's constructors for the same
// reason.
var (
	NewSemaphores = mock.NewSemaphores
	NewMutexes    = mock.NewMutexes
	NewQueues     = mock.NewQueues
	NewTimeBases  = mock.NewTimeBases
	NewModules    = mock.NewModules
	NewConsole    = mock.NewConsole
)
