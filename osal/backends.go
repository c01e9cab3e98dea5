package osal

import "github.com/cfs-go/osal/adapter"

// Backends bundles one platform-adapter implementation per resource
// kind (§6.4). A host passes a Backends value to Init; the mock adapter
// package supplies one field at a time, since it has no single
// aggregate type of its own, and a real platform adapter would do the
// same by embedding its own per-kind types here.
type Backends struct {
	Task     adapter.TaskBackend
	Queue    adapter.QueueBackend
	BinSem   adapter.BinsemBackend
	CountSem adapter.CountSemBackend
	Mutex    adapter.MutexBackend
	Stream   adapter.StreamBackend
	Dir      adapter.DirBackend
	TimeBase adapter.TimeBaseBackend
	Module   adapter.ModuleBackend
	FileSys  adapter.FileSysBackend
	Console  adapter.ConsoleBackend
}
