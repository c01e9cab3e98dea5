package adapter

import "github.com/cfs-go/osal/osstatus"

// The interfaces below are the per-resource-kind half of the platform
// adapter contract (§6.4): "per-operation *_Impl(slot, ...)". Each is
// intentionally narrow — just the primitive the wrapper in the
// corresponding top-level package needs from the host kernel — so a real
// adapter for a given kernel only has to implement the resource kinds it
// actually backs.
//
// A slot is always the array index the ID manager assigned, never the
// public handle: adapters operate purely in terms of "this row of my own
// internal table", exactly as the original C implementation's
// OS_BinSemCreate_Impl(local_id, ...) style functions do.

// TaskBackend is the platform adapter for the task resource kind.
type TaskBackend interface {
	Spawn(slot int, name string, priority uint32, stackSize uint32, entry func()) osstatus.Status
	Delete(slot int) osstatus.Status
	Delay(slot int, milliseconds uint32) osstatus.Status
}

// BinsemBackend is the platform adapter for binary semaphores.
type BinsemBackend interface {
	Create(slot int, initialValue uint32, options uint32) osstatus.Status
	Delete(slot int) osstatus.Status
	Give(slot int) osstatus.Status
	Take(slot int) osstatus.Status
	TimedWait(slot int, timeoutUsec uint32) osstatus.Status
	Flush(slot int) osstatus.Status
}

// CountSemBackend is the platform adapter for counting semaphores.
type CountSemBackend interface {
	Create(slot int, initialValue uint32, options uint32) osstatus.Status
	Delete(slot int) osstatus.Status
	Give(slot int) osstatus.Status
	Take(slot int) osstatus.Status
	TimedWait(slot int, timeoutUsec uint32) osstatus.Status
}

// MutexBackend is the platform adapter for mutex semaphores.
type MutexBackend interface {
	Create(slot int, options uint32) osstatus.Status
	Delete(slot int) osstatus.Status
	Give(slot int) osstatus.Status
	Take(slot int) osstatus.Status
}

// QueueBackend is the platform adapter for message queues.
type QueueBackend interface {
	Create(slot int, depth uint32, dataSize uint32, flags uint32) osstatus.Status
	Delete(slot int) osstatus.Status
	Put(slot int, data []byte, flags uint32) osstatus.Status
	Get(slot int, buf []byte, timeoutUsec int32) (n int, status osstatus.Status)
}

// ModuleBackend is the platform adapter for loadable modules.
type ModuleBackend interface {
	Load(slot int, path string) osstatus.Status
	Unload(slot int) osstatus.Status
}

// DirBackend is the platform adapter for directory streams.
type DirBackend interface {
	Open(slot int, localPath string) osstatus.Status
	Close(slot int) osstatus.Status
	Read(slot int) (name string, eof bool, status osstatus.Status)
	Rewind(slot int) osstatus.Status
}

// StreamBackend is the platform adapter for file/socket streams.
type StreamBackend interface {
	Open(slot int, localPath string, flags uint32, mode uint32) osstatus.Status
	Close(slot int) osstatus.Status
	Read(slot int, buf []byte, timeoutUsec int32) (n int, status osstatus.Status)
	Write(slot int, data []byte, timeoutUsec int32) (n int, status osstatus.Status)
}

// ConsoleBackend is the platform adapter for the console device.
type ConsoleBackend interface {
	Create(slot int) osstatus.Status
	Write(slot int, data []byte) osstatus.Status
}

// FileSysBackend is the platform adapter for filesystem volumes.
type FileSysBackend interface {
	StartVolume(slot int, deviceName, physDevice string, blockSize, numBlocks uint32, ramAddr uintptr) osstatus.Status
	StopVolume(slot int) osstatus.Status
	Format(slot int) osstatus.Status
	Mount(slot int, physMountPt, virtMountPt string) osstatus.Status
	Unmount(slot int) osstatus.Status
	StatVolume(slot int) (blocksFree uint32, status osstatus.Status)
}

// TimeBaseBackend is the platform adapter for timebases: the lock
// protecting a single timebase's free-run counter and callback ring
// (§4.C "Additionally, one lock per timebase"), plus lifecycle hooks.
type TimeBaseBackend interface {
	Create(slot int) osstatus.Status
	Delete(slot int) osstatus.Status
	Set(slot int, startTimeUsec, intervalTimeUsec int32) osstatus.Status
	LockTimeBase(slot int)
	UnlockTimeBase(slot int)
}
