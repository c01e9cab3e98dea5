// Package adapter defines the platform-adapter contract (§6.4): the set
// of kernel-specific primitives the shared ID-manager and resource
// wrappers delegate to. Concrete adapters (one per host kernel) live
// outside this module; adapter/mock provides a pure-Go implementation
// used by tests and by hosts with no native kernel at all.
package adapter

import (
	"time"

	"github.com/cfs-go/osal/idcodec"
)

// GlobalLock is the per-resource-type lock the ID manager acquires
// before touching a type's common-record table (§4.C). Implementations
// must not be re-entrant: a second LockGlobal for the same type from the
// same goroutine before UnlockGlobal is a bug in the caller, not
// something the lock is expected to tolerate.
type GlobalLock interface {
	LockGlobal(t idcodec.Type)
	UnlockGlobal(t idcodec.Type)
}

// Clock provides the short, platform-defined sleep used by the bounded
// EXCLUSIVE-mode retry loop (§4.D.1) and the timebase servicing task's
// spin-limit handling (§4.F).
type Clock interface {
	Sleep(d time.Duration)
}

// TaskContext answers "what is the calling task's handle". The ID
// manager stamps this into a new record's Creator field, and the
// timebase wrapper uses it to refuse timer-configuration calls made from
// within a timebase callback (§4.F Contracts, §6.4 TaskGetId_Impl).
type TaskContext interface {
	CurrentTask() idcodec.Handle

	// Register associates the calling goroutine with h for the
	// duration of a timebase servicing loop (§6.4 TaskRegister_Impl),
	// so a later CurrentTask() call made from inside a callback
	// reports the timebase rather than whatever task originally
	// created it.
	Register(h idcodec.Handle)
}
