package idmgr

// LockMode is a caller-declared intent for a lookup or allocation (§4.D.1),
// determining whether the type-lock is retained on return and whether
// the record's refcount is incremented.
type LockMode int

const (
	// LockNone takes the type-lock only briefly to resolve the handle;
	// returns unlocked with no refcount change.
	LockNone LockMode = iota

	// LockGlobal takes the type-lock and, on success, leaves it held
	// for the caller to release explicitly via Manager.Unlock.
	LockGlobal

	// LockExclusive is like LockGlobal but additionally requires
	// Refcount == 0, retrying a bounded number of times if it is not.
	LockExclusive

	// LockRefcount increments Refcount on success and returns with the
	// type-lock already released.
	LockRefcount
)

func (m LockMode) String() string {
	switch m {
	case LockNone:
		return "NONE"
	case LockGlobal:
		return "GLOBAL"
	case LockExclusive:
		return "EXCLUSIVE"
	case LockRefcount:
		return "REFCOUNT"
	default:
		return "UNKNOWN"
	}
}
