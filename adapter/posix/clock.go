//go:build linux

// Package posix implements the platform-adapter contract (§6.4) against
// a real POSIX/Linux host using golang.org/x/sys/unix, in the style of
// the teacher's fs/loopback_linux.go and internal/openat packages: raw
// syscalls wrapped in small, single-purpose functions rather than a
// general-purpose VFS layer. It is guarded to Linux hosts the same way
// the teacher's own *_linux.go files are, via a build constraint, since
// several of the syscalls used (Mount, Unmount) have no portable
// equivalent.
package posix

import (
	"time"

	"golang.org/x/sys/unix"
)

// Clock sleeps via unix.Nanosleep rather than time.Sleep, matching how
// the teacher's own code reaches for the raw syscall layer instead of
// the runtime-scheduled equivalent whenever it is already this deep in
// platform-specific territory.
type Clock struct{}

// Sleep blocks for d using unix.Nanosleep, retrying across EINTR.
func (Clock) Sleep(d time.Duration) {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	for {
		rem := &unix.Timespec{}
		err := unix.Nanosleep(&ts, rem)
		if err != unix.EINTR {
			return
		}
		ts = *rem
	}
}
