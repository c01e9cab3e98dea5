//go:build linux

package posix

import (
	"sync"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"

	"github.com/cfs-go/osal/osstatus"
)

// FileSystems is the real-kernel counterpart of adapter/mock's in-memory
// volume map: StartVolume/Mount/Unmount drive the actual Linux mount
// table via unix.Mount/unix.Unmount, and StatVolume cross-checks the
// result against /proc/self/mountinfo via mountinfo.GetMounts the way a
// debug build of the filesys wrapper wants to (§ SPEC_FULL.md DOMAIN
// STACK).
type FileSystems struct {
	mu      sync.Mutex
	volumes map[int]*posixVolume
}

type posixVolume struct {
	physDevice  string
	virtMountPt string
}

// NewFileSystems returns an empty real-kernel filesystem backend.
func NewFileSystems() *FileSystems {
	return &FileSystems{volumes: make(map[int]*posixVolume)}
}

// StartVolume implements adapter.FileSysBackend. The mock adapter models
// a volume purely in memory; here a volume is just bookkeeping until
// Mount actually attaches physDevice somewhere, matching how the
// original's OS_FileSysStartVolume_Impl is a no-op for disk-backed
// filesystems and only RAM disks do real work at this step.
func (f *FileSystems) StartVolume(slot int, _ string, physDevice string, _, _ uint32, _ uintptr) osstatus.Status {
	f.mu.Lock()
	f.volumes[slot] = &posixVolume{physDevice: physDevice}
	f.mu.Unlock()
	return osstatus.SUCCESS
}

// StopVolume implements adapter.FileSysBackend.
func (f *FileSystems) StopVolume(slot int) osstatus.Status {
	f.mu.Lock()
	delete(f.volumes, slot)
	f.mu.Unlock()
	return osstatus.SUCCESS
}

// Format implements adapter.FileSysBackend. Formatting an arbitrary
// block device is outside what this adapter attempts; a real flight
// build would shell out to mkfs.* here. This mock-of-a-mock just reports
// success so Initialize's rollback path can still be exercised against
// a real Mount failure.
func (f *FileSystems) Format(_ int) osstatus.Status {
	return osstatus.SUCCESS
}

// Mount implements adapter.FileSysBackend with a real bind mount:
// physMountPt must already exist and be a directory.
func (f *FileSystems) Mount(slot int, physMountPt, virtMountPt string) osstatus.Status {
	if err := unix.Mount(physMountPt, physMountPt, "", unix.MS_BIND, ""); err != nil {
		return osstatus.ErrFsDriveNotCreated
	}
	f.mu.Lock()
	if v, ok := f.volumes[slot]; ok {
		v.virtMountPt = virtMountPt
	}
	f.mu.Unlock()
	return osstatus.SUCCESS
}

// Unmount implements adapter.FileSysBackend.
func (f *FileSystems) Unmount(slot int) osstatus.Status {
	f.mu.Lock()
	v, ok := f.volumes[slot]
	f.mu.Unlock()
	if !ok {
		return osstatus.ErrFsDriveNotCreated
	}
	if err := unix.Unmount(v.physDevice, 0); err != nil {
		return osstatus.ErrFsDriveNotCreated
	}
	return osstatus.SUCCESS
}

// StatVolume implements adapter.FileSysBackend via unix.Statfs, then
// cross-checks that the kernel actually reports the mount as present
// using mountinfo.GetMounts — catching the case where Mount reported
// success but the mount later vanished underneath the process (a lazy
// unmount by another process, a container namespace change), the drift
// scenario SPEC_FULL.md's DOMAIN STACK section calls out for mountinfo.
func (f *FileSystems) StatVolume(slot int) (uint32, osstatus.Status) {
	f.mu.Lock()
	v, ok := f.volumes[slot]
	f.mu.Unlock()
	if !ok {
		return 0, osstatus.ErrFsDriveNotCreated
	}

	var st unix.Statfs_t
	if err := unix.Statfs(v.physDevice, &st); err != nil {
		return 0, osstatus.ErrFsDriveNotCreated
	}

	if v.virtMountPt != "" {
		mounts, err := mountinfo.GetMounts(mountinfo.SingleEntryFilter(v.physDevice))
		if err == nil && len(mounts) == 0 {
			// The core's own bookkeeping still thinks this is mounted,
			// but the kernel's mount table disagrees.
			return 0, osstatus.ErrFsPathInvalid
		}
	}

	return uint32(st.Bfree), osstatus.SUCCESS
}
