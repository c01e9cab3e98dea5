// Package filesys implements the filesystem-volume resource wrapper
// (§4.E): Initialize/mkfs, AddFixedMap, Mount, Unmount, and
// TranslatePath, following the specific contracts spec'd for each.
package filesys

import (
	"strings"

	"github.com/cfs-go/osal/adapter"
	"github.com/cfs-go/osal/idcodec"
	"github.com/cfs-go/osal/idmgr"
	"github.com/cfs-go/osal/osstatus"
)

// Flags is the filesystem internal record's status bitmap (§3.3).
type Flags uint8

const (
	FlagReady Flags = 1 << iota
	FlagFixed
	FlagMountedSystem
	FlagMountedVirtual
)

type internalRecord struct {
	deviceName    string // key used for Create/AllocateNew name uniqueness
	volumeName    string
	physDevice    string
	sysMountPoint string // physical/system mount point
	virtMountPt   string
	blockSize     uint32
	numBlocks     uint32
	ramAddr       uintptr
	isRAM         bool
	flags         Flags
}

// Module holds the package-level state for the filesystem resource kind.
type Module struct {
	idm         *idmgr.Manager
	backend     adapter.FileSysBackend
	maxFileName int
	maxLocalLen int

	internal []internalRecord
}

// Init allocates the internal record table and registers the filesys
// type with idm. capacity is MAX_FILE_SYSTEMS; maxFileName is
// MAX_FILE_NAME; maxLocalLen is MAX_LOCAL_PATH_LEN (§6.1).
func Init(idm *idmgr.Manager, backend adapter.FileSysBackend, capacity int, maxFileName, maxLocalLen int) (*Module, error) {
	if err := idm.InitType(idcodec.TypeFileSys, capacity); err != nil {
		return nil, err
	}
	return &Module{
		idm:         idm,
		backend:     backend,
		maxFileName: maxFileName,
		maxLocalLen: maxLocalLen,
		internal:    make([]internalRecord, capacity),
	}, nil
}

// isRAMBacked reports whether volumeName or a non-zero ramAddr implies a
// volatile RAM-disk fstype default (§4.E "Filesystem — Initialize").
func isRAMBacked(volumeName string, ramAddr uintptr) bool {
	return strings.HasPrefix(volumeName, "RAM") || ramAddr != 0
}

// Initialize registers deviceName, starts its volume via the adapter,
// optionally formats it, and marks it READY only on full success (§4.E).
func (m *Module) Initialize(deviceName, volumeName string, blockSize, numBlocks uint32, ramAddr uintptr, shouldFormat bool) (idcodec.Handle, osstatus.Status) {
	if deviceName == "" {
		return idcodec.Undefined, osstatus.ErrInvalidPointer
	}
	if len(deviceName) > m.maxFileName {
		return idcodec.Undefined, osstatus.ErrFsNameTooLong
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{
		deviceName: deviceName,
		volumeName: volumeName,
		blockSize:  blockSize,
		numBlocks:  numBlocks,
		ramAddr:    ramAddr,
		isRAM:      isRAMBacked(volumeName, ramAddr),
	}
	m.idm.SetName(rec, &m.internal[slot].deviceName)

	status = m.backend.StartVolume(slot, deviceName, volumeName, blockSize, numBlocks, ramAddr)
	if status.Ok() && shouldFormat {
		if fmtStatus := m.backend.Format(slot); !fmtStatus.Ok() {
			m.backend.StopVolume(slot)
			status = fmtStatus
		}
	}
	if status.Ok() {
		m.internal[slot].flags |= FlagReady
	}
	return m.idm.FinalizeNew(idcodec.TypeFileSys, slot, status)
}

// AddFixedMap registers a pre-mounted static mapping: physPath is a
// system path already mounted outside the OSAL's control, exposed at
// virtPath. The device name is derived as physPath's last path
// component (§4.E "Filesystem — AddFixedMap").
func (m *Module) AddFixedMap(physPath, virtPath string) (idcodec.Handle, osstatus.Status) {
	deviceName := lastPathComponent(physPath)
	if deviceName == "" {
		return idcodec.Undefined, osstatus.ErrFsPathInvalid
	}
	if len(deviceName) > m.maxFileName {
		deviceName = deviceName[:m.maxFileName]
	}

	slot, rec, status := m.idm.AllocateNew(idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return idcodec.Undefined, status
	}

	m.internal[slot] = internalRecord{
		deviceName:    deviceName,
		sysMountPoint: physPath,
		virtMountPt:   virtPath,
		flags:         FlagFixed | FlagReady | FlagMountedSystem | FlagMountedVirtual,
	}
	m.idm.SetName(rec, &m.internal[slot].deviceName)

	return m.idm.FinalizeNew(idcodec.TypeFileSys, slot, osstatus.SUCCESS)
}

func lastPathComponent(p string) string {
	p = strings.TrimRight(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// Mount mounts the volume registered under deviceName at virtMountPt.
// Allowed only when the volume's flags are exactly READY (optionally
// | FIXED) (§4.E "Filesystem — mount").
func (m *Module) Mount(deviceName, physMountPt, virtMountPt string) osstatus.Status {
	slot, _, status := m.idm.GetByName(idmgr.LockGlobal, idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return status
	}
	defer m.idm.Unlock(idcodec.TypeFileSys)

	ir := &m.internal[slot]
	if ir.flags&^FlagFixed != FlagReady {
		return osstatus.ErrIncorrectObjState
	}

	if status := m.backend.Mount(slot, physMountPt, virtMountPt); !status.Ok() {
		return status
	}
	ir.sysMountPoint = physMountPt
	ir.virtMountPt = virtMountPt
	ir.flags |= FlagMountedSystem | FlagMountedVirtual
	return osstatus.SUCCESS
}

// Unmount unmounts whichever volume's virtual mount point is
// virtMountPt. Allowed only when flags are exactly
// READY|MOUNTED_SYSTEM|MOUNTED_VIRTUAL (optionally |FIXED) (§4.E
// "Filesystem — unmount").
func (m *Module) Unmount(virtMountPt string) osstatus.Status {
	slot, found := m.findByVirtMountPoint(virtMountPt)
	if !found {
		return osstatus.ErrNameNotFound
	}
	ir := &m.internal[slot]
	want := FlagReady | FlagMountedSystem | FlagMountedVirtual
	if ir.flags&^FlagFixed != want {
		return osstatus.ErrIncorrectObjState
	}
	if status := m.backend.Unmount(slot); !status.Ok() {
		return status
	}
	ir.flags &^= FlagMountedSystem | FlagMountedVirtual
	ir.virtMountPt = ""
	return osstatus.SUCCESS
}

func (m *Module) findByVirtMountPoint(virtMountPt string) (int, bool) {
	slot, _, status := m.idm.GetBySearch(idmgr.LockGlobal, idcodec.TypeFileSys, func(i int, _ *idmgr.CommonRecord) bool {
		return m.internal[i].virtMountPt == virtMountPt
	})
	if !status.Ok() {
		return 0, false
	}
	m.idm.Unlock(idcodec.TypeFileSys)
	return slot, true
}

// TranslatePath converts a virtual path into the corresponding local
// (system) path by finding the registered filesystem whose virtual
// mount point is a path-prefix of virt (§4.E "Filesystem —
// TranslatePath").
func (m *Module) TranslatePath(virt string) (string, osstatus.Status) {
	if !strings.HasPrefix(virt, "/") {
		return "", osstatus.ErrFsPathInvalid
	}
	rest := strings.TrimPrefix(virt, "/")
	if !strings.Contains(rest, "/") || strings.HasSuffix(virt, "/") {
		return "", osstatus.ErrFsPathInvalid
	}

	var bestSlot int
	bestLen := -1
	found := false

	m.idm.ForEachObject(idcodec.TypeFileSys, idcodec.Undefined, false, func(_ idcodec.Handle, slot int) {
		ir := &m.internal[slot]
		if ir.virtMountPt == "" {
			return
		}
		if !mountPointPrefixMatches(virt, ir.virtMountPt) {
			return
		}
		if len(ir.virtMountPt) > bestLen {
			bestLen = len(ir.virtMountPt)
			bestSlot = slot
			found = true
		}
	})

	if !found {
		return "", osstatus.ErrFsPathInvalid
	}

	ir := &m.internal[bestSlot]
	remainder := virt[len(ir.virtMountPt):]
	local := ir.sysMountPoint + remainder
	if len(local) > m.maxLocalLen {
		return "", osstatus.ErrFsPathTooLong
	}
	return local, osstatus.SUCCESS
}

// mountPointPrefixMatches reports whether mnt is a path-component-aware
// prefix of virt: the match must terminate on a '/' or end-of-string,
// never mid-component.
func mountPointPrefixMatches(virt, mnt string) bool {
	if !strings.HasPrefix(virt, mnt) {
		return false
	}
	if len(virt) == len(mnt) {
		return true
	}
	return virt[len(mnt)] == '/'
}

// StatVolume reports free block count for deviceName's volume.
func (m *Module) StatVolume(deviceName string) (uint32, osstatus.Status) {
	slot, _, status := m.idm.GetByName(idmgr.LockGlobal, idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return 0, status
	}
	defer m.idm.Unlock(idcodec.TypeFileSys)
	return m.backend.StatVolume(slot)
}

// RemoveFileSys tears down deviceName's volume. Per §9 Open Question
// (c), this intentionally does not require Unmount first — it stops the
// volume permissively, matching the original's behavior.
func (m *Module) RemoveFileSys(deviceName string) osstatus.Status {
	slot, _, status := m.idm.GetByName(idmgr.LockExclusive, idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return status
	}
	status = m.backend.StopVolume(slot)
	return m.idm.FinalizeDelete(idcodec.TypeFileSys, slot, status)
}

// Info is the type-specific payload a caller can inspect in addition to
// the common name/creator fields.
type Info struct {
	DeviceName  string
	VolumeName  string
	SysMountPt  string
	VirtMountPt string
	Flags       Flags
	IsRAM       bool
	Creator     idcodec.Handle
}

// GetInfo reports deviceName's full internal record.
func (m *Module) GetInfo(deviceName string) (Info, osstatus.Status) {
	slot, rec, status := m.idm.GetByName(idmgr.LockGlobal, idcodec.TypeFileSys, deviceName)
	if !status.Ok() {
		return Info{}, status
	}
	defer m.idm.Unlock(idcodec.TypeFileSys)
	ir := m.internal[slot]
	return Info{
		DeviceName:  ir.deviceName,
		VolumeName:  ir.volumeName,
		SysMountPt:  ir.sysMountPoint,
		VirtMountPt: ir.virtMountPt,
		Flags:       ir.flags,
		IsRAM:       ir.isRAM,
		Creator:     rec.Creator,
	}, osstatus.SUCCESS
}

// DeleteOne is the osal facade's deleter hook.
func (m *Module) DeleteOne(h idcodec.Handle) bool {
	slot, _, status := m.idm.GetById(idmgr.LockExclusive, idcodec.TypeFileSys, h)
	if !status.Ok() {
		return false
	}
	status = m.backend.StopVolume(slot)
	return m.idm.FinalizeDelete(idcodec.TypeFileSys, slot, status).Ok()
}

// ForEach visits every live filesystem handle.
func (m *Module) ForEach(visit func(h idcodec.Handle)) {
	m.idm.ForEachObject(idcodec.TypeFileSys, idcodec.Undefined, false, func(h idcodec.Handle, _ int) {
		visit(h)
	})
}
