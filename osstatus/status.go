// Package osstatus defines the stable status codes returned across the
// OSAL API surface and the small amount of glue needed to map host-kernel
// errors onto them.
package osstatus

import (
	"fmt"
	"os"
	"syscall"
)

// Status is a signed result code. Zero means success; every other value
// is a negative error code. The numeric values are part of the public
// ABI and must not be renumbered once assigned.
type Status int32

const (
	SUCCESS Status = 0

	ERROR                  Status = -1
	ErrInvalidPointer      Status = -2
	ErrInvalidID           Status = -3
	ErrNameTooLong         Status = -4
	ErrNameNotFound        Status = -5
	ErrNameTaken           Status = -6
	ErrNoFreeIDs           Status = -7
	ErrIncorrectObjState   Status = -8
	ErrObjInUse            Status = -9
	ErrSemFailure          Status = -10
	ErrSemTimeout          Status = -11
	ErrQueueEmpty          Status = -12
	ErrQueueFull           Status = -13
	ErrQueueTimeout        Status = -14
	ErrQueueInvalidSize    Status = -15
	ErrTimerInvalidArgs    Status = -16
	ErrTimerTimerID        Status = -17
	ErrTimerUnavailable    Status = -18
	ErrFsPathTooLong       Status = -19
	ErrFsPathInvalid       Status = -20
	ErrFsNameTooLong       Status = -21
	ErrFsDeviceNotFree     Status = -22
	ErrFsDriveNotCreated   Status = -23
	ErrModuleLoadError     Status = -24
)

var names = map[Status]string{
	SUCCESS:              "SUCCESS",
	ERROR:                "ERROR",
	ErrInvalidPointer:    "INVALID_POINTER",
	ErrInvalidID:         "INVALID_ID",
	ErrNameTooLong:       "ERR_NAME_TOO_LONG",
	ErrNameNotFound:      "ERR_NAME_NOT_FOUND",
	ErrNameTaken:         "ERR_NAME_TAKEN",
	ErrNoFreeIDs:         "ERR_NO_FREE_IDS",
	ErrIncorrectObjState: "ERR_INCORRECT_OBJ_STATE",
	ErrObjInUse:          "ERR_OBJ_IN_USE",
	ErrSemFailure:        "SEM_FAILURE",
	ErrSemTimeout:        "SEM_TIMEOUT",
	ErrQueueEmpty:        "QUEUE_EMPTY",
	ErrQueueFull:         "QUEUE_FULL",
	ErrQueueTimeout:      "QUEUE_TIMEOUT",
	ErrQueueInvalidSize:  "QUEUE_INVALID_SIZE",
	ErrTimerInvalidArgs:  "TIMER_ERR_INVALID_ARGS",
	ErrTimerTimerID:      "TIMER_ERR_TIMER_ID",
	ErrTimerUnavailable:  "TIMER_ERR_UNAVAILABLE",
	ErrFsPathTooLong:     "FS_ERR_PATH_TOO_LONG",
	ErrFsPathInvalid:     "FS_ERR_PATH_INVALID",
	ErrFsNameTooLong:     "FS_ERR_NAME_TOO_LONG",
	ErrFsDeviceNotFree:   "FS_ERR_DEVICE_NOT_FREE",
	ErrFsDriveNotCreated: "FS_ERR_DRIVE_NOT_CREATED",
	ErrModuleLoadError:   "MODULE_LOAD_ERROR",
}

func (s Status) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("%d", int32(s))
}

// Ok reports whether s is SUCCESS.
func (s Status) Ok() bool {
	return s == SUCCESS
}

// Error implements the error interface so a Status can be returned
// through ordinary Go error-handling paths when that is more convenient
// for a caller than checking Ok() directly.
func (s Status) Error() string {
	return s.String()
}

// FromErrno maps a POSIX-like adapter error onto the closest Status.
// Adapters that wrap a host kernel's errno values funnel through here
// rather than each inventing their own mapping.
func FromErrno(err error) Status {
	switch err {
	case nil:
		return SUCCESS
	case os.ErrPermission:
		return ERROR
	case os.ErrExist:
		return ErrNameTaken
	case os.ErrNotExist:
		return ErrNameNotFound
	case os.ErrInvalid:
		return ErrInvalidPointer
	}

	switch t := err.(type) {
	case syscall.Errno:
		switch t {
		case syscall.ENOENT:
			return ErrNameNotFound
		case syscall.EEXIST:
			return ErrNameTaken
		case syscall.EBUSY:
			return ErrObjInUse
		case syscall.ETIMEDOUT:
			return ErrSemTimeout
		default:
			return ERROR
		}
	case *os.SyscallError:
		return FromErrno(t.Err)
	case *os.PathError:
		return FromErrno(t.Err)
	case *os.LinkError:
		return FromErrno(t.Err)
	}
	return ERROR
}
