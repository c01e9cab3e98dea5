//go:build linux

package posix

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/cfs-go/osal/osstatus"
)

// Streams backs the stream resource kind with real file descriptors,
// the way the teacher's internal/openat package wraps unix.Openat/
// unix.Pread/unix.Pwrite for its own file access rather than going
// through os.File.
type Streams struct {
	mu sync.Mutex
	fd map[int]int
}

// NewStreams returns an empty real-file stream backend.
func NewStreams() *Streams {
	return &Streams{fd: make(map[int]int)}
}

// Open implements adapter.StreamBackend. flags and mode are passed
// straight through to unix.Open; bit semantics match the host's own
// O_* constants rather than an OSAL-specific encoding, matching how the
// original leaves OS_File flag translation to the per-OS impl layer.
func (s *Streams) Open(slot int, localPath string, flags uint32, mode uint32) osstatus.Status {
	fd, err := unix.Open(localPath, int(flags), mode)
	if err != nil {
		return osstatus.ErrFsPathInvalid
	}
	s.mu.Lock()
	s.fd[slot] = fd
	s.mu.Unlock()
	return osstatus.SUCCESS
}

// Close implements adapter.StreamBackend.
func (s *Streams) Close(slot int) osstatus.Status {
	s.mu.Lock()
	fd, ok := s.fd[slot]
	delete(s.fd, slot)
	s.mu.Unlock()
	if !ok {
		return osstatus.ErrInvalidID
	}
	if err := unix.Close(fd); err != nil {
		return osstatus.ErrFsPathInvalid
	}
	return osstatus.SUCCESS
}

func (s *Streams) fdFor(slot int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fd, ok := s.fd[slot]
	return fd, ok
}

// Read implements adapter.StreamBackend. timeoutUsec is unused: a plain
// file descriptor read never blocks indefinitely the way a socket or
// pipe read can, so there is nothing here for a timeout to bound.
func (s *Streams) Read(slot int, buf []byte, _ int32) (int, osstatus.Status) {
	fd, ok := s.fdFor(slot)
	if !ok {
		return 0, osstatus.ErrInvalidID
	}
	n, err := unix.Read(fd, buf)
	if err != nil {
		return 0, osstatus.ErrFsPathInvalid
	}
	return n, osstatus.SUCCESS
}

// Write implements adapter.StreamBackend.
func (s *Streams) Write(slot int, data []byte, _ int32) (int, osstatus.Status) {
	fd, ok := s.fdFor(slot)
	if !ok {
		return 0, osstatus.ErrInvalidID
	}
	n, err := unix.Write(fd, data)
	if err != nil {
		return 0, osstatus.ErrFsPathInvalid
	}
	return n, osstatus.SUCCESS
}
