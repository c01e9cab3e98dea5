//go:build linux

package posix

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/cfs-go/osal/osstatus"
)

// Dirs backs the directory-stream resource kind with unix.ReadDirent
// over a real directory file descriptor, the same primitive the
// teacher's fs/dirstream_unix.go builds its own directory reader on top
// of.
type Dirs struct {
	mu    sync.Mutex
	state map[int]*dirState
}

type dirState struct {
	fd      int
	entries []string
	pos     int
}

// NewDirs returns an empty real-directory backend.
func NewDirs() *Dirs {
	return &Dirs{state: make(map[int]*dirState)}
}

// Open implements adapter.DirBackend: opens localPath and slurps its
// entire entry list up front via unix.ReadDirent, trading streaming
// reads for a Read/Rewind implementation simple enough to match the
// wrapper's synchronous contract.
func (d *Dirs) Open(slot int, localPath string) osstatus.Status {
	fd, err := unix.Open(localPath, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return osstatus.ErrFsPathInvalid
	}

	var names []string
	buf := make([]byte, 4096)
	for {
		n, err := unix.ReadDirent(fd, buf)
		if err != nil || n <= 0 {
			break
		}
		_, _, newNames := unix.ParseDirent(buf[:n], -1, names)
		names = newNames
	}

	d.mu.Lock()
	d.state[slot] = &dirState{fd: fd, entries: names}
	d.mu.Unlock()
	return osstatus.SUCCESS
}

// Close implements adapter.DirBackend.
func (d *Dirs) Close(slot int) osstatus.Status {
	d.mu.Lock()
	st, ok := d.state[slot]
	delete(d.state, slot)
	d.mu.Unlock()
	if !ok {
		return osstatus.ErrInvalidID
	}
	unix.Close(st.fd)
	return osstatus.SUCCESS
}

// Read implements adapter.DirBackend.
func (d *Dirs) Read(slot int) (string, bool, osstatus.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.state[slot]
	if !ok {
		return "", false, osstatus.ErrInvalidID
	}
	if st.pos >= len(st.entries) {
		return "", true, osstatus.SUCCESS
	}
	name := st.entries[st.pos]
	st.pos++
	return name, false, osstatus.SUCCESS
}

// Rewind implements adapter.DirBackend.
func (d *Dirs) Rewind(slot int) osstatus.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.state[slot]
	if !ok {
		return osstatus.ErrInvalidID
	}
	st.pos = 0
	return osstatus.SUCCESS
}
