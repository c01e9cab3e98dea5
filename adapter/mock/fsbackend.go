package mock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cfs-go/osal/osstatus"
)

func timeAfterMs(ms uint32) <-chan time.Time {
	return time.After(time.Duration(ms) * time.Millisecond)
}

// FileSystems is an in-memory stand-in for a real block-device-backed
// filesystem adapter: each mounted volume is just a map of local path to
// bytes, kept in the process. It exists so filesys.Mount/Unmount/
// TranslatePath and dir/stream reads can be exercised without a real
// disk.
type FileSystems struct {
	mu      sync.Mutex
	volumes map[int]*volume
}

type volume struct {
	files map[string][]byte
	dirs  map[string][]string // local dir path -> child names
}

// NewFileSystems returns an empty filesystem backend.
func NewFileSystems() *FileSystems {
	return &FileSystems{volumes: make(map[int]*volume)}
}

// StartVolume implements adapter.FileSysBackend.
func (f *FileSystems) StartVolume(slot int, _ string, _ string, _ uint32, _ uint32, _ uintptr) osstatus.Status {
	f.mu.Lock()
	f.volumes[slot] = &volume{files: map[string][]byte{}, dirs: map[string][]string{"": nil}}
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

// Format implements adapter.FileSysBackend by clearing the volume's
// contents.
func (f *FileSystems) Format(slot int) osstatus.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.volumes[slot]
	if !ok {
		return osstatus.ErrFsDriveNotCreated
	}
	v.files = map[string][]byte{}
	v.dirs = map[string][]string{"": nil}
	return osstatus.SUCCESS
}

// Mount and Unmount implement adapter.FileSysBackend; this mock has no
// separate kernel-side mount table to update, so they are no-ops beyond
// existence checks.
func (f *FileSystems) Mount(slot int, _ string, _ string) osstatus.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.volumes[slot]; !ok {
		return osstatus.ErrFsDriveNotCreated
	}
	return osstatus.SUCCESS
}

func (f *FileSystems) Unmount(slot int) osstatus.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.volumes[slot]; !ok {
		return osstatus.ErrFsDriveNotCreated
	}
	return osstatus.SUCCESS
}

// StatVolume implements adapter.FileSysBackend with a synthetic,
// always-available block count.
func (f *FileSystems) StatVolume(slot int) (uint32, osstatus.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.volumes[slot]; !ok {
		return 0, osstatus.ErrFsDriveNotCreated
	}
	return 1 << 16, osstatus.SUCCESS
}

// WriteFile and ReadFile let tests populate/inspect a mounted volume's
// contents directly; they are test conveniences, not part of the
// adapter contract.
func (f *FileSystems) WriteFile(slot int, localPath string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.volumes[slot]
	if !ok {
		return fmt.Errorf("mock: no such volume slot %d", slot)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	v.files[localPath] = cp
	dir := parentDir(localPath)
	name := localPath[len(dir):]
	name = strings.TrimPrefix(name, "/")
	v.dirs[dir] = appendUnique(v.dirs[dir], name)
	return nil
}

func parentDir(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx <= 0 {
		return ""
	}
	return p[:idx]
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Dirs is an in-memory directory-stream backend layered over
// FileSystems: Open/Read walk the same volume map Streams reads from.
type Dirs struct {
	fs *FileSystems

	mu    sync.Mutex
	state map[int]*dirState
}

type dirState struct {
	volSlot int
	names   []string
	pos     int
}

// NewDirs returns a directory backend layered over fs.
func NewDirs(fs *FileSystems) *Dirs {
	return &Dirs{fs: fs, state: make(map[int]*dirState)}
}

// BindVolume records volSlot on an open directory's state. Nothing in
// this module calls it, and Open, Read and Rewind do not consult the
// recorded volume slot.
func (d *Dirs) BindVolume(slot int, volSlot int) {
	d.mu.Lock()
	if st, ok := d.state[slot]; ok {
		st.volSlot = volSlot
	}
	d.mu.Unlock()
}

// Open implements adapter.DirBackend.
func (d *Dirs) Open(slot int, localPath string) osstatus.Status {
	d.fs.mu.Lock()
	var names []string
	found := false
	for _, v := range d.fs.volumes {
		if n, ok := v.dirs[localPath]; ok {
			names = n
			found = true
			break
		}
	}
	d.fs.mu.Unlock()
	if !found {
		return osstatus.ErrFsPathInvalid
	}

	d.mu.Lock()
	d.state[slot] = &dirState{names: names}
	d.mu.Unlock()
	return osstatus.SUCCESS
}

// Close implements adapter.DirBackend.
func (d *Dirs) Close(slot int) osstatus.Status {
	d.mu.Lock()
	delete(d.state, slot)
	d.mu.Unlock()
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
	if st.pos >= len(st.names) {
		return "", true, osstatus.SUCCESS
	}
	name := st.names[st.pos]
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

// Streams is an in-memory byte-buffer-backed stream (file) backend.
type Streams struct {
	fs *FileSystems

	mu    sync.Mutex
	state map[int]*streamState
}

type streamState struct {
	path string
	pos  int
	vol  *volume
}

// NewStreams returns a stream backend layered over fs.
func NewStreams(fs *FileSystems) *Streams {
	return &Streams{fs: fs, state: make(map[int]*streamState)}
}

// Open implements adapter.StreamBackend. flags bit 0 set means
// create-if-missing, matching the conventional O_CREAT position.
func (s *Streams) Open(slot int, localPath string, flags uint32, _ uint32) osstatus.Status {
	s.fs.mu.Lock()
	var v *volume
	for _, cand := range s.fs.volumes {
		if _, ok := cand.files[localPath]; ok {
			v = cand
			break
		}
	}
	if v == nil {
		for _, cand := range s.fs.volumes {
			v = cand
			break
		}
		if v != nil {
			if flags&1 != 0 {
				v.files[localPath] = nil
			} else {
				s.fs.mu.Unlock()
				return osstatus.ErrFsPathInvalid
			}
		}
	}
	s.fs.mu.Unlock()

	if v == nil {
		return osstatus.ErrFsDriveNotCreated
	}

	s.mu.Lock()
	s.state[slot] = &streamState{path: localPath, vol: v}
	s.mu.Unlock()
	return osstatus.SUCCESS
}

// Close implements adapter.StreamBackend.
func (s *Streams) Close(slot int) osstatus.Status {
	s.mu.Lock()
	delete(s.state, slot)
	s.mu.Unlock()
	return osstatus.SUCCESS
}

// Read implements adapter.StreamBackend.
func (s *Streams) Read(slot int, buf []byte, _ int32) (int, osstatus.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state[slot]
	if !ok {
		return 0, osstatus.ErrInvalidID
	}
	s.fs.mu.Lock()
	data := st.vol.files[st.path]
	s.fs.mu.Unlock()
	if st.pos >= len(data) {
		return 0, osstatus.SUCCESS
	}
	n := copy(buf, data[st.pos:])
	st.pos += n
	return n, osstatus.SUCCESS
}

// Write implements adapter.StreamBackend.
func (s *Streams) Write(slot int, data []byte, _ int32) (int, osstatus.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state[slot]
	if !ok {
		return 0, osstatus.ErrInvalidID
	}
	s.fs.mu.Lock()
	cur := st.vol.files[st.path]
	if st.pos+len(data) > len(cur) {
		grown := make([]byte, st.pos+len(data))
		copy(grown, cur)
		cur = grown
	}
	copy(cur[st.pos:], data)
	st.vol.files[st.path] = cur
	s.fs.mu.Unlock()
	st.pos += len(data)
	return len(data), osstatus.SUCCESS
}

// Console is an in-memory console backend that appends every write to a
// buffer a test can inspect.
type Console struct {
	mu  sync.Mutex
	buf map[int][]byte
}

// NewConsole returns an empty console backend.
func NewConsole() *Console {
	return &Console{buf: make(map[int][]byte)}
}

// Create implements adapter.ConsoleBackend.
func (c *Console) Create(slot int) osstatus.Status {
	c.mu.Lock()
	c.buf[slot] = nil
	c.mu.Unlock()
	return osstatus.SUCCESS
}

// Write implements adapter.ConsoleBackend.
func (c *Console) Write(slot int, data []byte) osstatus.Status {
	c.mu.Lock()
	c.buf[slot] = append(c.buf[slot], data...)
	c.mu.Unlock()
	return osstatus.SUCCESS
}

// Contents returns everything written to slot so far.
func (c *Console) Contents(slot int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buf[slot]...)
}

// Modules is an in-memory loadable-module backend: Load just records
// that a path was "loaded" without doing any real dynamic loading.
type Modules struct {
	mu     sync.Mutex
	loaded map[int]string
}

// NewModules returns an empty module backend.
func NewModules() *Modules {
	return &Modules{loaded: make(map[int]string)}
}

// Load implements adapter.ModuleBackend.
func (m *Modules) Load(slot int, path string) osstatus.Status {
	m.mu.Lock()
	m.loaded[slot] = path
	m.mu.Unlock()
	return osstatus.SUCCESS
}

// Unload implements adapter.ModuleBackend.
func (m *Modules) Unload(slot int) osstatus.Status {
	m.mu.Lock()
	delete(m.loaded, slot)
	m.mu.Unlock()
	return osstatus.SUCCESS
}

// TaskBackend (the platform adapter's task backend, distinct from the
// mock.Tasks "current task context" helper) spawns a real goroutine per
// task, which is the natural Go analogue of a lightweight kernel task.
type TaskBackend struct {
	mu     sync.Mutex
	cancel map[int]chan struct{}
}

// NewTaskBackend returns an empty task backend.
func NewTaskBackend() *TaskBackend {
	return &TaskBackend{cancel: make(map[int]chan struct{})}
}

// Spawn implements adapter.TaskBackend.
func (b *TaskBackend) Spawn(slot int, _ string, _ uint32, _ uint32, entry func()) osstatus.Status {
	done := make(chan struct{})
	b.mu.Lock()
	b.cancel[slot] = done
	b.mu.Unlock()
	go entry()
	return osstatus.SUCCESS
}

// Delete implements adapter.TaskBackend. Since this mock has no way to
// forcibly stop an arbitrary goroutine, it only forgets the
// bookkeeping; a best-effort delete of an already-finished task is
// still reported as success, matching §5's "TaskDelete ... best-effort".
func (b *TaskBackend) Delete(slot int) osstatus.Status {
	b.mu.Lock()
	delete(b.cancel, slot)
	b.mu.Unlock()
	return osstatus.SUCCESS
}

// Delay implements adapter.TaskBackend.
func (b *TaskBackend) Delay(_ int, milliseconds uint32) osstatus.Status {
	<-timeAfterMs(milliseconds)
	return osstatus.SUCCESS
}
