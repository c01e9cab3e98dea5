package osal

import (
	"log"
	"sync"
)

// sharedGlobals is the process-wide record of §3.6: initialized flag,
// shutdown value, tick-time constants, debug level, and the optional
// user event handler. It is written only during Init/Shutdown and read
// freely afterward, matching the §5 "Shared-resource policy" for
// process-wide globals.
type sharedGlobals struct {
	mu sync.Mutex

	initialized  bool
	shutdownFlag uint32

	microSecPerTick  uint32
	ticksPerSecond   uint32

	debugLevel int

	eventHandler EventHandlerFunc
}

// shutdownRequested is the sentinel ApplicationShutdown writes; any other
// value means "keep running".
const shutdownRequested uint32 = 0xC0FFEE

// EventLifecycle identifies which phase of an object's lifecycle an
// EventHandlerFunc is being told about (§7 "User-visible failure").
type EventLifecycle int

const (
	EventCreateBegin EventLifecycle = iota
	EventCreateEnd
	EventDeleteBegin
	EventDeleteEnd
)

// EventHandlerFunc is the signature of the optional user hook for object
// lifecycle events (§7). The hook is stored by SetEventHandler, but no
// Create, Delete or other call in this module invokes it: no lifecycle
// event is ever delivered to it.
type EventHandlerFunc func(event EventLifecycle, objType, objID uint32) error

func (g *sharedGlobals) fireEvent(event EventLifecycle, objType, objID uint32) error {
	g.mu.Lock()
	h := g.eventHandler
	g.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(event, objType, objID)
}

// SetEventHandler installs the process-wide lifecycle event hook. Pass
// nil to remove it.
func (m *Manager) SetEventHandler(h EventHandlerFunc) {
	m.globals.mu.Lock()
	m.globals.eventHandler = h
	m.globals.mu.Unlock()
}

// SetDebugLevel sets the level debugf compares against. The timebase
// package's spin-loop warning (§4.F) does not consult it.
func (m *Manager) SetDebugLevel(level int) {
	m.globals.mu.Lock()
	m.globals.debugLevel = level
	m.globals.mu.Unlock()
}

func (m *Manager) debugf(level int, format string, args ...interface{}) {
	m.globals.mu.Lock()
	enabled := m.globals.debugLevel >= level
	m.globals.mu.Unlock()
	if enabled {
		log.Printf(format, args...)
	}
}

// IsInitialized reports whether API_Init has completed successfully.
func (m *Manager) IsInitialized() bool {
	m.globals.mu.Lock()
	defer m.globals.mu.Unlock()
	return m.globals.initialized
}

// Ticks reports the tick-time constants the platform adapter set during
// Init (§3.6 invariant: MicroSecPerTick * TicksPerSecond == 1_000_000).
func (m *Manager) Ticks() (microSecPerTick, ticksPerSecond uint32) {
	m.globals.mu.Lock()
	defer m.globals.mu.Unlock()
	return m.globals.microSecPerTick, m.globals.ticksPerSecond
}

// Milli2Ticks converts a millisecond timeout to a tick count the way
// OS_TimedWait-style calls do (§5 "Cancellation / timeouts"):
// (ms * ticks_per_sec + 999) / 1000, capped at the platform int max.
func (m *Manager) Milli2Ticks(ms uint32) uint32 {
	_, ticksPerSec := m.Ticks()
	const maxInt32 = uint64(1<<31 - 1)
	v := (uint64(ms)*uint64(ticksPerSec) + 999) / 1000
	if v > maxInt32 {
		v = maxInt32
	}
	return uint32(v)
}

// requestShutdown sets the shutdown magic value (ApplicationShutdown).
func (g *sharedGlobals) requestShutdown() {
	g.mu.Lock()
	g.shutdownFlag = shutdownRequested
	g.mu.Unlock()
}

func (g *sharedGlobals) shutdownRequested() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shutdownFlag == shutdownRequested
}
