package osal

import (
	"fmt"
	"time"

	"github.com/cfs-go/osal/adapter"
)

// exclusiveRetryPause is the delay DeleteAllObjects waits between passes
// (§9 Open Question (a)). It is a separate, shorter delay than
// idmgr.ExclusiveRetryInterval.
const exclusiveRetryPause = 5 * time.Millisecond

// defaultTicksPerSecond and defaultMicroSecPerTick satisfy §3.6's
// invariant (product == 1_000_000) without requiring every test to
// supply its own tick rate.
const defaultTicksPerSecond = 1000
const defaultMicroSecPerTick = 1_000_000 / defaultTicksPerSecond

var globalManager *Manager

// Init builds the process-wide Manager, validates cfg, and initializes
// every resource type's idmgr table (§4.G "API_Init"). Once an Init has
// succeeded, every later call in the same process fails: nothing in this
// package clears the initialized state, ApplicationShutdown included. The
// original OS_API_Init rejects repeated init the same way.
func Init(lock adapter.GlobalLock, clock adapter.Clock, taskCtx adapter.TaskContext, backends Backends, cfg Config) (*Manager, error) {
	if globalManager != nil && globalManager.IsInitialized() {
		return nil, fmt.Errorf("osal: Init called while already initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := newManager(lock, clock, taskCtx, cfg)
	if err := m.wire(backends); err != nil {
		return nil, err
	}
	m.globals.microSecPerTick = defaultMicroSecPerTick
	m.globals.ticksPerSecond = defaultTicksPerSecond
	m.globals.initialized = true

	globalManager = m
	return m, nil
}

// ApplicationShutdown records that the host wants every IdleLoop caller
// to return (§4.G). It does not itself tear down any object; a host
// that also wants clean teardown calls DeleteAllObjects separately.
func (m *Manager) ApplicationShutdown() {
	m.globals.requestShutdown()
}

// ShutdownRequested reports whether ApplicationShutdown has been called.
func (m *Manager) ShutdownRequested() bool {
	return m.globals.shutdownRequested()
}

// IdleLoop blocks until ApplicationShutdown is called, sleeping between
// checks rather than busy-spinning; it is the Go analogue of the
// original's "loop forever servicing the scheduler" main-loop idiom.
func (m *Manager) IdleLoop() {
	for !m.ShutdownRequested() {
		m.clock.Sleep(10 * time.Millisecond)
	}
}
