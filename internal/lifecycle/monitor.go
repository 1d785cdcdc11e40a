// Package lifecycle decides when an idle search provider may exit.
//
// A Monitor counts activity holds. Whenever the count drops to zero an
// inactivity timer is armed; if it fires before the next hold, the monitor
// reports the process idle. Persistent monitors never go idle.
package lifecycle

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure Monitor implements the interface.
var _ driven.ActivityHold = (*Monitor)(nil)

// Monitor tracks pending work and signals inactivity.
type Monitor struct {
	timeout time.Duration
	persist bool

	mu         sync.Mutex
	holds      int
	generation uint64
	timer      *time.Timer
	idle       chan struct{}
	stopped    bool
}

// NewMonitor creates a monitor whose inactivity timer is already armed,
// so a process that never receives a request still exits.
func NewMonitor(timeout time.Duration, persist bool) *Monitor {
	m := &Monitor{
		timeout: timeout,
		persist: persist,
		idle:    make(chan struct{}),
	}

	m.mu.Lock()
	m.armLocked()
	m.mu.Unlock()

	return m
}

// Hold marks the start of pending work and disarms the timer.
func (m *Monitor) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.holds++
	m.disarmLocked()
}

// Release marks the end of pending work. The timer is re-armed when no
// holds remain.
func (m *Monitor) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.holds == 0 {
		log.Printf("lifecycle: release without matching hold")
		return
	}
	m.holds--
	if m.holds == 0 {
		m.armLocked()
	}
}

// Holds returns the number of outstanding holds.
func (m *Monitor) Holds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holds
}

// Idle returns a channel closed once the inactivity timeout elapses with
// no holds, or Stop is called.
func (m *Monitor) Idle() <-chan struct{} {
	return m.idle
}

// Wait blocks until the monitor goes idle or ctx is done.
func (m *Monitor) Wait(ctx context.Context) error {
	select {
	case <-m.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the idle channel immediately. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disarmLocked()
	m.closeLocked()
}

func (m *Monitor) armLocked() {
	if m.persist || m.stopped {
		return
	}
	m.disarmLocked()

	m.generation++
	generation := m.generation
	m.timer = time.AfterFunc(m.timeout, func() {
		m.expire(generation)
	})
}

func (m *Monitor) disarmLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

// expire closes the idle channel if the timer that fired is still current.
func (m *Monitor) expire(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation || m.holds > 0 {
		return
	}
	log.Printf("lifecycle: idle for %s, shutting down", m.timeout)
	m.closeLocked()
}

func (m *Monitor) closeLocked() {
	if m.stopped {
		return
	}
	m.stopped = true
	close(m.idle)
}
