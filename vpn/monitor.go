// Package vpn provides tunnel management functionality.
// This file contains the Monitor, which keeps activation flags in sync
// with tunnels started or stopped outside of the manager.
package vpn

import (
	"context"
	"sync"
	"time"

	"github.com/yllada/wg-manager/common"
)

// MonitorConfig holds configuration for the monitor.
type MonitorConfig struct {
	// Interval is how often every tunnel's state is queried.
	Interval time.Duration
}

// DefaultMonitorConfig returns sensible defaults for monitoring.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{Interval: common.MonitorInterval}
}

// Monitor periodically queries the state of every tunnel.
type Monitor struct {
	mu            sync.RWMutex
	config        MonitorConfig
	manager       *Manager
	running       bool
	stopChan      chan struct{}
	done          chan struct{}
	states        map[string]NetState
	onStateChange func(name string, oldState, newState NetState)
}

// NewMonitor creates a new monitor for the given manager.
func NewMonitor(manager *Manager, config MonitorConfig) *Monitor {
	if config.Interval <= 0 {
		config.Interval = common.MonitorInterval
	}
	return &Monitor{
		config:   config,
		manager:  manager,
		stopChan: make(chan struct{}),
		states:   make(map[string]NetState),
	}
}

// SetOnStateChange sets a callback for state changes. It is not called
// for the first observation of a tunnel.
func (mon *Monitor) SetOnStateChange(callback func(name string, oldState, newState NetState)) {
	mon.mu.Lock()
	defer mon.mu.Unlock()
	mon.onStateChange = callback
}

// Start begins the monitoring loop. The loop ends on Stop or when ctx is
// cancelled.
func (mon *Monitor) Start(ctx context.Context) {
	mon.mu.Lock()
	if mon.running {
		mon.mu.Unlock()
		return
	}
	mon.running = true
	mon.stopChan = make(chan struct{})
	mon.done = make(chan struct{})
	stop, done := mon.stopChan, mon.done
	interval := mon.config.Interval
	mon.mu.Unlock()

	common.LogInfo("Tunnel monitor started (interval: %v)", interval)

	go mon.runLoop(ctx, interval, stop, done)
}

// Stop stops the monitoring loop and waits for it to exit. It also waits
// for a loop that already ended because its context was cancelled.
func (mon *Monitor) Stop() {
	mon.mu.Lock()
	wasRunning := mon.running
	if wasRunning {
		mon.running = false
		close(mon.stopChan)
	}
	done := mon.done
	mon.mu.Unlock()

	if done == nil {
		return
	}
	<-done
	if wasRunning {
		common.LogInfo("Tunnel monitor stopped")
	}
}

// IsRunning returns whether the monitor is currently running.
func (mon *Monitor) IsRunning() bool {
	mon.mu.RLock()
	defer mon.mu.RUnlock()
	return mon.running
}

// GetState returns the last observed state of a tunnel.
func (mon *Monitor) GetState(name string) (NetState, bool) {
	mon.mu.RLock()
	defer mon.mu.RUnlock()
	state, ok := mon.states[name]
	return state, ok
}

func (mon *Monitor) runLoop(ctx context.Context, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mon.CheckNow(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			mon.mu.Lock()
			if mon.running && mon.stopChan == stop {
				mon.running = false
			}
			mon.mu.Unlock()
			return
		case <-ticker.C:
			mon.CheckNow(ctx)
		}
	}
}

// CheckNow queries every tunnel once and updates activation flags.
func (mon *Monitor) CheckNow(ctx context.Context) {
	tunnels := mon.manager.Tunnels()

	present := make(map[string]bool, len(tunnels))
	for _, t := range tunnels {
		present[t.Name()] = true
		mon.checkTunnel(ctx, t)
	}

	mon.mu.Lock()
	for name := range mon.states {
		if !present[name] {
			delete(mon.states, name)
		}
	}
	mon.mu.Unlock()
}

func (mon *Monitor) checkTunnel(ctx context.Context, t *Tunnel) {
	name := t.Name()
	state := mon.manager.controller.State(ctx, name)

	active := state == WgQuickUp
	if active != t.Active {
		common.LogInfo("Tunnel %s changed outside of the manager, now %s", name, state)
		mon.manager.setActive(name, active)
	}

	mon.mu.Lock()
	oldState, seen := mon.states[name]
	mon.states[name] = state
	callback := mon.onStateChange
	mon.mu.Unlock()

	if seen && oldState != state {
		common.LogInfo("State changed for %s: %s -> %s", name, oldState, state)
		if callback != nil {
			callback(name, oldState, state)
		}
	}
}

// UpdateConfig updates the monitor configuration. It takes effect on the
// next Start.
func (mon *Monitor) UpdateConfig(config MonitorConfig) {
	if config.Interval <= 0 {
		config.Interval = common.MonitorInterval
	}
	mon.mu.Lock()
	defer mon.mu.Unlock()
	mon.config = config
}
