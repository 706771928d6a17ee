package engine

import (
	"sync"
	"time"
)

// GateState tracks whether results may be shown yet.
type GateState int

const (
	// GateWaiting means the first run, the minimum delay, or both are
	// still outstanding.
	GateWaiting GateState = iota
	// GateReady means results are visible from now on.
	GateReady
)

func (s GateState) String() string {
	switch s {
	case GateWaiting:
		return "waiting"
	case GateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Gate holds the first report back until two independent conditions have
// both been met: the initial run finished, and a fixed minimum delay
// elapsed. Whichever arrives second opens the gate. It opens exactly once
// and never closes again; later runs are unaffected.
type Gate struct {
	mu        sync.Mutex
	state     GateState
	runDone   bool
	delayDone bool
	readyAt   time.Time
}

// NewGate returns a gate in the waiting state.
func NewGate() *Gate {
	return &Gate{state: GateWaiting}
}

// RunCompleted records that the initial run finished. It returns true only
// if this call is the one that opened the gate.
func (g *Gate) RunCompleted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runDone = true
	return g.tryOpen()
}

// DelayElapsed records that the minimum delay passed. It returns true only
// if this call is the one that opened the gate.
func (g *Gate) DelayElapsed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delayDone = true
	return g.tryOpen()
}

// tryOpen transitions to ready when both conditions hold. Caller holds mu.
func (g *Gate) tryOpen() bool {
	if g.state == GateReady {
		return false
	}
	if !g.runDone || !g.delayDone {
		return false
	}
	g.state = GateReady
	g.readyAt = time.Now()
	return true
}

// State returns the current gate state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Ready reports whether the gate has opened.
func (g *Gate) Ready() bool {
	return g.State() == GateReady
}

// ReadyAt returns when the gate opened, or the zero time if it has not.
func (g *Gate) ReadyAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readyAt
}
