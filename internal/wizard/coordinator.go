package wizard

import (
	"errors"
	"sync"
)

// Common errors for wizard scheduling.
var (
	// ErrNoParentWizard is returned for a sub-wizard request while no
	// dialog is visible.
	ErrNoParentWizard = errors.New("sub-wizard requires a visible parent wizard")

	// ErrNothingToClose is returned for a close while no dialog is open.
	ErrNothingToClose = errors.New("no wizard open")
)

// State describes the coordinator's observable state.
type State int

const (
	// Idle means no dialog is shown and nothing is queued.
	Idle State = iota
	// Showing means the top of the active stack is visible.
	Showing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Showing:
		return "showing"
	default:
		return "unknown"
	}
}

// StaleFunc reports whether a pending request has gone stale and should be
// dropped instead of shown. Consulted only at promotion time.
type StaleFunc func(Request) bool

// Coordinator owns the LIFO stack of open modal requests (top = visible) and
// the FIFO queue of pending top-level requests. Every stack element beyond
// the first is a sub-wizard; every queued element is top-level.
type Coordinator struct {
	mu sync.Mutex

	active  []Request
	pending []Request

	stale StaleFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStaleCheck installs a staleness policy for pending requests. A pending
// top-level request for which the check returns true when its turn comes is
// dropped silently and the next request is promoted.
func WithStaleCheck(fn StaleFunc) Option {
	return func(c *Coordinator) {
		c.stale = fn
	}
}

// New creates a wizard coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request admits a modal request. A top-level request becomes visible
// immediately when idle and is queued otherwise. A sub-wizard request
// requires a visible parent; it is pushed above it and becomes visible at
// once, pre-empting the queue.
func (c *Coordinator) Request(r Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Sub() {
		if len(c.active) == 0 {
			return ErrNoParentWizard
		}
		c.active = append(c.active, r)
		return nil
	}

	if len(c.active) == 0 {
		c.active = append(c.active, r)
		return nil
	}
	c.pending = append(c.pending, r)
	return nil
}

// Close dismisses the visible request. A closed sub-wizard reveals its
// parent; closing the last stack element promotes the front of the pending
// queue, or goes idle when nothing is waiting.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.active) == 0 {
		return ErrNothingToClose
	}

	c.active = c.active[:len(c.active)-1]
	if len(c.active) > 0 {
		return nil // parent becomes visible again
	}

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		if c.stale != nil && c.stale(next) {
			continue
		}
		c.active = append(c.active, next)
		break
	}
	return nil
}

// Visible returns the currently visible request, if any.
func (c *Coordinator) Visible() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.active) == 0 {
		return nil, false
	}
	return c.active[len(c.active)-1], true
}

// State returns Idle or Showing.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.active) == 0 {
		return Idle
	}
	return Showing
}

// Depth returns the number of nested open requests.
func (c *Coordinator) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// PendingCount returns the number of queued top-level requests.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Pending returns a copy of the queued top-level requests, front first.
func (c *Coordinator) Pending() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Request, len(c.pending))
	copy(out, c.pending)
	return out
}
