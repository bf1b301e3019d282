package overlay

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HideTimer holds at most one pending hide deadline. Arm replaces any
// pending deadline; a deadline that was replaced or cancelled never fires,
// even if its clock callback was already running.
type HideTimer struct {
	clock  clockwork.Clock
	onFire func(gen uint64)

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

// NewHideTimer creates a timer that calls onFire on the clock's goroutine
// with the generation of the deadline that expired.
func NewHideTimer(clock clockwork.Clock, onFire func(gen uint64)) *HideTimer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HideTimer{clock: clock, onFire: onFire}
}

// Arm schedules a hide d from now, cancelling the previous one.
func (h *HideTimer) Arm(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.timer = h.clock.AfterFunc(d, func() { h.fire(gen) })
}

func (h *HideTimer) fire(gen uint64) {
	h.mu.Lock()
	if gen != h.gen || h.timer == nil {
		h.mu.Unlock()
		return
	}
	h.timer = nil
	h.mu.Unlock()

	if h.onFire != nil {
		h.onFire(gen)
	}
}

// Cancel drops the pending deadline, if any.
func (h *HideTimer) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
}

// Pending reports whether a deadline is armed and has not fired.
func (h *HideTimer) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timer != nil
}

// Current reports whether gen is the deadline that fired last with nothing
// armed since. A hide marshaled to another thread checks this before acting.
func (h *HideTimer) Current(gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return gen == h.gen && h.timer == nil
}
