package ui

import (
	"sync"
	"time"
)

// Linux input event codes sent by IR and Bluetooth remotes.
const (
	KeyBack         uint16 = 158 // KEY_BACK
	KeyNextSong     uint16 = 163 // KEY_NEXTSONG
	KeyPlayPause    uint16 = 164 // KEY_PLAYPAUSE
	KeyPreviousSong uint16 = 165 // KEY_PREVIOUSSONG
)

const (
	recentEventsMax = 8
	// remotePressTTL bounds how long an unconsumed press stays pending, so a
	// key pressed while nothing reads it does not fire later.
	remotePressTTL = 500 * time.Millisecond
)

// EvdevEvent represents a captured evdev input event.
type EvdevEvent struct {
	Time   time.Time
	Device string // e.g. "event3"
	Type   uint16
	Code   uint16
	Value  int32
}

// remoteKeys collects key presses from reader goroutines for the UI thread.
type remoteKeys struct {
	mu      sync.Mutex
	pending map[uint16]time.Time
	recent  []EvdevEvent
}

var remote = &remoteKeys{}

func (r *remoteKeys) record(ev EvdevEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		r.pending = make(map[uint16]time.Time)
	}
	r.pending[ev.Code] = ev.Time
	r.recent = append(r.recent, ev)
	if len(r.recent) > recentEventsMax {
		r.recent = r.recent[len(r.recent)-recentEventsMax:]
	}
}

func (r *remoteKeys) consume(code uint16, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.pending[code]
	if !ok {
		return false
	}
	delete(r.pending, code)
	return now.Sub(at) <= remotePressTTL
}

func (r *remoteKeys) snapshot() []EvdevEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EvdevEvent, len(r.recent))
	copy(out, r.recent)
	return out
}

// RemoteJustPressed reports once whether the remote key code was pressed
// recently, then clears it.
func RemoteJustPressed(code uint16) bool {
	return remote.consume(code, time.Now())
}

// EvdevBackJustPressed reports once whether KEY_BACK was pressed.
func EvdevBackJustPressed() bool {
	return RemoteJustPressed(KeyBack)
}

// EvdevRecentEvents returns a snapshot of the most recent evdev key-press events.
func EvdevRecentEvents() []EvdevEvent {
	return remote.snapshot()
}
