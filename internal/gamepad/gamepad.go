// Package gamepad polls a game controller on a background loop.
//
// A Pad reports both held buttons and "just pressed" edges; edge detection
// is the pad's job, so every frame handed to the poll loop is already
// deduplicated.
package gamepad

import "errors"

var (
	// ErrUnplugged is returned by Pad.Poll once the device is gone.
	ErrUnplugged = errors.New("gamepad: controller unplugged")
	// ErrNoGamepad is returned when no controller is connected.
	ErrNoGamepad = errors.New("gamepad: no controller connected")
)

// Button is a controller button in the standard (Xbox-style) layout.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftBumper
	ButtonRightBumper
	ButtonBack
	ButtonStart
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight

	buttonCount
)

var buttonNames = [...]string{
	ButtonA:           "A",
	ButtonB:           "B",
	ButtonX:           "X",
	ButtonY:           "Y",
	ButtonLeftBumper:  "LB",
	ButtonRightBumper: "RB",
	ButtonBack:        "Back",
	ButtonStart:       "Start",
	ButtonDPadUp:      "DPadUp",
	ButtonDPadDown:    "DPadDown",
	ButtonDPadLeft:    "DPadLeft",
	ButtonDPadRight:   "DPadRight",
}

func (b Button) String() string {
	if b < 0 || b >= buttonCount {
		return "Unknown"
	}
	return buttonNames[b]
}

// Buttons returns every known button.
func Buttons() []Button {
	out := make([]Button, 0, buttonCount)
	for b := Button(0); b < buttonCount; b++ {
		out = append(out, b)
	}
	return out
}

// State is one sampled controller frame.
type State struct {
	pressed     [buttonCount]bool
	justPressed [buttonCount]bool
}

// Pressed reports whether b is held in this frame.
func (s State) Pressed(b Button) bool {
	return b >= 0 && b < buttonCount && s.pressed[b]
}

// JustPressed reports whether b went down since the previous frame.
func (s State) JustPressed(b Button) bool {
	return b >= 0 && b < buttonCount && s.justPressed[b]
}

// Pad is a pollable controller.
type Pad interface {
	// Poll samples the device. It returns ErrUnplugged once the device
	// has been disconnected.
	Poll() (State, error)
}

// EdgeTracker turns successive raw button samples into States with edges.
// The zero value is ready to use.
type EdgeTracker struct {
	prev [buttonCount]bool
}

// Next builds the State for the buttons held now.
func (t *EdgeTracker) Next(held func(Button) bool) State {
	var s State
	for b := Button(0); b < buttonCount; b++ {
		down := held(b)
		s.pressed[b] = down
		s.justPressed[b] = down && !t.prev[b]
		t.prev[b] = down
	}
	return s
}

// Seed records the buttons held now as the previous sample without
// reporting edges, so a button already down does not count as a press.
func (t *EdgeTracker) Seed(held func(Button) bool) {
	for b := Button(0); b < buttonCount; b++ {
		t.prev[b] = held(b)
	}
}

// Reset forgets the previous sample, so held buttons register as new presses.
func (t *EdgeTracker) Reset() {
	t.prev = [buttonCount]bool{}
}
