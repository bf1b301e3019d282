package app

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/mediahand/internal/gamepad"
)

var standardButtons = map[gamepad.Button]ebiten.StandardGamepadButton{
	gamepad.ButtonA:           ebiten.StandardGamepadButtonRightBottom,
	gamepad.ButtonB:           ebiten.StandardGamepadButtonRightRight,
	gamepad.ButtonX:           ebiten.StandardGamepadButtonRightLeft,
	gamepad.ButtonY:           ebiten.StandardGamepadButtonRightTop,
	gamepad.ButtonLeftBumper:  ebiten.StandardGamepadButtonFrontTopLeft,
	gamepad.ButtonRightBumper: ebiten.StandardGamepadButtonFrontTopRight,
	gamepad.ButtonBack:        ebiten.StandardGamepadButtonCenterLeft,
	gamepad.ButtonStart:       ebiten.StandardGamepadButtonCenterRight,
	gamepad.ButtonDPadUp:      ebiten.StandardGamepadButtonLeftTop,
	gamepad.ButtonDPadDown:    ebiten.StandardGamepadButtonLeftBottom,
	gamepad.ButtonDPadLeft:    ebiten.StandardGamepadButtonLeftLeft,
	gamepad.ButtonDPadRight:   ebiten.StandardGamepadButtonLeftRight,
}

// rawButtons is the common XInput ordering for pads without a standard
// layout mapping. The d-pad is a hat there and is not covered.
var rawButtons = map[gamepad.Button]ebiten.GamepadButton{
	gamepad.ButtonA:           ebiten.GamepadButton0,
	gamepad.ButtonB:           ebiten.GamepadButton1,
	gamepad.ButtonX:           ebiten.GamepadButton2,
	gamepad.ButtonY:           ebiten.GamepadButton3,
	gamepad.ButtonLeftBumper:  ebiten.GamepadButton4,
	gamepad.ButtonRightBumper: ebiten.GamepadButton5,
	gamepad.ButtonBack:        ebiten.GamepadButton6,
	gamepad.ButtonStart:       ebiten.GamepadButton7,
}

// PadSource hands out the controller a playback session polls.
type PadSource interface {
	Acquire() (gamepad.Pad, error)
}

// sampler reads the buttons held right now. It returns gamepad.ErrUnplugged
// once the device is gone.
type sampler func() (held func(gamepad.Button) bool, err error)

// TrackedPad adds press edges to a sampler. It is safe to poll from one
// goroutine while another resyncs it.
type TrackedPad struct {
	name   string
	sample sampler

	mu    sync.Mutex
	edges gamepad.EdgeTracker
}

func newTrackedPad(name string, sample sampler) *TrackedPad {
	return &TrackedPad{name: name, sample: sample}
}

// Name is the controller's reported name.
func (p *TrackedPad) Name() string { return p.name }

func (p *TrackedPad) Poll() (gamepad.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	held, err := p.sample()
	if err != nil {
		return gamepad.State{}, err
	}
	return p.edges.Next(held), nil
}

// Resync takes the buttons held now as the previous frame, so a button
// still down when a session starts does not fire a command in it.
func (p *TrackedPad) Resync() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	held, err := p.sample()
	if err != nil {
		return err
	}
	p.edges.Seed(held)
	return nil
}

// sharedPad keeps one pad across sessions while it stays connected, and
// opens a new one otherwise. Acquire runs on the UI thread.
type sharedPad struct {
	open func() (*TrackedPad, error)
	pad  *TrackedPad
}

func (s *sharedPad) Acquire() (gamepad.Pad, error) {
	if s.pad != nil {
		if err := s.pad.Resync(); err == nil {
			return s.pad, nil
		}
		s.pad = nil
	}
	pad, err := s.open()
	if err != nil {
		return nil, err
	}
	if err := pad.Resync(); err != nil {
		return nil, err
	}
	s.pad = pad
	return pad, nil
}

// FirstGamepad binds the first connected controller through ebiten's
// concurrent-safe gamepad queries, so it can be polled off the game loop.
func FirstGamepad() (*TrackedPad, error) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return nil, gamepad.ErrNoGamepad
	}
	id := ids[0]
	var buf []ebiten.GamepadID
	sample := func() (func(gamepad.Button) bool, error) {
		buf = ebiten.AppendGamepadIDs(buf[:0])
		if !containsID(buf, id) {
			return nil, gamepad.ErrUnplugged
		}
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return func(b gamepad.Button) bool {
				sb, ok := standardButtons[b]
				return ok && ebiten.IsStandardGamepadButtonPressed(id, sb)
			}, nil
		}
		return func(b gamepad.Button) bool {
			rb, ok := rawButtons[b]
			return ok && ebiten.IsGamepadButtonPressed(id, rb)
		}, nil
	}
	return newTrackedPad(ebiten.GamepadName(id), sample), nil
}

func containsID(ids []ebiten.GamepadID, id ebiten.GamepadID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
