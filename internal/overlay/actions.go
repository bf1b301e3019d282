package overlay

import "github.com/depeter/mediahand/internal/gamepad"

// PadMapping turns controller frames into commands. Seek sizes are seconds.
type PadMapping struct {
	SkipIntro float64
	Seek      float64
	FastSeek  float64
}

// DefaultPadMapping skips 80s on X and scrubs 1s (3s with A held) per tick.
var DefaultPadMapping = PadMapping{SkipIntro: 80, Seek: 1, FastSeek: 3}

// Commands maps one frame. Face and shoulder buttons fire on the press edge;
// a held d-pad left or right scrubs on every frame.
func (m PadMapping) Commands(s gamepad.State) []Command {
	var cmds []Command
	if s.JustPressed(gamepad.ButtonB) {
		cmds = append(cmds, Command{Action: ActionTogglePause})
	}
	if s.JustPressed(gamepad.ButtonRightBumper) {
		cmds = append(cmds, Command{Action: ActionNext})
	}
	if s.JustPressed(gamepad.ButtonLeftBumper) {
		cmds = append(cmds, Command{Action: ActionPrevious})
	}
	if s.JustPressed(gamepad.ButtonX) {
		cmds = append(cmds, Command{Action: ActionSeek, Seek: m.SkipIntro})
	}
	if s.JustPressed(gamepad.ButtonBack) {
		cmds = append(cmds, Command{Action: ActionQuit})
	}

	step := m.Seek
	if s.Pressed(gamepad.ButtonA) {
		step = m.FastSeek
	}
	if s.Pressed(gamepad.ButtonDPadLeft) {
		cmds = append(cmds, Command{Action: ActionSeek, Seek: -step})
	}
	if s.Pressed(gamepad.ButtonDPadRight) {
		cmds = append(cmds, Command{Action: ActionSeek, Seek: step})
	}

	if s.JustPressed(gamepad.ButtonY) {
		cmds = append(cmds, Command{Action: ActionToggleFullscreen})
	}
	return cmds
}
