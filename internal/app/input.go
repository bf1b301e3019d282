package app

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/overlay"
	"github.com/depeter/mediahand/internal/ui"
)

// keyMap maps config key names to ebiten keys.
var keyMap = map[string]ebiten.Key{
	"space":      ebiten.KeySpace,
	"enter":      ebiten.KeyEnter,
	"return":     ebiten.KeyEnter,
	"escape":     ebiten.KeyEscape,
	"esc":        ebiten.KeyEscape,
	"backspace":  ebiten.KeyBackspace,
	"tab":        ebiten.KeyTab,
	"left":       ebiten.KeyArrowLeft,
	"right":      ebiten.KeyArrowRight,
	"up":         ebiten.KeyArrowUp,
	"down":       ebiten.KeyArrowDown,
	"equal":      ebiten.KeyEqual,
	"plus":       ebiten.KeyEqual,
	"minus":      ebiten.KeyMinus,
	"kpadd":      ebiten.KeyNumpadAdd,
	"kpsubtract": ebiten.KeyNumpadSubtract,
	"kpenter":    ebiten.KeyNumpadEnter,
	"kp0":        ebiten.KeyNumpad0,
	"kp1":        ebiten.KeyNumpad1,
	"kp2":        ebiten.KeyNumpad2,
	"kp3":        ebiten.KeyNumpad3,
	"kp4":        ebiten.KeyNumpad4,
	"kp5":        ebiten.KeyNumpad5,
	"kp6":        ebiten.KeyNumpad6,
	"kp7":        ebiten.KeyNumpad7,
	"kp8":        ebiten.KeyNumpad8,
	"kp9":        ebiten.KeyNumpad9,
	"pageup":     ebiten.KeyPageUp,
	"pagedown":   ebiten.KeyPageDown,
	"a":          ebiten.KeyA,
	"b":          ebiten.KeyB,
	"c":          ebiten.KeyC,
	"d":          ebiten.KeyD,
	"e":          ebiten.KeyE,
	"f":          ebiten.KeyF,
	"g":          ebiten.KeyG,
	"h":          ebiten.KeyH,
	"i":          ebiten.KeyI,
	"j":          ebiten.KeyJ,
	"k":          ebiten.KeyK,
	"l":          ebiten.KeyL,
	"m":          ebiten.KeyM,
	"n":          ebiten.KeyN,
	"o":          ebiten.KeyO,
	"p":          ebiten.KeyP,
	"q":          ebiten.KeyQ,
	"r":          ebiten.KeyR,
	"s":          ebiten.KeyS,
	"t":          ebiten.KeyT,
	"u":          ebiten.KeyU,
	"v":          ebiten.KeyV,
	"w":          ebiten.KeyW,
	"x":          ebiten.KeyX,
	"y":          ebiten.KeyY,
	"z":          ebiten.KeyZ,
	"0":          ebiten.KeyDigit0,
	"1":          ebiten.KeyDigit1,
	"2":          ebiten.KeyDigit2,
	"3":          ebiten.KeyDigit3,
	"4":          ebiten.KeyDigit4,
	"5":          ebiten.KeyDigit5,
	"6":          ebiten.KeyDigit6,
	"7":          ebiten.KeyDigit7,
	"8":          ebiten.KeyDigit8,
	"9":          ebiten.KeyDigit9,
}

// parseKey converts a config key name to an ebiten.Key.
func parseKey(name string) (ebiten.Key, bool) {
	k, ok := keyMap[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Binding is a set of alternative keys for one action.
type Binding []ebiten.Key

// ParseBinding parses a comma-separated key list such as "Equal,KPAdd".
func ParseBinding(s string) (Binding, error) {
	var b Binding
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, ok := parseKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", strings.TrimSpace(name))
		}
		b = append(b, k)
	}
	return b, nil
}

// JustPressed reports whether any key of b went down this frame.
func (b Binding) JustPressed(justPressed func(ebiten.Key) bool) bool {
	for _, k := range b {
		if justPressed(k) {
			return true
		}
	}
	return false
}

type binding struct {
	keys Binding
	cmd  overlay.Command
	// noCtrl suppresses the binding while Ctrl is held.
	noCtrl bool
}

// Keymap translates playback key presses into overlay commands.
type Keymap struct {
	bindings []binding
}

// NewKeymap compiles the keybind section. Seek and step sizes come from the
// overlay section.
func NewKeymap(kb config.KeybindConfig, ov config.OverlayConfig) (*Keymap, error) {
	defs := []struct {
		field  string
		value  string
		cmd    overlay.Command
		noCtrl bool
	}{
		{"quit", kb.Quit, overlay.Command{Action: overlay.ActionQuit}, false},
		{"play_pause", kb.PlayPause, overlay.Command{Action: overlay.ActionTogglePause}, false},
		{"skip_intro", kb.SkipIntro, overlay.Command{Action: overlay.ActionSeek, Seek: ov.SkipIntro}, false},
		{"fullscreen", kb.Fullscreen, overlay.Command{Action: overlay.ActionToggleFullscreen}, true},
		{"next_episode", kb.NextEpisode, overlay.Command{Action: overlay.ActionNext}, false},
		{"previous_episode", kb.PreviousEpisode, overlay.Command{Action: overlay.ActionPrevious}, false},
		{"volume_up", kb.VolumeUp, overlay.Command{Action: overlay.ActionVolume, Volume: ov.VolumeStep}, false},
		{"volume_down", kb.VolumeDown, overlay.Command{Action: overlay.ActionVolume, Volume: -ov.VolumeStep}, false},
		{"seek_forward", kb.SeekForward, overlay.Command{Action: overlay.ActionSeek, Seek: ov.KeySeek}, false},
		{"seek_backward", kb.SeekBackward, overlay.Command{Action: overlay.ActionSeek, Seek: -ov.KeySeek}, false},
		{"show_overlay", kb.ShowOverlay, overlay.Command{Action: overlay.ActionShow}, false},
	}

	km := &Keymap{}
	for _, d := range defs {
		keys, err := ParseBinding(d.value)
		if err != nil {
			return nil, fmt.Errorf("keybinds.%s: %w", d.field, err)
		}
		km.bindings = append(km.bindings, binding{keys: keys, cmd: d.cmd, noCtrl: d.noCtrl})
	}
	return km, nil
}

// Commands returns the commands whose keys went down this frame.
func (km *Keymap) Commands(justPressed func(ebiten.Key) bool, ctrl bool) []overlay.Command {
	var cmds []overlay.Command
	for _, b := range km.bindings {
		if b.noCtrl && ctrl {
			continue
		}
		if b.keys.JustPressed(justPressed) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}

// remoteKeys maps remote control key codes to playback commands.
var remoteKeys = []struct {
	code   uint16
	action overlay.Action
}{
	{ui.KeyPlayPause, overlay.ActionTogglePause},
	{ui.KeyNextSong, overlay.ActionNext},
	{ui.KeyPreviousSong, overlay.ActionPrevious},
	{ui.KeyBack, overlay.ActionQuit},
}

func remoteCommands(justPressed func(code uint16) bool) []overlay.Command {
	var cmds []overlay.Command
	for _, k := range remoteKeys {
		if justPressed(k.code) {
			cmds = append(cmds, overlay.Command{Action: k.action})
		}
	}
	return cmds
}
