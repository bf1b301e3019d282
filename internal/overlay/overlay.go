// Package overlay implements the playback control overlay: a transient panel
// with a time slider and a volume slider drawn over the video, driven by
// keyboard, mouse and controller commands, that hides itself after a delay.
//
// All ControlPane methods must be called on the UI thread. Work that
// originates elsewhere (hide deadlines, the controller poll loop, player
// time events) is marshaled through a Runner.
package overlay

import (
	"context"
	"fmt"

	"github.com/depeter/mediahand/internal/library"
)

// Engine is the embedded player as the overlay drives it. Times are in seconds.
type Engine interface {
	TogglePause() error
	Seek(seconds float64) error
	SeekAbsolute(seconds float64) error
	SetVolume(vol int) error
	Stop() error
	Playing() bool
	Paused() bool
	Position() float64
	Duration() float64
	SetOSDOverlay(id int, ass string, resX, resY int) error
}

// Shell is the application around the overlay.
type Shell interface {
	// ShowMenu switches back to the library scene.
	ShowMenu()
	ToggleFullscreen()
	NextEpisode()
	PreviousEpisode()
	// Warn shows a user-facing warning.
	Warn(title, message string)
}

// Repository persists media entries.
type Repository interface {
	Update(ctx context.Context, e *library.Entry) error
}

// Runner runs f on the UI thread.
type Runner interface {
	Run(f func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(f func())

func (r RunnerFunc) Run(f func()) { r(f) }

// Action is what a discrete input asks the overlay to do.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionSeek
	ActionNext
	ActionPrevious
	ActionToggleFullscreen
	ActionVolume
	ActionQuit
	ActionShow
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionTogglePause:      "toggle-pause",
	ActionSeek:             "seek",
	ActionNext:             "next",
	ActionPrevious:         "previous",
	ActionToggleFullscreen: "toggle-fullscreen",
	ActionVolume:           "volume",
	ActionQuit:             "quit",
	ActionShow:             "show",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Command is one dispatched input.
type Command struct {
	Action Action
	Seek   float64 // seconds, for ActionSeek
	Volume int     // delta, for ActionVolume
}

func (c Command) String() string {
	switch c.Action {
	case ActionSeek:
		return fmt.Sprintf("seek %+.1fs", c.Seek)
	case ActionVolume:
		return fmt.Sprintf("volume %+d", c.Volume)
	}
	return c.Action.String()
}
