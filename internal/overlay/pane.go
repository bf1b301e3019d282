package overlay

import (
	"context"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/depeter/mediahand/internal/gamepad"
	"github.com/depeter/mediahand/internal/library"
	"github.com/depeter/mediahand/internal/log"
)

const (
	DefaultShowDelay  = time.Second
	DefaultPauseDelay = 3 * time.Second
	DefaultVolumeStep = 5

	saveTimeout = 5 * time.Second
)

// Options configures a ControlPane. Engine, Shell and Runner are required.
type Options struct {
	Engine     Engine
	Shell      Shell
	Repository Repository
	Runner     Runner
	Clock      clockwork.Clock

	ShowDelay  time.Duration // hover, seek and volume changes
	PauseDelay time.Duration // toggle pause and session start
	VolumeStep int           // wheel step
	Pad        PadMapping
}

// ControlPane is the overlay for one playback session.
type ControlPane struct {
	engine Engine
	shell  Shell
	repo   Repository
	runner Runner
	clock  clockwork.Clock
	logger zerolog.Logger

	showDelay  time.Duration
	pauseDelay time.Duration
	volumeStep int
	pad        PadMapping

	hide   *HideTimer
	layout Layout

	entry  *library.Entry
	volume int

	timeSlider   *Slider
	volumeSlider *Slider

	attached bool
	visible  bool
	stopped  bool
	dirty    bool
	lastASS  string

	cursorX, cursorY float64
	cursorKnown      bool
	mouseDown        bool

	pollCancel context.CancelFunc
}

// NewControlPane creates a detached pane. Attach it before Update to get a
// visible panel.
func NewControlPane(opts Options) *ControlPane {
	p := &ControlPane{
		engine:       opts.Engine,
		shell:        opts.Shell,
		repo:         opts.Repository,
		runner:       opts.Runner,
		clock:        opts.Clock,
		logger:       log.WithComponent("overlay"),
		showDelay:    opts.ShowDelay,
		pauseDelay:   opts.PauseDelay,
		volumeStep:   opts.VolumeStep,
		pad:          opts.Pad,
		timeSlider:   NewSlider(0, 0, 0),
		volumeSlider: NewSlider(0, 100, 0),
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}
	if p.runner == nil {
		p.runner = RunnerFunc(func(f func()) { f() })
	}
	if p.showDelay <= 0 {
		p.showDelay = DefaultShowDelay
	}
	if p.pauseDelay <= 0 {
		p.pauseDelay = DefaultPauseDelay
	}
	if p.volumeStep <= 0 {
		p.volumeStep = DefaultVolumeStep
	}
	if p.pad == (PadMapping{}) {
		p.pad = DefaultPadMapping
	}
	p.hide = NewHideTimer(p.clock, func(gen uint64) {
		p.runner.Run(func() { p.hideDue(gen) })
	})
	return p
}

// Attach binds the panel to a width x height surface.
func (p *ControlPane) Attach(width, height int) {
	p.layout = NewLayout(width, height)
	p.timeSlider.Bounds = p.layout.Time
	p.volumeSlider.Bounds = p.layout.Volume
	p.attached = true
	p.lastASS = ""
	p.dirty = true
}

// Update binds entry to the pane and shows the panel for the pause delay.
func (p *ControlPane) Update(entry *library.Entry) {
	if !p.attached {
		p.shell.Warn("Control pane", "Could not add control pane, because it has not been attached to a window.")
	}
	p.entry = entry
	p.timeSlider.SetRange(0, p.engine.Duration())
	p.timeSlider.SetValue(p.engine.Position())
	p.setVolume(entry.Volume)
	p.Show(p.pauseDelay)
}

// Show makes the panel visible and re-arms the hide deadline d from now.
func (p *ControlPane) Show(d time.Duration) {
	if p.stopped {
		return
	}
	p.visible = true
	p.dirty = true
	p.hide.Arm(d)
}

func (p *ControlPane) hideDue(gen uint64) {
	if p.stopped || !p.hide.Current(gen) {
		return
	}
	if p.timeSlider.Pressed() || p.volumeSlider.Pressed() || p.hovering() {
		p.hide.Arm(p.showDelay)
		return
	}
	p.visible = false
	p.dirty = true
}

func (p *ControlPane) hovering() bool {
	return p.attached && p.cursorKnown && p.layout.HoverZone().Contains(p.cursorX, p.cursorY)
}

// Dispatch executes cmd. A stopped pane ignores commands.
func (p *ControlPane) Dispatch(cmd Command) {
	if p.stopped {
		return
	}
	p.logger.Debug().Stringer("command", cmd).Msg("dispatch")

	switch cmd.Action {
	case ActionTogglePause:
		if err := p.engine.TogglePause(); err != nil {
			p.logger.Warn().Err(err).Msg("toggle pause")
		}
		p.Show(p.pauseDelay)
	case ActionSeek:
		if err := p.engine.Seek(cmd.Seek); err != nil {
			p.logger.Warn().Err(err).Float64("offset", cmd.Seek).Msg("seek")
		}
		p.OnTimeChanged(p.engine.Position())
		p.Show(p.showDelay)
	case ActionVolume:
		p.setVolume(p.volume + cmd.Volume)
		p.Show(p.showDelay)
	case ActionNext:
		p.shell.NextEpisode()
	case ActionPrevious:
		p.shell.PreviousEpisode()
	case ActionToggleFullscreen:
		p.shell.ToggleFullscreen()
	case ActionQuit:
		p.Stop()
		p.shell.ShowMenu()
	case ActionShow:
		p.Show(p.showDelay)
	}
}

// setVolume writes v, clamped, to the slider, the engine and the entry.
func (p *ControlPane) setVolume(v int) {
	v = library.ClampVolume(v)
	p.volume = v
	p.volumeSlider.SetValue(float64(v))
	if err := p.engine.SetVolume(v); err != nil {
		p.logger.Warn().Err(err).Int("volume", v).Msg("set volume")
	}
	if p.entry != nil {
		p.entry.SetVolume(v)
	}
	p.dirty = true
}

// OnTimeChanged moves the time slider to seconds unless it is being dragged.
func (p *ControlPane) OnTimeChanged(seconds float64) {
	if p.timeSlider.Pressed() {
		return
	}
	p.timeSlider.SetValue(seconds)
	if p.visible {
		p.dirty = true
	}
}

// OnDurationChanged resizes the time slider once the player knows the length.
func (p *ControlPane) OnDurationChanged(seconds float64) {
	p.timeSlider.SetRange(0, seconds)
	p.dirty = true
}

// HandleMouse feeds one cursor sample. Movement shows the panel; a press on
// a slider grabs it until release.
func (p *ControlPane) HandleMouse(x, y int, pressed bool) {
	fx, fy := float64(x), float64(y)
	moved := !p.cursorKnown || fx != p.cursorX || fy != p.cursorY
	p.cursorX, p.cursorY, p.cursorKnown = fx, fy, true
	if p.stopped {
		return
	}

	switch {
	case pressed && !p.mouseDown:
		if p.timeSlider.Press(fx, fy) {
			p.dirty = true
		} else if p.volumeSlider.Press(fx, fy) {
			p.setVolume(int(math.Round(p.volumeSlider.Value())))
		}
		p.Show(p.showDelay)
	case pressed:
		if p.timeSlider.Drag(fx) {
			p.dirty = true
		}
		if p.volumeSlider.Drag(fx) {
			p.setVolume(int(math.Round(p.volumeSlider.Value())))
		}
		if moved {
			p.Show(p.showDelay)
		}
	case p.mouseDown:
		if p.timeSlider.Release() {
			if err := p.engine.SeekAbsolute(p.timeSlider.Value()); err != nil {
				p.logger.Warn().Err(err).Msg("seek to slider")
			}
		}
		p.volumeSlider.Release()
		p.Show(p.showDelay)
	case moved:
		p.Show(p.showDelay)
	}
	p.mouseDown = pressed
}

// HandleWheel steps the volume; dy > 0 is up.
func (p *ControlPane) HandleWheel(dy float64) {
	switch {
	case dy > 0:
		p.Dispatch(Command{Action: ActionVolume, Volume: p.volumeStep})
	case dy < 0:
		p.Dispatch(Command{Action: ActionVolume, Volume: -p.volumeStep})
	}
}

// StartPolling runs the controller poll loop until ctx is done, the pad is
// unplugged or the pane stops. Commands are dispatched on the UI thread.
func (p *ControlPane) StartPolling(ctx context.Context, pad gamepad.Pad, interval time.Duration) {
	if p.stopped {
		return
	}
	if p.pollCancel != nil {
		p.pollCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.pollCancel = cancel

	poller := &gamepad.Poller{
		Pad:      pad,
		Interval: interval,
		Clock:    p.clock,
		OnState: func(s gamepad.State) {
			for _, cmd := range p.pad.Commands(s) {
				p.runner.Run(func() { p.Dispatch(cmd) })
			}
		},
	}
	go func() {
		defer cancel()
		if err := poller.Run(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("controller poll loop ended")
		}
	}()
}

// Tick pushes the panel to the engine if anything changed since the last call.
func (p *ControlPane) Tick() {
	if !p.dirty || !p.attached || p.stopped {
		return
	}
	p.dirty = false

	ass := ""
	if p.visible {
		ass = renderPanel(p.layout, p.view(), p.timeSlider.Fraction(), p.volumeSlider.Fraction())
	}
	if ass == p.lastASS {
		return
	}
	p.lastASS = ass
	if err := p.engine.SetOSDOverlay(OSDOverlayID, ass, p.layout.Width, p.layout.Height); err != nil {
		p.logger.Debug().Err(err).Msg("osd overlay")
	}
}

func (p *ControlPane) view() panelView {
	v := panelView{
		Position: p.timeSlider.Value(),
		Duration: p.timeSlider.Max(),
		Volume:   p.volume,
		Paused:   p.engine.Paused(),
	}
	if p.entry != nil {
		v.Title = p.entry.Title
		if p.entry.EpisodeCount > 1 {
			v.Episode = p.entry.EpisodeLabel()
		}
	}
	return v
}

// Stop ends the session: the poll loop and hide deadline are cancelled, the
// engine is stopped, the panel removed and the entry saved. Stop is idempotent.
func (p *ControlPane) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.visible = false

	if p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
	}
	p.hide.Cancel()

	if p.engine.Playing() {
		if err := p.engine.Stop(); err != nil {
			p.logger.Warn().Err(err).Msg("stop engine")
		}
	}
	if p.attached && p.lastASS != "" {
		if err := p.engine.SetOSDOverlay(OSDOverlayID, "", p.layout.Width, p.layout.Height); err != nil {
			p.logger.Debug().Err(err).Msg("remove osd overlay")
		}
		p.lastASS = ""
	}

	if p.entry != nil && p.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := p.repo.Update(ctx, p.entry); err != nil {
			p.logger.Error().Err(err).Int64("entry", p.entry.ID).Msg("save entry")
		}
	}
}

// Visible reports whether the panel is showing.
func (p *ControlPane) Visible() bool { return p.visible }

// Volume is the session volume, 0 to 100.
func (p *ControlPane) Volume() int { return p.volume }

// Entry is the bound entry, nil before Update.
func (p *ControlPane) Entry() *library.Entry { return p.entry }

// Stopped reports whether Stop has run.
func (p *ControlPane) Stopped() bool { return p.stopped }
