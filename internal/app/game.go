package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/jellyfin"
	"github.com/depeter/mediahand/internal/library"
	"github.com/depeter/mediahand/internal/log"
	"github.com/depeter/mediahand/internal/overlay"
	"github.com/depeter/mediahand/internal/player"
	"github.com/depeter/mediahand/internal/ui"
)

// AppState is the scene the game loop is in.
type AppState int

const (
	StateBrowse AppState = iota
	StatePlay
)

const (
	uiQueueSize   = 256
	osdMessageMs  = 3000
	reportTimeout = 10 * time.Second
)

// Store is the entry repository the game reads and writes.
type Store interface {
	List(ctx context.Context) ([]*library.Entry, error)
	Update(ctx context.Context, e *library.Entry) error
}

// Engine is the embedded player as the game drives it.
type Engine interface {
	overlay.Engine
	SetWindowID(wid int64) error
	LoadFile(url, itemID string) error
	ShowText(text string, ms int) error
	ItemID() string
	Destroy()
}

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Config   *config.Config
	Store    Store
	Locators library.Locators
	Jellyfin *jellyfin.Client // nil when no server is configured
	Player   Engine           // created on first playback when nil
	Screens  *ui.ScreenManager
	Entries  *ui.EntriesScreen

	Pads         PadSource
	WindowHandle func() (int64, error)
	Clock        clockwork.Clock // nil uses the real clock

	State         AppState
	Width, Height int

	ctx    context.Context
	cancel context.CancelFunc
	queue  *uiQueue
	keymap *Keymap
	logger zerolog.Logger

	pane  *overlay.ControlPane
	entry *library.Entry
}

// NewGame creates the Game in browse mode. jf may be nil.
func NewGame(cfg *config.Config, store Store, locators library.Locators, jf *jellyfin.Client) (*Game, error) {
	keymap, err := NewKeymap(cfg.Keybinds, cfg.Overlay)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		Config:   cfg,
		Store:    store,
		Locators: locators,
		Jellyfin: jf,
		Screens:  ui.NewScreenManager(),
		State:    StateBrowse,
		Width:    cfg.UI.Width,
		Height:   cfg.UI.Height,
		ctx:      ctx,
		cancel:   cancel,
		queue:    newUIQueue(uiQueueSize),
		keymap:   keymap,
		logger:   log.WithComponent("app"),

		Pads:         &sharedPad{open: FirstGamepad},
		WindowHandle: player.GetWindowHandle,
	}

	g.Entries = ui.NewEntriesScreen()
	g.Entries.Reload = func() ([]*library.Entry, error) { return g.Store.List(g.ctx) }
	g.Entries.OnError = func(err error) { g.Warn("Library", err.Error()) }
	g.Entries.OnPlay = g.StartPlayback
	g.Entries.OnEpisodeChanged = g.save
	g.Screens.Push(g.Entries)
	return g, nil
}

// Runner exposes the UI-thread queue to background work.
func (g *Game) Runner() overlay.Runner { return g.queue }

// RefreshEntries reloads the browse list; call it on the UI thread.
func (g *Game) RefreshEntries() {
	g.Entries.OnEnter()
}

// InitPlayer creates the mpv player instance. Call after the window is visible.
func (g *Game) InitPlayer() error {
	p, err := player.New(g.Config)
	if err != nil {
		return err
	}
	p.OnPlaybackEnd = func() { g.queue.Run(g.playbackEnded) }
	p.OnTimeChanged = func(s float64) {
		g.queue.Run(func() {
			if g.pane != nil {
				g.pane.OnTimeChanged(s)
			}
		})
	}
	p.OnDurationChanged = func(s float64) {
		g.queue.Run(func() {
			if g.pane != nil {
				g.pane.OnDurationChanged(s)
			}
		})
	}
	g.Player = p
	return nil
}

// StartPlayback plays the current episode of entry under a fresh control pane.
func (g *Game) StartPlayback(entry *library.Entry) {
	if g.Player == nil {
		if err := g.InitPlayer(); err != nil {
			g.Warn("Playback", fmt.Sprintf("Could not start the player: %v", err))
			return
		}
	}

	// Get window handle and set on mpv
	wid, err := g.WindowHandle()
	if err != nil {
		g.logger.Warn().Err(err).Msg("window handle")
	} else if err := g.Player.SetWindowID(wid); err != nil {
		g.logger.Warn().Err(err).Msg("set window id")
	}

	location, err := g.Locators.Locate(g.ctx, entry)
	if err != nil {
		g.Warn("Playback", fmt.Sprintf("Could not play %s: %v", entry.Title, err))
		return
	}

	itemID := ""
	if entry.Source == library.SourceJellyfin {
		itemID, _ = jellyfin.LocatedItem(entry.ID)
	}
	if err := g.Player.LoadFile(location, itemID); err != nil {
		g.Warn("Playback", fmt.Sprintf("Could not load %s: %v", entry.Title, err))
		return
	}
	g.logger.Info().Str("title", entry.Title).Str("episode", entry.EpisodeLabel()).Msg("playback started")

	if itemID != "" && g.Jellyfin != nil {
		go g.report(func(ctx context.Context) error { return g.Jellyfin.ReportPlaybackStart(ctx, itemID) })
	}

	ov := g.Config.Overlay
	pane := overlay.NewControlPane(overlay.Options{
		Engine:     g.Player,
		Shell:      g,
		Repository: g.Store,
		Runner:     g.queue,
		Clock:      g.Clock,
		ShowDelay:  ov.ShowDelay(),
		PauseDelay: ov.PauseDelay(),
		VolumeStep: ov.VolumeStep,
		Pad:        overlay.PadMapping{SkipIntro: ov.SkipIntro, Seek: ov.PadSeek, FastSeek: ov.PadSeekFast},
	})
	pane.Attach(g.Width, g.Height)
	g.pane = pane
	g.entry = entry
	g.State = StatePlay
	pane.Update(entry)

	if g.Config.Gamepad.Enabled && g.Pads != nil {
		if pad, err := g.Pads.Acquire(); err == nil {
			g.logger.Debug().Msg("controller attached")
			pane.StartPolling(g.ctx, pad, g.Config.Gamepad.Interval())
		} else {
			g.logger.Debug().Err(err).Msg("no controller")
		}
	}
}

// StopPlayback ends the session and returns to browse mode.
func (g *Game) StopPlayback() {
	g.endSession()
	g.State = StateBrowse
	g.RefreshEntries()
}

// endSession stops the pane, which stops the engine and saves the entry.
// It is a no-op without a session.
func (g *Game) endSession() {
	if g.pane == nil {
		return
	}
	var (
		position float64
		itemID   string
	)
	if g.Player != nil {
		position = g.Player.Position()
		itemID = g.Player.ItemID()
	}
	g.pane.Stop()
	g.pane = nil
	if itemID != "" && g.Jellyfin != nil {
		go g.report(func(ctx context.Context) error {
			return g.Jellyfin.ReportPlaybackStopped(ctx, itemID, position)
		})
	}
}

func (g *Game) report(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(g.ctx, reportTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("jellyfin playback report")
	}
}

func (g *Game) save(e *library.Entry) {
	ctx, cancel := context.WithTimeout(g.ctx, reportTimeout)
	defer cancel()
	if err := g.Store.Update(ctx, e); err != nil {
		g.logger.Error().Err(err).Int64("entry", e.ID).Msg("save entry")
	}
}

// playbackEnded advances to the next episode, or returns to browse at the
// end of the entry.
func (g *Game) playbackEnded() {
	if g.State != StatePlay || g.entry == nil {
		return
	}
	entry := g.entry
	g.endSession()
	g.State = StateBrowse
	if entry.IncreaseEpisode() {
		g.save(entry)
		g.StartPlayback(entry)
		if g.State == StatePlay {
			return
		}
	}
	g.RefreshEntries()
}

// ShowMenu returns to the library.
func (g *Game) ShowMenu() {
	g.StopPlayback()
}

func (g *Game) ToggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

func (g *Game) NextEpisode() {
	g.stepEpisode((*library.Entry).IncreaseEpisode, "No next episode")
}

func (g *Game) PreviousEpisode() {
	g.stepEpisode((*library.Entry).DecreaseEpisode, "No previous episode")
}

// stepEpisode replays entry at the neighbouring episode. The fullscreen
// state is left alone.
func (g *Game) stepEpisode(step func(*library.Entry) bool, none string) {
	entry := g.entry
	if entry == nil || g.pane == nil {
		return
	}
	probe := *entry
	if !step(&probe) {
		if g.Player != nil {
			if err := g.Player.ShowText(none, osdMessageMs); err != nil {
				g.logger.Debug().Err(err).Msg("osd text")
			}
		}
		return
	}
	g.endSession()
	g.State = StateBrowse
	step(entry)
	g.save(entry)
	g.StartPlayback(entry)
	if g.State != StatePlay {
		g.RefreshEntries()
	}
}

// Warn logs a warning and shows it: as OSD text while playing, as a dialog
// while browsing.
func (g *Game) Warn(title, message string) {
	g.logger.Warn().Str("title", title).Msg(message)
	if g.State == StatePlay && g.Player != nil {
		if err := g.Player.ShowText(title+": "+message, osdMessageMs); err == nil {
			return
		}
	}
	g.Screens.ShowWarning(title, message)
}

func (g *Game) Update() error {
	g.queue.Drain()

	// Alt+Enter toggles fullscreen (works in all modes)
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && alt {
		g.ToggleFullscreen()
	}
	// F12 toggles debug overlay (works in all modes)
	ui.ToggleDebugOverlay()

	switch g.State {
	case StateBrowse:
		if err := g.Screens.Update(); err != nil {
			return err
		}
	case StatePlay:
		if g.pane == nil {
			g.State = StateBrowse
			break
		}
		if !alt {
			g.handlePlaybackInput()
		}
		if g.pane != nil {
			g.pane.Tick()
		}
	}

	ui.UpdateInputState()
	return nil
}

// handlePlaybackInput forwards keys, mouse and wheel to the pane. mpv runs
// without its own input bindings, so every control goes through here.
func (g *Game) handlePlaybackInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	cmds := g.keymap.Commands(inpututil.IsKeyJustPressed, ctrl)
	cmds = append(cmds, remoteCommands(ui.RemoteJustPressed)...)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButton3) {
		cmds = append(cmds, overlay.Command{Action: overlay.ActionQuit})
	}
	if !g.dispatch(cmds) {
		return
	}

	x, y := ebiten.CursorPosition()
	g.pane.HandleMouse(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.pane.HandleWheel(dy)
	}
}

// dispatch sends cmds to the current pane in order. It stops at the first
// command that ends or replaces the session and then reports false, so the
// rest of the frame's input never reaches the next episode.
func (g *Game) dispatch(cmds []overlay.Command) bool {
	pane := g.pane
	for _, cmd := range cmds {
		if pane == nil || pane.Stopped() {
			return false
		}
		pane.Dispatch(cmd)
		if g.pane != pane {
			return false
		}
	}
	return pane != nil && !pane.Stopped()
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.State {
	case StateBrowse:
		screen.Fill(ui.ColorBackground)
		g.Screens.Draw(screen)
		ui.DrawDebugOverlay(screen)
	case StatePlay:
		// mpv owns the window surface via --wid and draws the overlay
		// through osd-overlay.
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}

// Close ends any session, stops background work and shuts mpv down.
func (g *Game) Close() {
	if g.pane != nil {
		g.endSession()
	}
	g.cancel()
	if g.Player != nil {
		g.Player.Destroy()
	}
}
