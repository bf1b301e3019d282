package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/gamepad"
	"github.com/depeter/mediahand/internal/library"
	"github.com/depeter/mediahand/internal/overlay"
)

type fakeEngine struct {
	loads   []string
	texts   []string
	toggles int
	stops   int
	playing bool
}

func (e *fakeEngine) TogglePause() error                        { e.toggles++; return nil }
func (e *fakeEngine) Seek(float64) error                        { return nil }
func (e *fakeEngine) SeekAbsolute(float64) error                { return nil }
func (e *fakeEngine) SetVolume(int) error                       { return nil }
func (e *fakeEngine) Stop() error                               { e.stops++; e.playing = false; return nil }
func (e *fakeEngine) Playing() bool                             { return e.playing }
func (e *fakeEngine) Paused() bool                              { return false }
func (e *fakeEngine) Position() float64                         { return 0 }
func (e *fakeEngine) Duration() float64                         { return 1200 }
func (e *fakeEngine) SetOSDOverlay(int, string, int, int) error { return nil }
func (e *fakeEngine) SetWindowID(int64) error                   { return nil }
func (e *fakeEngine) ShowText(text string, _ int) error         { e.texts = append(e.texts, text); return nil }
func (e *fakeEngine) ItemID() string                            { return "" }
func (e *fakeEngine) Destroy()                                  {}

func (e *fakeEngine) LoadFile(url, _ string) error {
	e.loads = append(e.loads, url)
	e.playing = true
	return nil
}

type fakeStore struct {
	entries []*library.Entry
	saved   []library.Entry
	lists   int
}

func (s *fakeStore) List(context.Context) ([]*library.Entry, error) {
	s.lists++
	return s.entries, nil
}

func (s *fakeStore) Update(_ context.Context, e *library.Entry) error {
	s.saved = append(s.saved, *e)
	return nil
}

type episodeLocator struct{ err error }

func (l *episodeLocator) Locate(_ context.Context, e *library.Entry) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return fmt.Sprintf("%s/ep%d.mkv", e.Title, e.CurrentEpisode), nil
}

type gameHarness struct {
	game    *Game
	engine  *fakeEngine
	store   *fakeStore
	locator *episodeLocator
	clock   *clockwork.FakeClock
	entry   *library.Entry
}

func newGameHarness(t *testing.T, current, count int) *gameHarness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Gamepad.Enabled = false

	entry := &library.Entry{ID: 7, Title: "Show", Source: library.SourceLocal, CurrentEpisode: current, EpisodeCount: count, Volume: 40}
	store := &fakeStore{entries: []*library.Entry{entry}}
	locator := &episodeLocator{}
	g, err := NewGame(cfg, store, library.Locators{library.SourceLocal: locator}, nil)
	require.NoError(t, err)

	h := &gameHarness{game: g, engine: &fakeEngine{}, store: store, locator: locator, clock: clockwork.NewFakeClock(), entry: entry}
	g.Player = h.engine
	g.Clock = h.clock
	g.WindowHandle = func() (int64, error) { return 1, nil }
	g.Pads = nil
	t.Cleanup(g.Close)
	return h
}

func (h *gameHarness) lastSaved(t *testing.T) library.Entry {
	t.Helper()
	require.NotEmpty(t, h.store.saved)
	return h.store.saved[len(h.store.saved)-1]
}

func TestStartPlayback_BindsSession(t *testing.T) {
	h := newGameHarness(t, 1, 3)
	h.game.StartPlayback(h.entry)

	assert.Equal(t, StatePlay, h.game.State)
	assert.Equal(t, []string{"Show/ep1.mkv"}, h.engine.loads)
	require.NotNil(t, h.game.pane)
	assert.Same(t, h.entry, h.game.pane.Entry())
	assert.Equal(t, 40, h.game.pane.Volume())
}

func TestStartPlayback_LocateFailureWarns(t *testing.T) {
	h := newGameHarness(t, 1, 3)
	h.locator.err = library.ErrNoEpisode
	h.game.StartPlayback(h.entry)

	assert.Equal(t, StateBrowse, h.game.State)
	assert.Nil(t, h.game.pane)
	assert.Empty(t, h.engine.loads)
	require.NotNil(t, h.game.Screens.Warning())
	assert.Equal(t, "Playback", h.game.Screens.Warning().Title)
}

func TestNextEpisode_Replays(t *testing.T) {
	h := newGameHarness(t, 1, 3)
	h.game.StartPlayback(h.entry)
	first := h.game.pane

	h.game.NextEpisode()

	assert.True(t, first.Stopped())
	require.NotNil(t, h.game.pane)
	assert.NotSame(t, first, h.game.pane)
	assert.Equal(t, StatePlay, h.game.State)
	assert.Equal(t, 2, h.entry.CurrentEpisode)
	assert.Equal(t, []string{"Show/ep1.mkv", "Show/ep2.mkv"}, h.engine.loads)
	assert.Equal(t, 1, h.engine.stops)
	assert.Equal(t, 2, h.lastSaved(t).CurrentEpisode)
}

func TestStepEpisode_NoneAvailableKeepsSession(t *testing.T) {
	tests := []struct {
		name    string
		current int
		step    func(*Game)
		text    string
	}{
		{"next at last", 3, (*Game).NextEpisode, "No next episode"},
		{"previous at first", 1, (*Game).PreviousEpisode, "No previous episode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newGameHarness(t, tt.current, 3)
			h.game.StartPlayback(h.entry)
			pane := h.game.pane

			tt.step(h.game)

			assert.Same(t, pane, h.game.pane)
			assert.False(t, pane.Stopped())
			assert.Equal(t, []string{tt.text}, h.engine.texts)
			assert.Len(t, h.engine.loads, 1)
			assert.Equal(t, tt.current, h.entry.CurrentEpisode)
		})
	}
}

func TestPlaybackEnded_AdvancesToNextEpisode(t *testing.T) {
	h := newGameHarness(t, 1, 2)
	h.game.StartPlayback(h.entry)
	h.engine.playing = false

	h.game.playbackEnded()

	assert.Equal(t, StatePlay, h.game.State)
	assert.Equal(t, 2, h.entry.CurrentEpisode)
	assert.Equal(t, []string{"Show/ep1.mkv", "Show/ep2.mkv"}, h.engine.loads)
	assert.Equal(t, 2, h.lastSaved(t).CurrentEpisode)
}

func TestPlaybackEnded_LastEpisodeReturnsToBrowse(t *testing.T) {
	h := newGameHarness(t, 2, 2)
	h.game.StartPlayback(h.entry)
	h.engine.playing = false
	lists := h.store.lists

	h.game.playbackEnded()

	assert.Equal(t, StateBrowse, h.game.State)
	assert.Nil(t, h.game.pane)
	assert.Len(t, h.engine.loads, 1)
	assert.Equal(t, 2, h.entry.CurrentEpisode)
	assert.Greater(t, h.store.lists, lists, "browse list is reloaded")
	assert.Equal(t, 2, h.lastSaved(t).CurrentEpisode)
}

func TestDispatch_StopsAtSessionChange(t *testing.T) {
	pause := overlay.Command{Action: overlay.ActionTogglePause}

	t.Run("next", func(t *testing.T) {
		h := newGameHarness(t, 1, 3)
		h.game.StartPlayback(h.entry)

		kept := h.game.dispatch([]overlay.Command{{Action: overlay.ActionNext}, pause, pause})

		assert.False(t, kept)
		assert.Equal(t, 2, h.entry.CurrentEpisode)
		assert.Zero(t, h.engine.toggles, "later commands must not reach the next episode")
	})

	t.Run("quit", func(t *testing.T) {
		h := newGameHarness(t, 1, 3)
		h.game.StartPlayback(h.entry)

		kept := h.game.dispatch([]overlay.Command{{Action: overlay.ActionQuit}, pause})

		assert.False(t, kept)
		assert.Equal(t, StateBrowse, h.game.State)
		assert.Zero(t, h.engine.toggles)
	})

	t.Run("same session", func(t *testing.T) {
		h := newGameHarness(t, 1, 3)
		h.game.StartPlayback(h.entry)

		assert.True(t, h.game.dispatch([]overlay.Command{pause, pause}))
		assert.Equal(t, 2, h.engine.toggles)
	})
}

// heldButtons is a controller whose buttons stay down once held.
type heldButtons struct {
	mu      sync.Mutex
	held    map[gamepad.Button]bool
	samples int
	gone    bool
}

func (b *heldButtons) hold(btn gamepad.Button) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.held == nil {
		b.held = make(map[gamepad.Button]bool)
	}
	b.held[btn] = true
}

func (b *heldButtons) unplug() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gone = true
}

func (b *heldButtons) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples
}

func (b *heldButtons) sample() (func(gamepad.Button) bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples++
	if b.gone {
		return nil, gamepad.ErrUnplugged
	}
	snap := make(map[gamepad.Button]bool, len(b.held))
	for k, v := range b.held {
		snap[k] = v
	}
	return func(btn gamepad.Button) bool { return snap[btn] }, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGamepad_HeldBumperStepsOnce(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := newGameHarness(t, 1, 5)
	buttons := &heldButtons{}
	opens := 0
	h.game.Config.Gamepad.Enabled = true
	h.game.Pads = &sharedPad{open: func() (*TrackedPad, error) {
		opens++
		return newTrackedPad("pad", buttons.sample), nil
	}}

	h.game.StartPlayback(h.entry)
	// Resync on acquire, then the loop's first poll.
	waitFor(t, func() bool { return buttons.count() >= 2 })

	buttons.hold(gamepad.ButtonRightBumper)
	h.clock.Advance(h.game.Config.Gamepad.Interval())
	waitFor(t, func() bool {
		h.game.queue.Drain()
		return h.entry.CurrentEpisode == 2
	})

	// The second session resyncs and polls once with RB still down.
	waitFor(t, func() bool { return buttons.count() >= 5 })
	for range 20 {
		h.game.queue.Drain()
		time.Sleep(2 * time.Millisecond)
	}

	assert.Equal(t, 2, h.entry.CurrentEpisode, "one bumper press is one episode step")
	assert.Equal(t, []string{"Show/ep1.mkv", "Show/ep2.mkv"}, h.engine.loads)
	assert.Equal(t, 1, opens, "the controller is shared across sessions")

	h.game.Close()
}

func TestSharedPad_ResyncAndReopen(t *testing.T) {
	first := &heldButtons{}
	second := &heldButtons{}
	pads := []*heldButtons{first, second}
	src := &sharedPad{open: func() (*TrackedPad, error) {
		b := pads[0]
		pads = pads[1:]
		return newTrackedPad("pad", b.sample), nil
	}}

	first.hold(gamepad.ButtonB)
	pad, err := src.Acquire()
	require.NoError(t, err)
	s, err := pad.Poll()
	require.NoError(t, err)
	assert.True(t, s.Pressed(gamepad.ButtonB))
	assert.False(t, s.JustPressed(gamepad.ButtonB), "held at acquire is not a press")

	again, err := src.Acquire()
	require.NoError(t, err)
	assert.Same(t, pad, again)

	first.unplug()
	reopened, err := src.Acquire()
	require.NoError(t, err)
	assert.NotSame(t, pad, reopened)
	assert.Empty(t, pads)
}

func TestSharedPad_OpenError(t *testing.T) {
	src := &sharedPad{open: func() (*TrackedPad, error) { return nil, gamepad.ErrNoGamepad }}
	_, err := src.Acquire()
	require.ErrorIs(t, err, gamepad.ErrNoGamepad)
}
