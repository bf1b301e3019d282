package ui

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/mediahand/internal/library"
)

func sampleEntries() []*library.Entry {
	return []*library.Entry{
		{ID: 1, Title: "Alpha", CurrentEpisode: 1, EpisodeCount: 3, Volume: 50},
		{ID: 2, Title: "Beta", CurrentEpisode: 2, EpisodeCount: 2, Volume: 20},
	}
}

func TestEntriesScreen_Navigation(t *testing.T) {
	s := NewEntriesScreen()
	var played, changed []int64
	s.OnPlay = func(e *library.Entry) { played = append(played, e.ID) }
	s.OnEpisodeChanged = func(e *library.Entry) { changed = append(changed, e.ID) }
	s.SetEntries(sampleEntries())

	s.handle(DirUp, false)
	assert.Equal(t, int64(1), s.Focused().ID, "focus stops at the top")

	s.handle(DirRight, false)
	assert.Equal(t, 2, s.Focused().CurrentEpisode)
	s.handle(DirLeft, false)
	s.handle(DirLeft, false)
	assert.Equal(t, 1, s.Focused().CurrentEpisode)
	assert.Equal(t, []int64{1, 1}, changed, "a step past the first episode is not saved")

	s.handle(DirDown, false)
	s.handle(DirDown, false)
	assert.Equal(t, int64(2), s.Focused().ID)
	s.handle(DirRight, false)
	assert.Equal(t, 2, s.Focused().CurrentEpisode, "already at the last episode")

	s.handle(DirNone, true)
	assert.Equal(t, []int64{2}, played)
}

func TestEntriesScreen_EmptyAndReload(t *testing.T) {
	s := NewEntriesScreen()
	assert.Nil(t, s.Focused())
	assert.NotPanics(t, func() { s.handle(DirDown, true) })

	s.SetEntries(sampleEntries())
	s.handle(DirDown, false)

	reloaded := sampleEntries()
	reloaded[0], reloaded[1] = reloaded[1], reloaded[0]
	s.Reload = func() ([]*library.Entry, error) { return reloaded, nil }
	s.OnEnter()
	assert.Equal(t, int64(2), s.Focused().ID, "focus follows the entry across reloads")

	var reported error
	s.Reload = func() ([]*library.Entry, error) { return nil, errors.New("db locked") }
	s.OnError = func(err error) { reported = err }
	s.OnEnter()
	require.Error(t, reported)
	assert.Len(t, s.Entries(), 2, "failed reload keeps the old list")
}

func TestEntriesScreen_RowAt(t *testing.T) {
	s := NewEntriesScreen()
	s.SetEntries(sampleEntries())

	i, ok := s.rowAt(SectionPadding+10, int(entryListTop)+int(entryRowHeight)+int(entryRowGap)+5)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.rowAt(SectionPadding+10, int(entryListTop)-5)
	assert.False(t, ok)
	_, ok = s.rowAt(SectionPadding+10, int(entryListTop)+int(5*(entryRowHeight+entryRowGap)))
	assert.False(t, ok)
}

type stubScreen struct {
	name          string
	enters, exits int
}

func (s *stubScreen) Update() (*ScreenTransition, error) { return nil, nil }
func (s *stubScreen) Draw(*ebiten.Image)                 {}
func (s *stubScreen) OnEnter()                           { s.enters++ }
func (s *stubScreen) OnExit()                            { s.exits++ }
func (s *stubScreen) Name() string                       { return s.name }

func TestScreenManager_RootStays(t *testing.T) {
	sm := NewScreenManager()
	root := &stubScreen{name: "root"}
	child := &stubScreen{name: "child"}

	sm.Push(root)
	sm.Pop()
	assert.Same(t, root, sm.Current(), "the root screen cannot be popped")

	sm.apply(&ScreenTransition{Type: TransitionPush, Screen: child})
	assert.Equal(t, 2, sm.StackSize())
	sm.apply(&ScreenTransition{Type: TransitionPop})
	assert.Same(t, root, sm.Current())
	assert.Equal(t, 1, child.exits)
	assert.Equal(t, 2, root.enters)
}

func TestWarningDialog(t *testing.T) {
	sm := NewScreenManager()
	sm.ShowWarning("Playback", "file missing")
	w := sm.Warning()
	require.NotNil(t, w)
	assert.Equal(t, "Playback", w.Title)

	w.okRect = ButtonRect{X: 10, Y: 10, W: 100, H: 40}
	assert.False(t, w.dismissed(false, false, true, 0, 0))
	assert.True(t, w.dismissed(false, false, true, 50, 30))
	assert.True(t, w.dismissed(true, false, false, 0, 0))
	assert.True(t, w.dismissed(false, true, false, 0, 0))
}
