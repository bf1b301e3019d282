package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/mediahand/internal/library"
)

const (
	entryRowHeight = 64.0
	entryRowGap    = 8.0
	entryStride    = entryRowHeight + entryRowGap
	entryListTop   = SectionPadding + FontSizeTitle + SectionGap

	entryViewHeight = float64(ScreenHeight - entryListTop - SectionPadding)
)

// EntriesScreen lists the library. Up/Down move the focus, Left/Right step
// the focused entry's episode and Enter plays it.
type EntriesScreen struct {
	ScrollState

	entries []*library.Entry
	focused int

	// OnPlay starts playback of an entry.
	OnPlay func(e *library.Entry)
	// OnEpisodeChanged persists an episode step made in the list.
	OnEpisodeChanged func(e *library.Entry)
	// Reload fetches the entries again when the screen becomes active.
	Reload func() ([]*library.Entry, error)
	// OnError reports a failed reload.
	OnError func(err error)
}

func NewEntriesScreen() *EntriesScreen {
	return &EntriesScreen{}
}

func (s *EntriesScreen) Name() string { return "Entries" }

func (s *EntriesScreen) OnEnter() {
	if s.Reload == nil {
		return
	}
	entries, err := s.Reload()
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}
	s.SetEntries(entries)
}

func (s *EntriesScreen) OnExit() {}

// SetEntries replaces the list, keeping the focus on the same entry ID
// when it is still present.
func (s *EntriesScreen) SetEntries(entries []*library.Entry) {
	var focusedID int64 = -1
	if f := s.Focused(); f != nil {
		focusedID = f.ID
	}
	s.entries = entries
	s.focused = 0
	for i, e := range entries {
		if e.ID == focusedID {
			s.focused = i
			break
		}
	}
}

// Entries returns the listed entries.
func (s *EntriesScreen) Entries() []*library.Entry { return s.entries }

// Focused returns the focused entry, or nil for an empty list.
func (s *EntriesScreen) Focused() *library.Entry {
	if s.focused < 0 || s.focused >= len(s.entries) {
		return nil
	}
	return s.entries[s.focused]
}

func (s *EntriesScreen) Update() (*ScreenTransition, error) {
	dir, enter, _ := InputState()
	s.handle(dir, enter)

	if mx, my, clicked := MouseJustClicked(); clicked {
		if i, ok := s.rowAt(mx, my); ok {
			s.focused = i
			s.handle(DirNone, true)
		}
	}
	s.HandleMouseWheel()
	s.Clamp(float64(len(s.entries))*entryStride, entryViewHeight)
	s.Animate()
	// The root list has nowhere to go back to.
	return nil, nil
}

// handle applies one frame of navigation.
func (s *EntriesScreen) handle(dir Direction, enter bool) {
	e := s.Focused()
	if e == nil {
		return
	}
	switch dir {
	case DirUp:
		if s.focused > 0 {
			s.focused--
		}
		s.EnsureRowVisible(s.focused, entryRowHeight, entryStride, entryViewHeight)
	case DirDown:
		if s.focused < len(s.entries)-1 {
			s.focused++
		}
		s.EnsureRowVisible(s.focused, entryRowHeight, entryStride, entryViewHeight)
	case DirLeft:
		if e.DecreaseEpisode() && s.OnEpisodeChanged != nil {
			s.OnEpisodeChanged(e)
		}
	case DirRight:
		if e.IncreaseEpisode() && s.OnEpisodeChanged != nil {
			s.OnEpisodeChanged(e)
		}
	}
	if enter && s.OnPlay != nil {
		s.OnPlay(e)
	}
}

func (s *EntriesScreen) rowAt(mx, my int) (int, bool) {
	y := float64(my) - entryListTop + s.ScrollY
	if y < 0 || mx < SectionPadding || mx > ScreenWidth-SectionPadding {
		return 0, false
	}
	i := int(y / entryStride)
	if i >= len(s.entries) {
		return 0, false
	}
	return i, true
}

func (s *EntriesScreen) Draw(dst *ebiten.Image) {
	DrawText(dst, "Library", SectionPadding, SectionPadding, FontSizeTitle, ColorText)

	if len(s.entries) == 0 {
		DrawText(dst, "No entries. Set [library] root or [jellyfin] in the config.", SectionPadding, entryListTop,
			FontSizeBody, ColorTextSecondary)
		return
	}

	w := float64(ScreenWidth - SectionPadding*2)
	for i, e := range s.entries {
		y := entryListTop + float64(i)*entryStride - s.ScrollY
		if y+entryRowHeight < entryListTop || y > ScreenHeight {
			continue
		}

		bg := ColorSurface
		if i == s.focused {
			bg = ColorSurfaceHover
		}
		vector.DrawFilledRect(dst, SectionPadding, float32(y), float32(w), entryRowHeight, bg, false)
		if i == s.focused {
			vector.StrokeRect(dst, SectionPadding, float32(y), float32(w), entryRowHeight, 2, ColorFocusBorder, false)
		}

		info := fmt.Sprintf("Episode %s   Volume %d%%", e.EpisodeLabel(), e.Volume)
		if e.Source == library.SourceJellyfin {
			info += "   Jellyfin"
		}
		iw, _ := MeasureText(info, FontSizeBody)
		title := TruncateText(e.Title, w-iw-80, FontSizeHeading)
		DrawText(dst, title, SectionPadding+20, y+14, FontSizeHeading, ColorText)
		DrawText(dst, info, SectionPadding+w-20-iw, y+20, FontSizeBody, ColorTextSecondary)
	}
}
