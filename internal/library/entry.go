package library

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when an entry does not exist in the store.
	ErrNotFound = errors.New("library: entry not found")
	// ErrNoEpisode is returned when an entry's current episode cannot be located.
	ErrNoEpisode = errors.New("library: episode not available")
)

// Source identifies where an entry's episodes come from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceJellyfin Source = "jellyfin"
)

// Entry is a series (or a single film with one episode) in the library.
type Entry struct {
	ID             int64
	Title          string
	Source         Source
	Location       string // directory for local entries, series ID for Jellyfin
	CurrentEpisode int    // 1-based
	EpisodeCount   int
	Volume         int // 0-100
	UpdatedAt      time.Time
}

// IncreaseEpisode moves to the next episode. It reports false at the last one.
func (e *Entry) IncreaseEpisode() bool {
	if e.CurrentEpisode >= e.EpisodeCount {
		return false
	}
	e.CurrentEpisode++
	return true
}

// DecreaseEpisode moves to the previous episode. It reports false at the first one.
func (e *Entry) DecreaseEpisode() bool {
	if e.CurrentEpisode <= 1 {
		return false
	}
	e.CurrentEpisode--
	return true
}

// SetVolume stores v clamped to 0-100.
func (e *Entry) SetVolume(v int) {
	e.Volume = ClampVolume(v)
}

// EpisodeLabel renders "3/12".
func (e *Entry) EpisodeLabel() string {
	return fmt.Sprintf("%d/%d", e.CurrentEpisode, e.EpisodeCount)
}

// ClampVolume bounds v to the 0-100 range used by entries and the overlay.
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Locator resolves the playable location (file path or URL) of an entry's
// current episode.
type Locator interface {
	Locate(ctx context.Context, e *Entry) (string, error)
}

// Locators dispatches to a Locator by entry source.
type Locators map[Source]Locator

func (l Locators) Locate(ctx context.Context, e *Entry) (string, error) {
	loc, ok := l[e.Source]
	if !ok {
		return "", fmt.Errorf("no locator for source %q", e.Source)
	}
	return loc.Locate(ctx, e)
}
