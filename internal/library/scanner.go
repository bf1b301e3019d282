package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/depeter/mediahand/internal/log"
)

// videoExts are the file extensions counted as episodes.
var videoExts = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".webm": true,
	".mov": true, ".m4v": true, ".wmv": true, ".flv": true, ".ts": true,
}

// IsVideo reports whether name has a known video extension.
func IsVideo(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}

// Scanner indexes a directory tree into the store.
type Scanner struct {
	store         *Store
	defaultVolume int
}

// NewScanner creates a scanner; new entries start at defaultVolume.
func NewScanner(store *Store, defaultVolume int) *Scanner {
	return &Scanner{store: store, defaultVolume: ClampVolume(defaultVolume)}
}

// ScanRoot registers every subdirectory of root that holds video files as a
// series, and every video file directly in root as a single-episode entry.
// It returns the number of entries upserted.
func (sc *Scanner) ScanRoot(ctx context.Context, root string) (int, error) {
	logger := log.WithComponent("library")

	dirents, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("read library root: %w", err)
	}

	n := 0
	for _, de := range dirents {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}

		path := filepath.Join(root, de.Name())
		e := &Entry{
			Title:          de.Name(),
			Source:         SourceLocal,
			Location:       path,
			CurrentEpisode: 1,
			Volume:         sc.defaultVolume,
		}

		switch {
		case de.IsDir():
			episodes, err := Episodes(path)
			if err != nil {
				logger.Warn().Err(err).Str("dir", path).Msg("skipping unreadable series directory")
				continue
			}
			if len(episodes) == 0 {
				continue
			}
			e.EpisodeCount = len(episodes)
		case IsVideo(de.Name()):
			e.Title = strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
			e.EpisodeCount = 1
		default:
			continue
		}

		if err := sc.store.Upsert(ctx, e); err != nil {
			return n, err
		}
		n++
	}

	logger.Info().Str("root", root).Int("entries", n).Msg("library scan complete")
	return n, nil
}

// Episodes lists the video files of a series directory in natural order.
func Episodes(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, de := range dirents {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || !IsVideo(de.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	slices.SortFunc(files, func(a, b string) int {
		return naturalCompare(filepath.Base(a), filepath.Base(b))
	})
	return files, nil
}

// LocalLocator resolves episodes from the filesystem.
type LocalLocator struct{}

func (LocalLocator) Locate(_ context.Context, e *Entry) (string, error) {
	info, err := os.Stat(e.Location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoEpisode, err)
	}
	if !info.IsDir() {
		return e.Location, nil
	}

	episodes, err := Episodes(e.Location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoEpisode, err)
	}
	idx := e.CurrentEpisode - 1
	if idx < 0 || idx >= len(episodes) {
		return "", fmt.Errorf("%w: episode %d of %d in %s", ErrNoEpisode, e.CurrentEpisode, len(episodes), e.Location)
	}
	return episodes[idx], nil
}

// naturalCompare orders "ep2" before "ep10", ignoring case.
func naturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		da, db := isDigit(a[0]), isDigit(b[0])
		switch {
		case da && db:
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			if c := compareNumeric(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
		case a[0] != b[0]:
			if a[0] < b[0] {
				return -1
			}
			return 1
		default:
			a, b = a[1:], b[1:]
		}
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares digit runs of any length without overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
