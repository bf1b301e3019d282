package jellyfin

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	jellyfin "github.com/sj14/jellyfin-go/api"

	"github.com/depeter/mediahand/internal/library"
	"github.com/depeter/mediahand/internal/log"
)

// Episode is a playable item of a series.
type Episode struct {
	ID     string
	Name   string
	Season int
	Index  int
}

// located remembers the item ID last resolved per entry so playback
// reporting can reference it.
var located sync.Map // entry ID -> item ID

// Episodes returns all episodes of a series in season/episode order.
func (c *Client) Episodes(ctx context.Context, seriesID string) ([]Episode, error) {
	result, resp, err := c.api.TvShowsAPI.GetEpisodes(ctx, seriesID).
		UserId(c.userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get episodes: %w (status: %s)", err, respStatus(resp))
	}
	episodes := make([]Episode, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Id == nil {
			continue
		}
		episodes = append(episodes, Episode{
			ID:     *item.Id,
			Name:   item.GetName(),
			Season: int(item.GetParentIndexNumber()),
			Index:  int(item.GetIndexNumber()),
		})
	}
	sortEpisodes(episodes)
	return episodes, nil
}

func sortEpisodes(episodes []Episode) {
	slices.SortStableFunc(episodes, func(a, b Episode) int {
		return cmp.Or(cmp.Compare(a.Season, b.Season), cmp.Compare(a.Index, b.Index))
	})
}

// SeriesEntries lists the user's series as library entries. Entries carry
// the default volume; the store keeps any volume the user already chose.
func (c *Client) SeriesEntries(ctx context.Context, defaultVolume int) ([]*library.Entry, error) {
	logger := log.WithComponent("jellyfin")

	result, resp, err := c.api.ItemsAPI.GetItems(ctx).
		UserId(c.userID).
		IncludeItemTypes([]jellyfin.BaseItemKind{jellyfin.BaseItemKind("Series")}).
		Recursive(true).
		SortBy([]jellyfin.ItemSortBy{jellyfin.ITEMSORTBY_SORT_NAME}).
		SortOrder([]jellyfin.SortOrder{jellyfin.SORTORDER_ASCENDING}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get series: %w (status: %s)", err, respStatus(resp))
	}

	var entries []*library.Entry
	for _, item := range result.Items {
		if item.Id == nil {
			continue
		}
		episodes, err := c.Episodes(ctx, *item.Id)
		if err != nil {
			logger.Warn().Err(err).Str("series", item.GetName()).Msg("skipping series")
			continue
		}
		if len(episodes) == 0 {
			continue
		}
		entries = append(entries, &library.Entry{
			Title:          item.GetName(),
			Source:         library.SourceJellyfin,
			Location:       *item.Id,
			CurrentEpisode: 1,
			EpisodeCount:   len(episodes),
			Volume:         defaultVolume,
		})
	}
	return entries, nil
}

// Sync upserts every remote series into the store.
func (c *Client) Sync(ctx context.Context, store *library.Store, defaultVolume int) (int, error) {
	entries, err := c.SeriesEntries(ctx, defaultVolume)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := store.Upsert(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// Locate implements library.Locator with a direct-play stream URL.
func (c *Client) Locate(ctx context.Context, e *library.Entry) (string, error) {
	episodes, err := c.Episodes(ctx, e.Location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", library.ErrNoEpisode, err)
	}
	idx := e.CurrentEpisode - 1
	if idx < 0 || idx >= len(episodes) {
		return "", fmt.Errorf("%w: episode %d of %d", library.ErrNoEpisode, e.CurrentEpisode, len(episodes))
	}
	located.Store(e.ID, episodes[idx].ID)
	return c.StreamURL(episodes[idx].ID), nil
}

// LocatedItem returns the item ID of the episode last located for entryID.
func LocatedItem(entryID int64) (string, bool) {
	v, ok := located.Load(entryID)
	if !ok {
		return "", false
	}
	return v.(string), true
}
