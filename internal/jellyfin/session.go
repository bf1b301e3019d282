package jellyfin

import (
	"context"
	"fmt"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

// ReportPlaybackStart notifies the server that playback has started.
func (c *Client) ReportPlaybackStart(ctx context.Context, itemID string) error {
	body := *jellyfin.NewPlaybackStartInfo()
	body.SetItemId(itemID)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	resp, err := c.api.PlaystateAPI.ReportPlaybackStart(ctx).PlaybackStartInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback start: %w (status: %s)", err, respStatus(resp))
	}
	return nil
}

// ReportPlaybackStopped notifies the server that playback has stopped at
// position seconds.
func (c *Client) ReportPlaybackStopped(ctx context.Context, itemID string, position float64) error {
	body := *jellyfin.NewPlaybackStopInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(int64(position * TicksPerSecond))

	resp, err := c.api.PlaystateAPI.ReportPlaybackStopped(ctx).PlaybackStopInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback stopped: %w (status: %s)", err, respStatus(resp))
	}
	return nil
}
