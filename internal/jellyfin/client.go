package jellyfin

import (
	"fmt"
	"net/http"
	"strings"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

const (
	clientName    = "MediaHand"
	clientVersion = "0.1.0"
	deviceName    = "MediaHand Desktop"
	deviceID      = "mediahand-1"

	// TicksPerSecond is the Jellyfin ticks-per-second factor (100ns ticks).
	TicksPerSecond = 10_000_000
)

// Client wraps the generated Jellyfin API client for the calls the
// library and playback reporting need.
type Client struct {
	api       *jellyfin.APIClient
	token     string
	userID    string
	serverURL string
}

func normalizeURL(serverURL string) string {
	serverURL = strings.TrimSpace(serverURL)
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}
	return strings.TrimRight(serverURL, "/")
}

// NewClient creates a client authenticated with an existing access token.
func NewClient(serverURL, token, userID string) *Client {
	serverURL = normalizeURL(serverURL)
	cfg := jellyfin.NewConfiguration()
	cfg.Servers = jellyfin.ServerConfigurations{
		{URL: serverURL},
	}
	cfg.AddDefaultHeader("X-Emby-Authorization",
		fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
			clientName, deviceName, deviceID, clientVersion))
	cfg.AddDefaultHeader("X-Emby-Token", token)

	return &Client{
		api:       jellyfin.NewAPIClient(cfg),
		token:     token,
		userID:    userID,
		serverURL: serverURL,
	}
}

func (c *Client) ServerURL() string { return c.serverURL }

func respStatus(resp *http.Response) string {
	if resp == nil {
		return "no response"
	}
	return resp.Status
}
