package jellyfin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://jf.local", normalizeURL(" jf.local/ "))
	assert.Equal(t, "http://10.0.0.2:8096", normalizeURL("http://10.0.0.2:8096"))
}

func TestStreamURL(t *testing.T) {
	c := NewClient("jf.local", "secret", "user")
	assert.Equal(t, "https://jf.local/Videos/abc%2Fdef/stream?Static=true&api_key=secret", c.StreamURL("abc/def"))
}

func TestSortEpisodes(t *testing.T) {
	eps := []Episode{
		{ID: "s2e1", Season: 2, Index: 1},
		{ID: "s1e2", Season: 1, Index: 2},
		{ID: "s1e1", Season: 1, Index: 1},
	}
	sortEpisodes(eps)
	assert.Equal(t, []string{"s1e1", "s1e2", "s2e1"}, []string{eps[0].ID, eps[1].ID, eps[2].ID})
}
