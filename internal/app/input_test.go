package app

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/overlay"
	"github.com/depeter/mediahand/internal/ui"
)

func pressed(keys ...ebiten.Key) func(ebiten.Key) bool {
	return func(k ebiten.Key) bool {
		for _, p := range keys {
			if p == k {
				return true
			}
		}
		return false
	}
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("Equal, KPAdd")
	require.NoError(t, err)
	assert.Equal(t, Binding{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, b)

	b, err = ParseBinding("")
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = ParseBinding("Space,Hyper")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hyper")
}

func TestKeymap_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	km, err := NewKeymap(cfg.Keybinds, cfg.Overlay)
	require.NoError(t, err)

	cases := []struct {
		key ebiten.Key
		cmd overlay.Command
	}{
		{ebiten.KeyEscape, overlay.Command{Action: overlay.ActionQuit}},
		{ebiten.KeySpace, overlay.Command{Action: overlay.ActionTogglePause}},
		{ebiten.KeyEnter, overlay.Command{Action: overlay.ActionSeek, Seek: 80}},
		{ebiten.KeyF, overlay.Command{Action: overlay.ActionToggleFullscreen}},
		{ebiten.KeyArrowUp, overlay.Command{Action: overlay.ActionNext}},
		{ebiten.KeyArrowDown, overlay.Command{Action: overlay.ActionPrevious}},
		{ebiten.KeyEqual, overlay.Command{Action: overlay.ActionVolume, Volume: 5}},
		{ebiten.KeyNumpadAdd, overlay.Command{Action: overlay.ActionVolume, Volume: 5}},
		{ebiten.KeyMinus, overlay.Command{Action: overlay.ActionVolume, Volume: -5}},
		{ebiten.KeyNumpadSubtract, overlay.Command{Action: overlay.ActionVolume, Volume: -5}},
		{ebiten.KeyNumpad6, overlay.Command{Action: overlay.ActionSeek, Seek: 2}},
		{ebiten.KeyNumpad4, overlay.Command{Action: overlay.ActionSeek, Seek: -2}},
		{ebiten.KeyI, overlay.Command{Action: overlay.ActionShow}},
	}
	for _, tc := range cases {
		t.Run(tc.key.String(), func(t *testing.T) {
			assert.Equal(t, []overlay.Command{tc.cmd}, km.Commands(pressed(tc.key), false))
		})
	}

	assert.Empty(t, km.Commands(pressed(ebiten.KeyF), true), "Ctrl+F is not fullscreen")
	assert.Empty(t, km.Commands(pressed(), false))
}

func TestKeymap_BadBinding(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybinds.VolumeUp = "Equal,Nope"
	_, err := NewKeymap(cfg.Keybinds, cfg.Overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keybinds.volume_up")
}

func TestUIQueue(t *testing.T) {
	q := newUIQueue(2)
	var ran []int

	assert.True(t, q.TryRun(func() {
		ran = append(ran, 1)
		q.Run(func() { ran = append(ran, 3) })
	}))
	q.Run(func() { ran = append(ran, 2) })
	assert.False(t, q.TryRun(func() {}), "full queue drops work")

	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []int{1, 2}, ran)

	assert.Equal(t, 1, q.Drain(), "work queued while draining runs next frame")
	assert.Equal(t, []int{1, 2, 3}, ran)
	assert.Zero(t, q.Drain())
}

func TestRemoteCommands(t *testing.T) {
	down := map[uint16]bool{ui.KeyPlayPause: true, ui.KeyBack: true}
	cmds := remoteCommands(func(code uint16) bool { return down[code] })
	assert.Equal(t, []overlay.Command{
		{Action: overlay.ActionTogglePause},
		{Action: overlay.ActionQuit},
	}, cmds)
	assert.Empty(t, remoteCommands(func(uint16) bool { return false }))
}
