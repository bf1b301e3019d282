package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var debugOverlayVisible bool

// ToggleDebugOverlay toggles the debug overlay on F12.
func ToggleDebugOverlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		debugOverlayVisible = !debugOverlayVisible
	}
}

// DrawDebugOverlay lists recent evdev presses, held keys and connected
// controllers, for diagnosing remotes and pads.
func DrawDebugOverlay(screen *ebiten.Image) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 18.0
		marginR = 20.0
		marginT = 20.0
	)

	sections := []struct {
		title string
		lines []string
	}{
		{"evdev key presses", evdevLines()},
		{"keys held", heldKeyLines()},
		{"controllers", gamepadLines()},
	}

	lines := 1
	for _, s := range sections {
		lines += 1 + max(len(s.lines), 1)
	}
	panelH := float64(lines)*lineH + padY*2
	panelW := 460.0
	px := float64(ScreenWidth) - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY
	DrawText(screen, "Debug: input (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH

	for _, s := range sections {
		DrawText(screen, "--- "+s.title+" ---", x, y, FontSizeSmall, ColorTextMuted)
		y += lineH
		if len(s.lines) == 0 {
			DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
			y += lineH
			continue
		}
		for _, line := range s.lines {
			DrawText(screen, line, x, y, FontSizeSmall, ColorText)
			y += lineH
		}
	}
}

func evdevLines() []string {
	now := time.Now()
	var out []string
	for _, ev := range EvdevRecentEvents() {
		age := now.Sub(ev.Time).Truncate(time.Millisecond)
		out = append(out, fmt.Sprintf("%s  code=%-4d  type=%-2d  val=%d  %s ago", ev.Device, ev.Code, ev.Type, ev.Value, age))
	}
	return out
}

func heldKeyLines() []string {
	var out []string
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if ebiten.IsKeyPressed(k) {
			out = append(out, fmt.Sprintf("  %s (%d)", k.String(), int(k)))
		}
	}
	return out
}

func gamepadLines() []string {
	var out []string
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		layout := "raw"
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			layout = "standard"
		}
		out = append(out, fmt.Sprintf("  #%d %s (%s)", int(id), ebiten.GamepadName(id), layout))
	}
	return out
}
