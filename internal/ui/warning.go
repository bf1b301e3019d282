package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WarningDialog is a modal message box dismissed with Enter, Escape or a
// click on its OK button.
type WarningDialog struct {
	Title   string
	Message string

	okRect ButtonRect
}

// ButtonRect is a clickable area in screen coordinates.
type ButtonRect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the button.
func (r ButtonRect) Contains(x, y int) bool {
	return PointInRect(x, y, r.X, r.Y, r.W, r.H)
}

func NewWarningDialog(title, message string) *WarningDialog {
	return &WarningDialog{Title: title, Message: message}
}

// Update reports whether the dialog was dismissed this frame.
func (d *WarningDialog) Update() bool {
	_, enter, back := InputState()
	mx, my, clicked := MouseJustClicked()
	return d.dismissed(enter, back, clicked, mx, my)
}

func (d *WarningDialog) dismissed(enter, back, clicked bool, mx, my int) bool {
	if enter || back {
		return true
	}
	return clicked && d.okRect.Contains(mx, my)
}

func (d *WarningDialog) Draw(dst *ebiten.Image) {
	const (
		w    = 720.0
		pad  = 32.0
		btnW = 120.0
		btnH = 44.0
	)
	bounds := dst.Bounds()
	sw, sh := float64(bounds.Dx()), float64(bounds.Dy())

	vector.DrawFilledRect(dst, 0, 0, float32(sw), float32(sh), ColorOverlay, false)

	_, msgH := MeasureText(d.Message, FontSizeBody)
	h := pad*3 + FontSizeHeading + msgH*3 + btnH
	x := (sw - w) / 2
	y := (sh - h) / 2

	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), ColorSurface, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 2, ColorError, false)

	DrawText(dst, d.Title, x+pad, y+pad, FontSizeHeading, ColorError)
	DrawTextWrapped(dst, d.Message, x+pad, y+pad*1.5+FontSizeHeading, w-pad*2, FontSizeBody, ColorText)

	d.okRect = ButtonRect{X: x + w - pad - btnW, Y: y + h - pad - btnH, W: btnW, H: btnH}
	vector.DrawFilledRect(dst, float32(d.okRect.X), float32(d.okRect.Y), float32(btnW), float32(btnH), ColorPrimary, false)
	DrawTextCentered(dst, "OK", d.okRect.X+btnW/2, d.okRect.Y+btnH/2, FontSizeBody, ColorText)
}
