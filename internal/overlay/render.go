package overlay

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// OSDOverlayID is the mpv osd-overlay slot the control panel draws into.
const OSDOverlayID = 40

// ASS colors are &HAABBGGRR.
const (
	assWhite    = "&H00FFFFFF"
	assWhiteDim = "&H60FFFFFF"
	assBlack    = "&H00000000"
	assYellow   = "&H0000FFFF"
	assAccent   = "&H00DCA400"
	assShadow   = "&H80000000"
)

const assFont = `\fnSegoe UI,Liberation Sans,sans-serif`

// hoverMargin extends the hover zone above the panel so the cursor can
// approach the sliders without the panel hiding under it.
const hoverMargin = 10

// Layout places the panel and its sliders for a window size.
type Layout struct {
	Width, Height int

	Panel  Rect
	Time   Rect
	Volume Rect
	// Label is the anchor of the "elapsed - length" text.
	LabelX, LabelY float64
}

// NewLayout computes the panel geometry for a w x h window. The panel spans
// the bottom of the window, the time slider takes most of its width and the
// volume slider sits on the right.
func NewLayout(w, h int) Layout {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	fw, fh := float64(w), float64(h)
	panelH := math.Max(fh*0.14, 60)
	panelY := fh - panelH
	margin := fw * 0.03
	sliderH := math.Max(panelH*0.30, 16)
	sliderY := panelY + panelH*0.38 - sliderH/2

	l := Layout{
		Width:  w,
		Height: h,
		Panel:  Rect{X: 0, Y: panelY, W: fw, H: panelH},
		Time:   Rect{X: margin, Y: sliderY, W: fw * 0.72, H: sliderH},
		Volume: Rect{X: fw * 0.80, Y: sliderY, W: fw*0.97 - fw*0.80, H: sliderH},
	}
	l.LabelX = l.Time.X
	l.LabelY = panelY + panelH*0.75
	return l
}

// HoverZone is the area where the cursor keeps the panel open.
func (l Layout) HoverZone() Rect {
	return Rect{X: l.Panel.X, Y: l.Panel.Y - hoverMargin, W: l.Panel.W, H: l.Panel.H + hoverMargin}
}

// panelView is what a frame of the panel shows.
type panelView struct {
	Position float64
	Duration float64
	Volume   int
	Paused   bool
	Title    string
	Episode  string
}

// renderPanel draws the panel as ASS events in the layout's coordinate space.
func renderPanel(l Layout, v panelView, timeFrac, volFrac float64) string {
	var b strings.Builder

	// Backdrop.
	fmt.Fprintf(&b, "{\\an7\\pos(0,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H40&}m 0 0 l %d 0 l %d %d l 0 %d{\\p0}\n",
		int(l.Panel.Y), assBlack, l.Width, l.Width, int(l.Panel.H), int(l.Panel.H))

	writeTrack(&b, l.Time, timeFrac, assAccent)
	writeTrack(&b, l.Volume, volFrac, assWhite)

	fs := int(math.Max(l.Panel.H*0.22, 14))

	fmt.Fprintf(&b, "{\\an4\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s\\b1}%s{\\r}\n",
		int(l.LabelX), int(l.LabelY), assShadow, fs, assYellow, assFont, formatLabel(v.Position, v.Duration))

	if title := panelTitle(v); title != "" {
		fmt.Fprintf(&b, "{\\an5\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s}%s{\\r}\n",
			int(l.Panel.W/2), int(l.LabelY), assShadow, fs, assWhiteDim, assFont, escapeASS(title))
	}

	fmt.Fprintf(&b, "{\\an4\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s}Vol %d%%{\\r}\n",
		int(l.Volume.X), int(l.LabelY), assShadow, fs, assWhite, assFont, v.Volume)

	if v.Paused {
		fmt.Fprintf(&b, "{\\an6\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s\\b1}PAUSED{\\r}\n",
			int(l.Volume.X+l.Volume.W), int(l.LabelY), assShadow, fs, assWhiteDim, assFont)
	}

	return b.String()
}

func writeTrack(b *strings.Builder, r Rect, frac float64, fill string) {
	frac = math.Max(0, math.Min(1, frac))
	barH := int(math.Max(r.H*0.25, 4))
	barR := barH / 2
	x := int(r.X)
	y := int(r.Y + r.H/2)
	w := int(r.W)

	fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H80&}%s{\\p0}\n",
		x, y-barH/2, assWhite, assRoundRect(0, 0, w, barH, barR))

	fillW := int(float64(w) * frac)
	if fillW > 0 {
		if fillW < barR*2 {
			fillW = barR * 2
		}
		fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s}%s{\\p0}\n",
			x, y-barH/2, fill, assRoundRect(0, 0, fillW, barH, barR))
	}

	knobR := int(math.Max(r.H*0.35, 6))
	fmt.Fprintf(b, "{\\an5\\pos(%d,%d)\\p1\\bord0\\shad2\\3c%s\\1c%s}%s{\\p0}\n",
		x+int(float64(w)*frac), y, assShadow, assWhite, assCircle(0, 0, knobR))
}

func panelTitle(v panelView) string {
	switch {
	case v.Title == "":
		return ""
	case v.Episode == "":
		return v.Title
	default:
		return v.Title + "  " + v.Episode
	}
}

// escapeASS keeps user text from opening override blocks.
func escapeASS(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`, "\n", " ")
	return r.Replace(s)
}

// formatLabel renders the time label as "elapsed - length".
func formatLabel(position, duration float64) string {
	return formatDuration(position) + " - " + formatDuration(duration)
}

// assRoundRect draws a rounded rectangle relative to the \pos anchor.
func assRoundRect(x, y, w, h, r int) string {
	if r > h/2 {
		r = h / 2
	}
	if r > w/2 {
		r = w / 2
	}
	return fmt.Sprintf(
		"m %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d",
		x+r, y,
		x+w-r, y,
		x+w, y, x+w, y, x+w, y+r,
		x+w, y+h-r,
		x+w, y+h, x+w, y+h, x+w-r, y+h,
		x+r, y+h,
		x, y+h, x, y+h, x, y+h-r,
		x, y+r,
		x, y, x, y, x+r, y,
	)
}

// assCircle approximates a circle with four cubic beziers.
func assCircle(cx, cy, r int) string {
	k := r * 55 / 100
	return fmt.Sprintf(
		"m %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d",
		cx, cy-r,
		cx+k, cy-r, cx+r, cy-k, cx+r, cy,
		cx+r, cy+k, cx+k, cy+r, cx, cy+r,
		cx-k, cy+r, cx-r, cy+k, cx-r, cy,
		cx-r, cy-k, cx-k, cy-r, cx, cy-r,
	)
}

func formatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
