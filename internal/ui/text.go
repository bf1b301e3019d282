package ui

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const ellipsis = "…"

var (
	fontSource *text.GoTextFaceSource
	fontFaces  map[float64]*text.GoTextFace
)

// InitFonts parses the TTF used for all browse text. It must run before
// the first Draw.
func InitFonts(ttfData []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return err
	}
	fontSource = src
	fontFaces = make(map[float64]*text.GoTextFace)
	return nil
}

// GetFace returns the cached face for size.
func GetFace(size float64) *text.GoTextFace {
	if face, ok := fontFaces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: fontSource, Size: size}
	fontFaces[size] = face
	return face
}

func DrawText(dst *ebiten.Image, txt string, x, y float64, size float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, txt, GetFace(size), op)
}

func DrawTextCentered(dst *ebiten.Image, txt string, cx, cy float64, size float64, clr color.Color) {
	w, h := MeasureText(txt, size)
	DrawText(dst, txt, cx-w/2, cy-h/2, size, clr)
}

func MeasureText(txt string, size float64) (float64, float64) {
	return text.Measure(txt, GetFace(size), 0)
}

// TruncateText shortens txt with an ellipsis so it fits in maxWidth.
func TruncateText(txt string, maxWidth, size float64) string {
	return truncateTo(txt, maxWidth, widthFunc(size))
}

// DrawTextWrapped draws txt word-wrapped to maxWidth and returns the height used.
func DrawTextWrapped(dst *ebiten.Image, txt string, x, y, maxWidth float64, size float64, clr color.Color) float64 {
	lineHeight := size * 1.4
	lines := wrapWords(strings.Fields(txt), maxWidth, widthFunc(size))
	for i, line := range lines {
		DrawText(dst, line, x, y+float64(i)*lineHeight, size, clr)
	}
	return float64(len(lines)) * lineHeight
}

func widthFunc(size float64) func(string) float64 {
	return func(s string) float64 {
		w, _ := MeasureText(s, size)
		return w
	}
}

func truncateTo(txt string, maxWidth float64, width func(string) float64) string {
	if width(txt) <= maxWidth {
		return txt
	}
	runes := []rune(txt)
	for n := len(runes) - 1; n > 0; n-- {
		s := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if width(s) <= maxWidth {
			return s
		}
	}
	return ellipsis
}

// wrapWords greedily packs words into lines no wider than maxWidth. A word
// wider than maxWidth gets a line of its own.
func wrapWords(words []string, maxWidth float64, width func(string) float64) []string {
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		next := line + " " + word
		if width(next) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = next
	}
	return append(lines, line)
}
