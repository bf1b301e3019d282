// Package icon draws the window icon: a play glyph above a seek bar, in
// the colors of the playback overlay.
package icon

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	accent     = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	track      = color.RGBA{R: 0x50, G: 0x50, B: 0x5A, A: 0xFF}
	label      = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float32(size)

	fill(img, background, roundRect(0, 0, s, s, s*0.18))

	// Play glyph, optically centred slightly right of the middle.
	fill(img, accent, func(r *vector.Rasterizer) {
		r.MoveTo(s*0.36, s*0.18)
		r.LineTo(s*0.72, s*0.42)
		r.LineTo(s*0.36, s*0.66)
		r.ClosePath()
	})

	// Seek bar with a knob at 40%.
	barY, barH := s*0.78, s*0.07
	fill(img, track, roundRect(s*0.14, barY, s*0.72, barH, barH/2))
	fill(img, label, roundRect(s*0.14, barY, s*0.72*0.4, barH, barH/2))
	fill(img, label, circle(s*0.14+s*0.72*0.4, barY+barH/2, barH*1.2))

	return img
}

func fill(dst draw.Image, c color.Color, path func(*vector.Rasterizer)) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	path(r)
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func roundRect(x, y, w, h, rad float32) func(*vector.Rasterizer) {
	return func(r *vector.Rasterizer) {
		r.MoveTo(x+rad, y)
		r.LineTo(x+w-rad, y)
		r.QuadTo(x+w, y, x+w, y+rad)
		r.LineTo(x+w, y+h-rad)
		r.QuadTo(x+w, y+h, x+w-rad, y+h)
		r.LineTo(x+rad, y+h)
		r.QuadTo(x, y+h, x, y+h-rad)
		r.LineTo(x, y+rad)
		r.QuadTo(x, y, x+rad, y)
		r.ClosePath()
	}
}

func circle(cx, cy, rad float32) func(*vector.Rasterizer) {
	const steps = 24
	return func(r *vector.Rasterizer) {
		r.MoveTo(cx+rad, cy)
		for i := 1; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			r.LineTo(cx+rad*float32(math.Cos(a)), cy+rad*float32(math.Sin(a)))
		}
		r.ClosePath()
	}
}
