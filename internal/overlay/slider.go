package overlay

// Rect is an axis-aligned rectangle in window coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Slider is a horizontal value slider. While pressed the value belongs to
// the user; callers check Pressed before pushing outside updates into it.
type Slider struct {
	Bounds Rect

	min, max float64
	value    float64
	pressed  bool
}

// NewSlider creates a slider over [min, max] starting at value.
func NewSlider(min, max, value float64) *Slider {
	s := &Slider{}
	s.SetRange(min, max)
	s.SetValue(value)
	return s
}

// SetRange changes the bounds and re-clamps the value.
func (s *Slider) SetRange(min, max float64) {
	if max < min {
		max = min
	}
	s.min, s.max = min, max
	s.SetValue(s.value)
}

func (s *Slider) Min() float64   { return s.min }
func (s *Slider) Max() float64   { return s.max }
func (s *Slider) Value() float64 { return s.value }
func (s *Slider) Pressed() bool  { return s.pressed }

// SetValue stores v clamped to the range and returns the stored value.
func (s *Slider) SetValue(v float64) float64 {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
	return v
}

// Fraction is the value's position in the range, 0..1.
func (s *Slider) Fraction() float64 {
	if s.max <= s.min {
		return 0
	}
	return (s.value - s.min) / (s.max - s.min)
}

func (s *Slider) valueAt(x float64) float64 {
	if s.Bounds.W <= 0 {
		return s.value
	}
	frac := (x - s.Bounds.X) / s.Bounds.W
	return s.min + frac*(s.max-s.min)
}

// Press starts a drag if (x, y) hits the slider and jumps the value there.
func (s *Slider) Press(x, y float64) bool {
	if !s.Bounds.Contains(x, y) {
		return false
	}
	s.pressed = true
	s.SetValue(s.valueAt(x))
	return true
}

// Drag follows the cursor while pressed. It reports whether the value moved.
func (s *Slider) Drag(x float64) bool {
	if !s.pressed {
		return false
	}
	old := s.value
	return s.SetValue(s.valueAt(x)) != old
}

// Release ends a drag. It reports whether the slider was pressed.
func (s *Slider) Release() bool {
	was := s.pressed
	s.pressed = false
	return was
}
