package ui

import "math"

// ScrollState provides reusable vertical scroll tracking with smooth animation.
// Embed this struct in screens that need scrollable content.
type ScrollState struct {
	ScrollY       float64
	TargetScrollY float64
}

// HandleMouseWheel updates the target scroll position from mouse wheel input.
func (s *ScrollState) HandleMouseWheel() {
	_, wy := MouseWheelDelta()
	if wy != 0 {
		s.TargetScrollY -= wy * ScrollWheelSpeed
	}
}

// Animate moves ScrollY towards the target.
func (s *ScrollState) Animate() {
	s.ScrollY = Lerp(s.ScrollY, s.TargetScrollY, ScrollAnimSpeed)
}

// Clamp keeps the target inside content of the given height shown through
// a viewport of viewHeight.
func (s *ScrollState) Clamp(contentHeight, viewHeight float64) {
	maxScroll := math.Max(0, contentHeight-viewHeight)
	s.TargetScrollY = math.Max(0, math.Min(s.TargetScrollY, maxScroll))
}

// EnsureRowVisible scrolls so row (of rowHeight, rows starting at 0 with
// stride) is inside the viewport.
func (s *ScrollState) EnsureRowVisible(row int, rowHeight, stride, viewHeight float64) {
	rowTop := float64(row) * stride
	rowBottom := rowTop + rowHeight

	// Scroll down if row is below viewport
	if rowBottom > viewHeight+s.TargetScrollY {
		s.TargetScrollY = rowBottom - viewHeight
	}
	// Scroll up if row is above viewport
	if rowTop < s.TargetScrollY {
		s.TargetScrollY = rowTop
	}
}

// Reset sets scroll position back to top.
func (s *ScrollState) Reset() {
	s.ScrollY = 0
	s.TargetScrollY = 0
}
