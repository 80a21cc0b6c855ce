// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

// Scroller tracks the scroll position of a virtual page
// seen through a viewport.
// The zero value is a page that fits the viewport.
type Scroller struct {
	// Height of the page, in logical pixels.
	PageHeight float64

	// Distance covered by a line step (wheel notch or
	// arrow key). Zero or less selects 40.
	Step float64

	top  float64
	view float64
}

// NewScroller creates a scroller for a page of the given
// height.
func NewScroller(pageHeight, step float64) *Scroller {
	return &Scroller{PageHeight: pageHeight, Step: step}
}

// Offset returns the scroll offset. It is zero at the top
// of the page and in the range [-Max(), 0].
func (s *Scroller) Offset() float64 { return -s.top }

// Max returns the largest scroll distance.
func (s *Scroller) Max() float64 { return max(0, s.PageHeight-s.view) }

// SetView sets the viewport height.
// It reports whether the offset changed.
func (s *Scroller) SetView(height float64) bool {
	s.view = max(0, height)
	return s.ScrollTo(s.top)
}

// ScrollTo scrolls to distance top from the top of the
// page. It reports whether the offset changed.
func (s *Scroller) ScrollTo(top float64) bool {
	top = max(0, min(s.Max(), top))
	if top == s.top {
		return false
	}
	s.top = top
	return true
}

// ScrollBy scrolls by delta (positive is down).
// It reports whether the offset changed.
func (s *Scroller) ScrollBy(delta float64) bool { return s.ScrollTo(s.top + delta) }

// Lines scrolls by n line steps (positive is down).
// It reports whether the offset changed.
func (s *Scroller) Lines(n float64) bool {
	step := s.Step
	if step <= 0 {
		step = 40
	}
	return s.ScrollBy(n * step)
}

// Key scrolls in response to k.
// It reports whether the offset changed.
func (s *Scroller) Key(k Key) bool {
	switch k {
	case KeyUp:
		return s.Lines(-1)
	case KeyDown:
		return s.Lines(1)
	case KeyPageUp:
		return s.ScrollBy(-s.view)
	case KeyPageDown, KeySpace:
		return s.ScrollBy(s.view)
	case KeyHome:
		return s.ScrollTo(0)
	case KeyEnd:
		return s.ScrollTo(s.Max())
	}
	return false
}
