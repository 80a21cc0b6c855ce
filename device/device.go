// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package device classifies the host's viewport into a
// performance profile.
package device

import (
	"regexp"
	"time"

	"github.com/mileusna/useragent"
)

// Viewport widths (logical pixels) below which the
// profile degrades.
const (
	NarrowWidth = 768
	SmallWidth  = 480
)

// Profile parameters.
const (
	DesktopScale = 1.0
	MobileScale  = 0.85

	DesktopFPS = 60
	MobileFPS  = 30

	DesktopStars = 200
	MobileStars  = 50
	SmallStars   = 25

	// Rotation step factor on narrow viewports.
	NarrowRotation = 0.7
)

// Torus tessellation tiers.
var (
	DesktopTorus = Segments{Radial: 16, Tubular: 100}
	MobileTorus  = Segments{Radial: 8, Tubular: 50}
	SmallTorus   = Segments{Radial: 6, Tubular: 30}
)

// Segments is a torus tessellation.
type Segments struct {
	Radial  int
	Tubular int
}

// Viewport describes the current presentation surface.
type Viewport struct {
	// Logical size.
	Width  int
	Height int

	// Device pixels per logical pixel.
	PixelRatio float64

	UserAgent string
}

// Portrait reports whether v is taller than wide.
func (v Viewport) Portrait() bool { return v.Height > v.Width }

// Aspect returns the width to height ratio of v.
func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Narrow reports whether v is below NarrowWidth.
func (v Viewport) Narrow() bool { return v.Width < NarrowWidth }

// Profile is the set of performance-oriented
// parameters selected for a Viewport.
// It is derived data; recompute it whenever the
// viewport changes.
type Profile struct {
	// User agent identifies a phone or tablet.
	Mobile bool

	// Narrow viewport or Mobile.
	LowPerformance bool

	BaseScale      float32
	RotationFactor float32
	StarCount      int
	TargetFPS      int
	Torus          Segments

	// Capped at 1 for low-performance profiles.
	PixelRatio float64
}

// FrameInterval returns the minimum time between two
// rendered frames.
func (p Profile) FrameInterval() time.Duration {
	return time.Second / time.Duration(p.TargetFPS)
}

// mobilePattern matches user agents of handheld devices
// that the parser may not flag as such.
var mobilePattern = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobile reports whether ua identifies a phone or
// tablet.
func IsMobile(ua string) bool {
	if ua == "" {
		return false
	}
	if mobilePattern.MatchString(ua) {
		return true
	}
	p := useragent.Parse(ua)
	return p.Mobile || p.Tablet
}

// Classify derives the Profile for v.
// desktopStars is the star count used when the profile
// is not low-performance; zero or less selects
// DesktopStars.
func Classify(v Viewport, desktopStars int) Profile {
	if desktopStars <= 0 {
		desktopStars = DesktopStars
	}
	ratio := v.PixelRatio
	if !(ratio > 0) {
		ratio = 1
	}
	p := Profile{
		Mobile:         IsMobile(v.UserAgent),
		BaseScale:      DesktopScale,
		RotationFactor: 1,
		StarCount:      desktopStars,
		TargetFPS:      DesktopFPS,
		Torus:          DesktopTorus,
		PixelRatio:     ratio,
	}
	if v.Narrow() {
		p.RotationFactor = NarrowRotation
	}
	p.LowPerformance = v.Narrow() || p.Mobile
	if !p.LowPerformance {
		return p
	}
	p.BaseScale = MobileScale
	p.TargetFPS = MobileFPS
	p.PixelRatio = min(ratio, 1)
	if v.Width < SmallWidth {
		p.StarCount = SmallStars
		p.Torus = SmallTorus
	} else {
		p.StarCount = MobileStars
		p.Torus = MobileTorus
	}
	return p
}
