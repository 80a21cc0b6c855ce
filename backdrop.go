// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package backdrop implements a scroll-reactive scene:
// a torus, a textured avatar cube and a textured moon
// floating in a starfield.
//
// Scene owns every piece of mutable state. It is driven
// by three kinds of event: scroll (Scroll), display
// refresh (Animate) and viewport change (Resize). None
// of its methods are safe for concurrent use; App
// serializes events on the UI goroutine.
package backdrop

import (
	"math"
)

// Camera parameters.
const (
	FOV  = 75
	Near = 0.1
	Far  = 1000
)

// Scroll mapping.
const (
	ScrollRange = 2000
	ScaleChange = 0.1

	CameraZFactor   = -0.01
	CameraZLimit    = 50
	CameraXFactor   = -0.0002
	CameraXLimit    = 20
	CameraYawFactor = -0.0002
	CameraYawLimit  = math.Pi / 6
)

// Scale bounds enforced on every rendered frame.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// Star placement.
const (
	StarRadius = 0.25
	StarSpread = 100
)

// Default asset names.
const (
	BackgroundAsset = "space.jpg"
	AvatarAsset     = "jeff.png"
	MoonAsset       = "moon.jpg"
	MoonNormalAsset = "normal.jpg"
)

// DefaultBackground is the color drawn when the
// background image is not available.
const DefaultBackground = 0x050505
