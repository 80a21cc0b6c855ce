// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi provides window system integration (WSI)
// for the presentation backends.
// A backend owns the event loop: it feeds a Handler with
// viewport, scroll and refresh events, and implements
// driver.Canvas to show what the Handler renders.
package wsi

import (
	"errors"
	"strings"
	"time"
)

// Handler is the interface that defines the methods for
// handling backend events.
// Methods are called from a single goroutine.
type Handler interface {
	// Resize is called when the viewport changes.
	// Sizes are in logical pixels.
	Resize(width, height int, pixelRatio float64) error

	// Scroll is called when the scroll offset changes.
	// The offset is zero at the top of the page and
	// decreases downwards.
	Scroll(offset float64)

	// Tick is called on every display refresh with the
	// time elapsed since the loop started.
	Tick(now time.Duration) error
}

// Platform identifies a presentation backend.
type Platform int

// Platforms.
const (
	// None means that no backend was selected.
	None Platform = iota
	Window
	Terminal
	Headless
)

func (p Platform) String() string {
	switch p {
	case Window:
		return "window"
	case Terminal:
		return "terminal"
	case Headless:
		return "headless"
	}
	return "none"
}

var errPlatform = errors.New("wsi: unknown platform")

// ParsePlatform returns the Platform named s.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range [...]Platform{Window, Terminal, Headless} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return None, errPlatform
}

// Key is the type of keyboard keys that backends
// recognize.
type Key int

// Keyboard keys.
const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySpace
	KeyEsc
	KeyQ
)

// Quit reports whether k closes the backend.
func (k Key) Quit() bool { return k == KeyEsc || k == KeyQ }
