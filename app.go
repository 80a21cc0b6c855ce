// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package backdrop

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/driver"
)

// App creates the Scene once assets have settled and
// then forwards events to it.
// Events that arrive before that only update the
// viewport and scroll offset that the Scene will start
// with.
// Except for Loaded, App's methods must be called from
// a single goroutine.
type App struct {
	canvas driver.Canvas
	opts   Options
	loaded chan asset.Table
	scene  *Scene
}

// NewApp creates an App that will draw into canvas.
// opts.Assets is ignored; assets are delivered by
// Loaded.
func NewApp(canvas driver.Canvas, opts Options) *App {
	opts.Assets = nil
	return &App{
		canvas: canvas,
		opts:   opts,
		loaded: make(chan asset.Table, 1),
	}
}

// Loaded delivers the loaded assets.
// It is safe to call from any goroutine, and suitable
// as asset.Preloader.OnLoad. Only the first call has
// any effect.
func (a *App) Loaded(t asset.Table) {
	select {
	case a.loaded <- t:
	default:
	}
}

// Started reports whether the Scene exists.
func (a *App) Started() bool { return a.scene != nil }

// Scene returns the Scene, or nil if it was not created
// yet.
func (a *App) Scene() *Scene { return a.scene }

// Resize handles a change of the viewport.
func (a *App) Resize(width, height int, pixelRatio float64) error {
	if a.scene == nil {
		a.opts.Viewport.Width, a.opts.Viewport.Height = width, height
		if pixelRatio > 0 {
			a.opts.Viewport.PixelRatio = pixelRatio
		}
		return nil
	}
	if w, h := a.scene.renderer.Size(); w == width && h == height && pixelRatio == a.scene.viewport.PixelRatio {
		return nil
	}
	return a.scene.Resize(width, height, pixelRatio)
}

// Scroll handles a change of the scroll offset.
func (a *App) Scroll(offset float64) {
	if a.scene == nil {
		a.opts.Scroll = offset
		return
	}
	a.scene.Scroll(offset)
}

// Tick handles a display refresh.
// now is the time elapsed since the loop started.
func (a *App) Tick(now time.Duration) error {
	if a.scene == nil {
		select {
		case t := <-a.loaded:
			if err := a.start(t); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	_, err := a.scene.Animate(now)
	return err
}

func (a *App) start(t asset.Table) error {
	opts := a.opts
	opts.Assets = t
	s, err := New(a.canvas, opts)
	if err != nil {
		return err
	}
	a.scene = s
	log.Info().Int("assets", len(t)).Msg("Animation started")
	return nil
}
