// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/driver"
)

// HeadlessConfig controls the no-window backend.
type HeadlessConfig struct {
	// Logical viewport size.
	Width  int
	Height int

	// Tick rate. Zero or less selects 60.
	Hz int

	// Number of ticks to run. Zero runs until the
	// context is done.
	Ticks int

	// Scroll distance added on every tick (positive
	// is down).
	ScrollPerTick float64
	PageHeight    float64

	// If not empty, the last presented frame is written
	// to this path as a PNG image on return.
	Snapshot string
}

// HeadlessCanvas renders frames into memory.
type HeadlessCanvas struct {
	cfg    HeadlessConfig
	img    *image.RGBA
	frames int
}

// NewHeadless creates a headless backend.
func NewHeadless(cfg HeadlessConfig) *HeadlessCanvas {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	return &HeadlessCanvas{cfg: cfg}
}

// Configure implements driver.Canvas.
func (c *HeadlessCanvas) Configure(width, height int) error {
	if err := driver.CheckSize(width, height); err != nil {
		return err
	}
	if c.img == nil || c.img.Rect.Dx() != width || c.img.Rect.Dy() != height {
		c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return nil
}

// Present implements driver.Canvas.
func (c *HeadlessCanvas) Present(f *driver.Frame) error {
	if c.img == nil {
		return driver.ErrSize
	}
	driver.Rasterize(c.img, f)
	c.frames++
	return nil
}

// Frames returns the number of frames presented.
func (c *HeadlessCanvas) Frames() int { return c.frames }

// Image returns the last presented frame.
func (c *HeadlessCanvas) Image() *image.RGBA { return c.img }

// Run drives h without opening a window.
// Time passed to h.Tick advances by exactly one period per
// tick, regardless of the wall clock.
func (c *HeadlessCanvas) Run(ctx context.Context, h Handler) error {
	d := time.Second / time.Duration(c.cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", c.cfg.Hz)
	}
	scroller := NewScroller(c.cfg.PageHeight, 0)
	scroller.SetView(float64(c.cfg.Height))
	if err := h.Resize(c.cfg.Width, c.cfg.Height, 1); err != nil {
		return err
	}
	log.Info().Int("hz", c.cfg.Hz).Int("ticks", c.cfg.Ticks).Msg("Headless started")

	t := time.NewTicker(d)
	defer t.Stop()

	var tick int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if c.cfg.ScrollPerTick != 0 && scroller.ScrollBy(c.cfg.ScrollPerTick) {
				h.Scroll(scroller.Offset())
			}
			tick++
			if err := h.Tick(time.Duration(tick) * d); err != nil {
				return err
			}
			if c.cfg.Ticks > 0 && tick >= c.cfg.Ticks {
				log.Info().Int("frames", c.frames).Msg("Headless stopped")
				return c.snapshot()
			}
		}
	}
}

func (c *HeadlessCanvas) snapshot() error {
	if c.cfg.Snapshot == "" || c.img == nil {
		return nil
	}
	f, err := os.Create(c.cfg.Snapshot)
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return err
	}
	log.Info().Str("path", c.cfg.Snapshot).Msg("Snapshot written")
	return f.Close()
}
