// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"context"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/driver"
)

// TerminalConfig controls the terminal backend.
type TerminalConfig struct {
	// Refresh rate. Zero or less selects 30.
	Hz int

	PageHeight float64
	Step       float64
}

// upperHalf is drawn with the upper pixel as foreground
// and the lower pixel as background.
const upperHalf = '▀'

// TerminalCanvas presents frames on a character terminal.
// Each cell holds two vertically stacked pixels, so the
// logical viewport is one pixel per column by two pixels
// per row.
type TerminalCanvas struct {
	screen   tcell.Screen
	cfg      TerminalConfig
	img      *image.RGBA
	scroller *Scroller
}

// NewTerminal creates a terminal backend that draws on
// screen. screen must not have been initialized.
func NewTerminal(screen tcell.Screen, cfg TerminalConfig) *TerminalCanvas {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	return &TerminalCanvas{
		screen:   screen,
		cfg:      cfg,
		scroller: NewScroller(cfg.PageHeight, cfg.Step),
	}
}

// Configure implements driver.Canvas.
func (t *TerminalCanvas) Configure(width, height int) error {
	if err := driver.CheckSize(width, height); err != nil {
		return err
	}
	if t.img == nil || t.img.Rect.Dx() != width || t.img.Rect.Dy() != height {
		t.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return nil
}

// Present implements driver.Canvas.
func (t *TerminalCanvas) Present(f *driver.Frame) error {
	if t.img == nil {
		return driver.ErrSize
	}
	driver.Rasterize(t.img, f)
	cols, rows := t.screen.Size()
	cols = min(cols, t.img.Rect.Dx())
	rows = min(rows, (t.img.Rect.Dy()+1)/2)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			hi := t.img.RGBAAt(x, 2*y)
			lo := t.img.RGBAAt(x, 2*y+1)
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(hi.R), int32(hi.G), int32(hi.B))).
				Background(tcell.NewRGBColor(int32(lo.R), int32(lo.G), int32(lo.B)))
			t.screen.SetContent(x, y, upperHalf, nil, st)
		}
	}
	t.screen.Show()
	return nil
}

// Offset returns the current scroll offset.
func (t *TerminalCanvas) Offset() float64 { return t.scroller.Offset() }

// Run initializes the screen and runs the event loop
// until ctx is done or a quit key is pressed.
// The screen is finalized on return.
func (t *TerminalCanvas) Run(ctx context.Context, h Handler) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()
	t.screen.EnableMouse()
	t.screen.HideCursor()

	cols, rows := t.screen.Size()
	if err := t.resize(h, cols, rows); err != nil {
		return err
	}
	log.Info().Int("cols", cols).Int("rows", rows).Msg("Terminal started")
	defer log.Info().Msg("Terminal stopped")

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(t.cfg.Hz))
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			done, err := t.handle(h, ev)
			if done || err != nil {
				return err
			}
		case <-ticker.C:
			if err := h.Tick(time.Since(start)); err != nil {
				return err
			}
		}
	}
}

// handle dispatches a terminal event. It reports whether
// the loop should stop.
func (t *TerminalCanvas) handle(h Handler, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k := keyFrom(ev)
		if k.Quit() {
			return true, nil
		}
		if t.scroller.Key(k) {
			h.Scroll(t.scroller.Offset())
		}
	case *tcell.EventMouse:
		var changed bool
		switch btn := ev.Buttons(); {
		case btn&tcell.WheelUp != 0:
			changed = t.scroller.Lines(-1)
		case btn&tcell.WheelDown != 0:
			changed = t.scroller.Lines(1)
		}
		if changed {
			h.Scroll(t.scroller.Offset())
		}
	case *tcell.EventResize:
		t.screen.Sync()
		cols, rows := ev.Size()
		return false, t.resize(h, cols, rows)
	}
	return false, nil
}

func (t *TerminalCanvas) resize(h Handler, cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if t.scroller.SetView(float64(2 * rows)) {
		h.Scroll(t.scroller.Offset())
	}
	return h.Resize(cols, 2*rows, 1)
}
