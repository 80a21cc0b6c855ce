// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build cgo

// Package window implements the desktop window backend.
package window

import (
	"errors"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/wsi"
)

// Config controls the window backend.
type Config struct {
	Title  string
	Width  int
	Height int

	PageHeight float64
	Step       float64
}

// Run opens a window and blocks until it is closed.
// newHandler receives the window's canvas and returns
// the handler that will be fed with the window's events.
func Run(cfg Config, newHandler func(driver.Canvas) wsi.Handler) error {
	w := newWindow(cfg)
	w.handler = newHandler(w)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetTPS(60)

	log.Info().Int("width", cfg.Width).Int("height", cfg.Height).Msg("Window started")
	err := ebiten.RunGame(w)
	log.Info().Msg("Window stopped")
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Window is a driver.Canvas and an ebiten.Game.
type Window struct {
	handler  wsi.Handler
	scroller *wsi.Scroller

	// Logical size and pixel ratio last reported to
	// the handler.
	width  int
	height int
	ratio  float64

	// Drawing buffer size set by Configure.
	bufWidth  int
	bufHeight int

	frame    driver.Frame
	dirty    bool
	vertices []ebiten.Vertex
	textures map[image.Image]*ebiten.Image
	white    *ebiten.Image

	start time.Time
	err   error
}

func newWindow(cfg Config) *Window {
	return &Window{
		scroller: wsi.NewScroller(cfg.PageHeight, cfg.Step),
		textures: make(map[image.Image]*ebiten.Image),
	}
}

// Configure implements driver.Canvas.
func (w *Window) Configure(width, height int) error {
	if err := driver.CheckSize(width, height); err != nil {
		return err
	}
	w.bufWidth, w.bufHeight = width, height
	return nil
}

// Present implements driver.Canvas.
// The frame is drawn on the next call to Draw.
func (w *Window) Present(f *driver.Frame) error {
	w.frame.Copy(f)
	w.dirty = true
	return nil
}

// scrollKeys maps ebiten keys to wsi keys.
var scrollKeys = [...]struct {
	ebiten ebiten.Key
	key    wsi.Key
}{
	{ebiten.KeyArrowUp, wsi.KeyUp},
	{ebiten.KeyArrowDown, wsi.KeyDown},
	{ebiten.KeyPageUp, wsi.KeyPageUp},
	{ebiten.KeyPageDown, wsi.KeyPageDown},
	{ebiten.KeyHome, wsi.KeyHome},
	{ebiten.KeyEnd, wsi.KeyEnd},
	{ebiten.KeySpace, wsi.KeySpace},
	{ebiten.KeyEscape, wsi.KeyEsc},
	{ebiten.KeyQ, wsi.KeyQ},
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.err != nil {
		return w.err
	}
	if w.start.IsZero() {
		w.start = time.Now()
	}

	changed := false
	if _, dy := ebiten.Wheel(); dy != 0 {
		// Wheel up (positive) scrolls towards the top.
		changed = w.scroller.Lines(-dy)
	}
	for _, k := range scrollKeys {
		if !inpututil.IsKeyJustPressed(k.ebiten) {
			continue
		}
		if k.key.Quit() {
			return ebiten.Termination
		}
		if w.scroller.Key(k.key) {
			changed = true
		}
	}
	if changed {
		w.handler.Scroll(w.scroller.Offset())
	}
	return w.handler.Tick(time.Since(w.start))
}

// Draw implements ebiten.Game.
// The screen is only redrawn when a new frame was
// presented; otherwise it keeps the previous image.
func (w *Window) Draw(screen *ebiten.Image) {
	if !w.dirty {
		return
	}
	w.dirty = false
	f := &w.frame

	if f.Background != nil {
		bg := w.texture(f.Background)
		sb, db := bg.Bounds(), screen.Bounds()
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
		op.Blend = ebiten.BlendCopy
		screen.DrawImage(bg, &op)
	} else {
		screen.Fill(f.Clear)
	}

	sx, sy := scale(screen.Bounds(), f)
	var op ebiten.DrawTrianglesOptions
	for i := range f.Batches {
		b := &f.Batches[i]
		if len(b.Indices) == 0 {
			continue
		}
		var src *ebiten.Image
		if b.Texture != nil {
			src = w.texture(b.Texture)
		} else {
			src = w.whiteImage()
		}
		w.vertices = convert(w.vertices[:0], b, sx, sy)
		screen.DrawTriangles(w.vertices, b.Indices, src, &op)
	}
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := ebiten.Monitor().DeviceScaleFactor()
	if outsideWidth != w.width || outsideHeight != w.height || ratio != w.ratio {
		w.width, w.height, w.ratio = outsideWidth, outsideHeight, ratio
		if outsideWidth > 0 && outsideHeight > 0 && w.err == nil {
			w.err = w.handler.Resize(outsideWidth, outsideHeight, ratio)
		}
	}
	if w.bufWidth > 0 && w.bufHeight > 0 {
		return w.bufWidth, w.bufHeight
	}
	return max(1, int(math.Round(float64(outsideWidth)*ratio))), max(1, int(math.Round(float64(outsideHeight)*ratio)))
}

// texture returns the GPU image of img, creating it on
// first use.
func (w *Window) texture(img image.Image) *ebiten.Image {
	if t, ok := w.textures[img]; ok {
		return t
	}
	t := ebiten.NewImageFromImage(img)
	w.textures[img] = t
	return t
}

// whiteImage returns a 1x1 white image that untextured
// triangles sample from.
func (w *Window) whiteImage() *ebiten.Image {
	if w.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		w.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return w.white
}

// scale returns the factors that map f's coordinates to
// the screen.
func scale(screen image.Rectangle, f *driver.Frame) (sx, sy float32) {
	if f.Width <= 0 || f.Height <= 0 {
		return 1, 1
	}
	return float32(screen.Dx()) / float32(f.Width), float32(screen.Dy()) / float32(f.Height)
}

// convert appends the vertices of b to dst.
// Untextured vertices sample the center of the white
// image.
func convert(dst []ebiten.Vertex, b *driver.Batch, sx, sy float32) []ebiten.Vertex {
	for _, v := range b.Vertices {
		u, t := v.U, v.V
		if b.Texture == nil {
			u, t = 1.5, 1.5
		}
		dst = append(dst, ebiten.Vertex{
			DstX:   v.X * sx,
			DstY:   v.Y * sy,
			SrcX:   u,
			SrcY:   t,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		})
	}
	return dst
}
