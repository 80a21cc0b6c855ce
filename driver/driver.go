// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the interface between the
// renderer and a presentation target.
// It is designed to allow window systems, terminals and
// offscreen targets to be implemented in a mostly
// straightforward manner.
package driver

import (
	"errors"
	"image"
	"image/color"
)

// Vertex is a screen-space vertex.
// X/Y are in pixels of the drawing buffer, with the
// origin at the top-left corner.
// U/V are in pixels of the batch's texture.
// R/G/B/A scale the texture (or white) color and are
// in the [0, 1] range.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Batch is a list of triangles sharing a texture.
// Triangles must be drawn in index order.
type Batch struct {
	// Texture may be nil, in which case the triangles
	// are filled with the vertex colors alone.
	Texture  image.Image
	Vertices []Vertex
	Indices  []uint16
}

// Frame is a complete image description.
// Batches are ordered back to front.
type Frame struct {
	Width  int
	Height int

	// Clear is used when Background is nil.
	Clear color.RGBA

	// Background, if not nil, is stretched over the
	// whole drawing buffer.
	Background image.Image

	Batches []Batch
}

// Reset clears f for reuse, retaining allocated memory.
func (f *Frame) Reset(width, height int) {
	f.Width = width
	f.Height = height
	f.Clear = color.RGBA{}
	f.Background = nil
	for i := range f.Batches {
		f.Batches[i].Texture = nil
		f.Batches[i].Vertices = f.Batches[i].Vertices[:0]
		f.Batches[i].Indices = f.Batches[i].Indices[:0]
	}
	f.Batches = f.Batches[:0]
}

// Copy sets f to contain a copy of g, retaining the
// memory allocated by f.
func (f *Frame) Copy(g *Frame) {
	f.Reset(g.Width, g.Height)
	f.Clear = g.Clear
	f.Background = g.Background
	for i := range g.Batches {
		if i < cap(f.Batches) {
			f.Batches = f.Batches[:i+1]
		} else {
			f.Batches = append(f.Batches, Batch{})
		}
		b := &f.Batches[i]
		b.Texture = g.Batches[i].Texture
		b.Vertices = append(b.Vertices[:0], g.Batches[i].Vertices...)
		b.Indices = append(b.Indices[:0], g.Batches[i].Indices...)
	}
}

// Triangles returns the number of triangles in f.
func (f *Frame) Triangles() (n int) {
	for i := range f.Batches {
		n += len(f.Batches[i].Indices) / 3
	}
	return
}

// Canvas is the interface that a presentation target
// implements.
type Canvas interface {
	// Configure sets the size of the drawing buffer,
	// in pixels. It is called whenever the viewport
	// or the pixel ratio changes.
	Configure(width, height int) error

	// Present draws f.
	// The canvas must not retain f after returning.
	Present(f *Frame) error
}

// ErrSize means that a drawing buffer dimension is not
// positive.
var ErrSize = errors.New("driver: invalid drawing buffer size")

// CheckSize returns ErrSize if width or height is not
// positive.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrSize
	}
	return nil
}
