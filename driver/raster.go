// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Rasterize draws f into dst on the CPU.
// It is meant for targets without a GPU path, such as
// terminals and snapshots, so it trades fidelity for
// simplicity: every triangle is filled with a single
// color, the mean of its vertex colors modulated by
// the texture sampled at the triangle's centroid.
// If dst's size differs from f's, f is scaled to fit.
func Rasterize(dst *image.RGBA, f *Frame) {
	bnd := dst.Bounds()
	if f.Background != nil {
		xdraw.NearestNeighbor.Scale(dst, bnd, f.Background, f.Background.Bounds(), xdraw.Src, nil)
	} else {
		draw.Draw(dst, bnd, image.NewUniform(f.Clear), image.Point{}, draw.Src)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return
	}
	sx := float32(bnd.Dx()) / float32(f.Width)
	sy := float32(bnd.Dy()) / float32(f.Height)

	var z vector.Rasterizer
	src := image.NewUniform(color.RGBA{})
	for i := range f.Batches {
		b := &f.Batches[i]
		for j := 0; j+2 < len(b.Indices); j += 3 {
			v := [3]Vertex{
				b.Vertices[b.Indices[j]],
				b.Vertices[b.Indices[j+1]],
				b.Vertices[b.Indices[j+2]],
			}
			for k := range v {
				v[k].X *= sx
				v[k].Y *= sy
			}
			r := bounds(&v).Intersect(image.Rect(0, 0, bnd.Dx(), bnd.Dy()))
			if r.Empty() {
				continue
			}
			ox, oy := float32(r.Min.X), float32(r.Min.Y)
			z.Reset(r.Dx(), r.Dy())
			z.MoveTo(v[0].X-ox, v[0].Y-oy)
			z.LineTo(v[1].X-ox, v[1].Y-oy)
			z.LineTo(v[2].X-ox, v[2].Y-oy)
			z.ClosePath()
			src.C = flatColor(b.Texture, &v)
			z.Draw(dst, r.Add(bnd.Min), src, image.Point{})
		}
	}
}

// bounds returns the pixel rectangle enclosing v.
func bounds(v *[3]Vertex) image.Rectangle {
	x0 := min(v[0].X, v[1].X, v[2].X)
	y0 := min(v[0].Y, v[1].Y, v[2].Y)
	x1 := max(v[0].X, v[1].X, v[2].X)
	y1 := max(v[0].Y, v[1].Y, v[2].Y)
	return image.Rect(
		int(math.Floor(float64(x0))),
		int(math.Floor(float64(y0))),
		int(math.Ceil(float64(x1))),
		int(math.Ceil(float64(y1))),
	)
}

// flatColor computes the fill color of a triangle.
func flatColor(tex image.Image, v *[3]Vertex) color.RGBA {
	r := (v[0].R + v[1].R + v[2].R) / 3
	g := (v[0].G + v[1].G + v[2].G) / 3
	b := (v[0].B + v[1].B + v[2].B) / 3
	if tex != nil {
		tr := tex.Bounds()
		u := int((v[0].U + v[1].U + v[2].U) / 3)
		w := int((v[0].V + v[1].V + v[2].V) / 3)
		u = max(0, min(tr.Dx()-1, u))
		w = max(0, min(tr.Dy()-1, w))
		cr, cg, cb, _ := tex.At(tr.Min.X+u, tr.Min.Y+w).RGBA()
		r *= float32(cr) / 0xffff
		g *= float32(cg) / 0xffff
		b *= float32(cb) / 0xffff
	}
	return color.RGBA{unorm(r), unorm(g), unorm(b), 0xff}
}

func unorm(x float32) uint8 { return uint8(max(0, min(1, x))*255 + 0.5) }
