// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"cmp"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/engine/material"
	"github.com/gviegas/backdrop/engine/mesh"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// Background is what the renderer draws behind the
// scene. Image, if not nil, takes precedence.
type Background struct {
	Color [3]float32
	Image image.Image
}

// Renderer is a real-time renderer that targets a
// driver.Canvas.
type Renderer struct {
	canvas     driver.Canvas
	width      int
	height     int
	pixelRatio float64
	lights     []Light
	frame      driver.Frame
	draws      int

	// Per-mesh scratch.
	clip []linear.V4
	eye  []linear.V3
	rgb  []linear.V3

	tris  []triangle
	nmaps map[nmapKey][]float32
}

type triangle struct {
	v     [3]driver.Vertex
	depth float32
	tex   image.Image
}

type nmapKey struct {
	mesh *mesh.Mesh
	img  image.Image
}

// NewRenderer creates a new renderer whose viewport is
// width by height with a pixel ratio of 1.
func NewRenderer(canvas driver.Canvas, width, height int) (*Renderer, error) {
	if canvas == nil {
		return nil, newRendErr("nil driver.Canvas in call to NewRenderer")
	}
	r := &Renderer{
		canvas:     canvas,
		pixelRatio: 1,
		nmaps:      make(map[nmapKey][]float32),
	}
	if err := r.SetSize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// SetSize sets the viewport size, in logical pixels.
func (r *Renderer) SetSize(width, height int) error {
	if err := driver.CheckSize(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return r.configure()
}

// Size returns the viewport size, in logical pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// SetPixelRatio sets the ratio of drawing buffer pixels
// to logical pixels.
func (r *Renderer) SetPixelRatio(ratio float64) error {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return newRendErr("invalid pixel ratio")
	}
	r.pixelRatio = ratio
	return r.configure()
}

// PixelRatio returns the ratio of drawing buffer pixels
// to logical pixels.
func (r *Renderer) PixelRatio() float64 { return r.pixelRatio }

// BufferSize returns the size of the drawing buffer.
func (r *Renderer) BufferSize() (width, height int) {
	width = max(1, int(math.Round(float64(r.width)*r.pixelRatio)))
	height = max(1, int(math.Round(float64(r.height)*r.pixelRatio)))
	return
}

func (r *Renderer) configure() error {
	return r.canvas.Configure(r.BufferSize())
}

// SetLights replaces the lights used for shading.
func (r *Renderer) SetLights(lights ...Light) error {
	if len(lights) > MaxLight {
		return newRendErr("too many lights")
	}
	r.lights = append(r.lights[:0], lights...)
	return nil
}

// Lights returns the number of lights in use.
func (r *Renderer) Lights() int { return len(r.lights) }

// Draws returns the number of frames presented so far.
func (r *Renderer) Draws() int { return r.draws }

// Render draws every drawable descendant of root as seen
// from cam, and presents the result.
func (r *Renderer) Render(root *node.Node, cam *Camera, bg *Background) error {
	bw, bh := r.BufferSize()
	f := &r.frame
	f.Reset(bw, bh)
	if bg != nil {
		f.Clear = color.RGBA{unorm(bg.Color[0]), unorm(bg.Color[1]), unorm(bg.Color[2]), 0xff}
		f.Background = bg.Image
	} else {
		f.Clear = color.RGBA{A: 0xff}
	}

	var view, vp, world linear.M4
	cam.View(&view)
	vp.Mul(cam.Projection(), &view)
	world.I()
	r.tris = r.tris[:0]
	root.Walk(&world, func(n *node.Node, m *linear.M4) {
		if n.Drawable() {
			r.project(n, m, &view, &vp, cam.Near(), float32(bw), float32(bh))
		}
	})

	// Painter's algorithm: farthest (most negative z) first.
	slices.SortStableFunc(r.tris, func(a, b triangle) int { return cmp.Compare(a.depth, b.depth) })
	var b *driver.Batch
	for i := range r.tris {
		t := &r.tris[i]
		if b == nil || b.Texture != t.tex || len(b.Vertices)+3 > MaxBatchVertex {
			b = r.batch(t.tex)
		}
		base := uint16(len(b.Vertices))
		b.Vertices = append(b.Vertices, t.v[:]...)
		b.Indices = append(b.Indices, base, base+1, base+2)
	}

	r.draws++
	return r.canvas.Present(f)
}

func (r *Renderer) batch(tex image.Image) *driver.Batch {
	f := &r.frame
	if n := len(f.Batches); n < cap(f.Batches) {
		f.Batches = f.Batches[:n+1]
	} else {
		f.Batches = append(f.Batches, driver.Batch{})
	}
	b := &f.Batches[len(f.Batches)-1]
	b.Texture = tex
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
	return b
}

// project transforms, lights and culls the triangles of
// node n, appending the visible ones to r.tris.
func (r *Renderer) project(n *node.Node, world, view, vp *linear.M4, near, bw, bh float32) {
	m, mat := n.Mesh, n.Material
	nv := len(m.Positions)
	r.clip = slices.Grow(r.clip[:0], nv)[:nv]
	r.eye = slices.Grow(r.eye[:0], nv)[:nv]
	r.rgb = slices.Grow(r.rgb[:0], nv)[:nv]

	var mv, mvp linear.M4
	mv.Mul(view, world)
	mvp.Mul(vp, world)
	nmap := r.normalFactors(m, mat.NormalMap)
	lit := mat.Model == material.Standard && m.Semantics()&mesh.Normal != 0

	for i := range m.Positions {
		p := m.Positions[i]
		p4 := linear.V4{p[0], p[1], p[2], 1}
		r.clip[i].Mul(&mvp, &p4)
		var e linear.V4
		e.Mul(&mv, &p4)
		r.eye[i] = e.V3()

		c := linear.V3(mat.Color)
		if lit {
			var wp linear.V4
			wp.Mul(world, &p4)
			q := m.Normals[i]
			wn := linear.V4{q[0], q[1], q[2], 0}
			wn.Mul(world, &wn)
			pos, nrm := wp.V3(), wn.V3()
			nrm.Norm(&nrm)
			diffuse := float32(1)
			if nmap != nil {
				diffuse = nmap[i]
			}
			var irr linear.V3
			for j := range r.lights {
				x := r.lights[j].irradiance(&pos, &nrm, diffuse)
				irr.Add(&irr, &x)
			}
			for k := range c {
				c[k] *= min(1, irr[k])
			}
		}
		r.rgb[i] = c
	}

	var tw, th float32
	if mat.Map != nil {
		b := mat.Map.Bounds()
		tw, th = float32(b.Dx()), float32(b.Dy())
	}
	hasUV := m.Semantics()&mesh.TexCoord0 != 0

	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		ca, cb, cc := &r.clip[ia], &r.clip[ib], &r.clip[ic]
		if ca[3] < near || cb[3] < near || cc[3] < near {
			continue
		}
		if outside(ca, cb, cc) {
			continue
		}
		var e1, e2, fn linear.V3
		e1.Sub(&r.eye[ib], &r.eye[ia])
		e2.Sub(&r.eye[ic], &r.eye[ia])
		fn.Cross(&e1, &e2)
		if fn.Dot(&r.eye[ia]) >= 0 {
			continue
		}

		t := triangle{tex: mat.Map}
		for k, idx := range [3]uint16{ia, ib, ic} {
			c := &r.clip[idx]
			v := &t.v[k]
			v.X = (c[0]/c[3] + 1) / 2 * bw
			v.Y = (1 - c[1]/c[3]) / 2 * bh
			if hasUV && mat.Map != nil {
				uv := m.UVs[idx]
				v.U = uv[0] * tw
				v.V = (1 - uv[1]) * th
			}
			rgb := r.rgb[idx]
			v.R, v.G, v.B, v.A = rgb[0], rgb[1], rgb[2], 1
			t.depth += r.eye[idx][2]
		}
		t.depth /= 3
		r.tris = append(r.tris, t)
	}
}

// outside reports whether the triangle lies entirely
// outside one of the clip volume's side planes.
func outside(a, b, c *linear.V4) bool {
	for i := 0; i < 2; i++ {
		if a[i] > a[3] && b[i] > b[3] && c[i] > c[3] {
			return true
		}
		if a[i] < -a[3] && b[i] < -b[3] && c[i] < -c[3] {
			return true
		}
	}
	return a[2] > a[3] && b[2] > b[3] && c[2] > c[3]
}

// normalFactors returns per-vertex diffuse factors
// derived from a tangent-space normal map: the z
// component of the sampled normal, which darkens
// surfaces where the map bends away from the
// geometric normal.
func (r *Renderer) normalFactors(m *mesh.Mesh, img image.Image) []float32 {
	if img == nil || m.Semantics()&mesh.TexCoord0 == 0 {
		return nil
	}
	k := nmapKey{m, img}
	if f, ok := r.nmaps[k]; ok {
		return f
	}
	b := img.Bounds()
	f := make([]float32, len(m.UVs))
	for i, uv := range m.UVs {
		x := b.Min.X + min(b.Dx()-1, int(uv[0]*float32(b.Dx())))
		y := b.Min.Y + min(b.Dy()-1, int((1-uv[1])*float32(b.Dy())))
		_, _, z, _ := img.At(max(b.Min.X, x), max(b.Min.Y, y)).RGBA()
		f[i] = max(0, min(1, float32(z)/0xffff*2-1))
	}
	r.nmaps[k] = f
	return f
}

func unorm(x float32) uint8 { return uint8(max(0, min(1, x))*255 + 0.5) }
