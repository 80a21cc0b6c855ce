// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh implements the procedural geometry used
// by the engine's renderer.
package mesh

import (
	"errors"
	"math"

	"github.com/gviegas/backdrop/linear"
)

const prefix = "mesh: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// MaxVertex is the maximum number of vertices in a mesh.
// Indices are stored as uint16.
const MaxVertex = math.MaxUint16 + 1

// Semantic specifies the intended use of a vertex attribute.
type Semantic int

// Semantics.
const (
	Position Semantic = 1 << iota
	Normal
	TexCoord0

	MaxSemantic = iota
)

// I computes log₂(s).
func (s Semantic) I() (i int) {
	for s > 1 {
		s >>= 1
		i++
	}
	return
}

// String implements fmt.Stringer.
func (s Semantic) String() string {
	switch s {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case TexCoord0:
		return "TexCoord0"
	default:
		return "!mesh.Semantic"
	}
}

// Mesh is an indexed triangle list.
// Front faces have counter-clockwise winding.
type Mesh struct {
	Positions []linear.V3
	Normals   []linear.V3
	UVs       [][2]float32
	Indices   []uint16
}

// Len returns the number of triangles in m.
func (m *Mesh) Len() int { return len(m.Indices) / 3 }

// Semantics returns the mask of attributes present in m.
func (m *Mesh) Semantics() (s Semantic) {
	if len(m.Positions) > 0 {
		s |= Position
	}
	if len(m.Normals) == len(m.Positions) && len(m.Normals) > 0 {
		s |= Normal
	}
	if len(m.UVs) == len(m.Positions) && len(m.UVs) > 0 {
		s |= TexCoord0
	}
	return
}

func (m *Mesh) grow(nvert, nidx int) {
	m.Positions = make([]linear.V3, 0, nvert)
	m.Normals = make([]linear.V3, 0, nvert)
	m.UVs = make([][2]float32, 0, nvert)
	m.Indices = make([]uint16, 0, nidx)
}

func (m *Mesh) vertex(p, n linear.V3, u, v float32) {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	m.UVs = append(m.UVs, [2]float32{u, v})
}

// Torus describes a torus lying on the xy plane.
type Torus struct {
	Radius          float32
	Tube            float32
	RadialSegments  int
	TubularSegments int
}

// Mesh creates the geometry described by t.
func (t *Torus) Mesh() (*Mesh, error) {
	switch {
	case t.Radius <= 0 || t.Tube <= 0:
		return nil, newErr("non-positive torus radius")
	case t.RadialSegments < 3 || t.TubularSegments < 3:
		return nil, newErr("torus needs at least 3 segments per ring")
	case (t.RadialSegments+1)*(t.TubularSegments+1) > MaxVertex:
		return nil, newErr("too many torus segments")
	}
	var m Mesh
	m.grow((t.RadialSegments+1)*(t.TubularSegments+1), t.RadialSegments*t.TubularSegments*6)
	for j := 0; j <= t.RadialSegments; j++ {
		v := float64(j) / float64(t.RadialSegments) * 2 * math.Pi
		for i := 0; i <= t.TubularSegments; i++ {
			u := float64(i) / float64(t.TubularSegments) * 2 * math.Pi
			r := float64(t.Radius) + float64(t.Tube)*math.Cos(v)
			p := linear.V3{
				float32(r * math.Cos(u)),
				float32(r * math.Sin(u)),
				float32(float64(t.Tube) * math.Sin(v)),
			}
			c := linear.V3{
				float32(float64(t.Radius) * math.Cos(u)),
				float32(float64(t.Radius) * math.Sin(u)),
			}
			var n linear.V3
			n.Sub(&p, &c)
			n.Norm(&n)
			m.vertex(p, n, float32(i)/float32(t.TubularSegments), float32(j)/float32(t.RadialSegments))
		}
	}
	stride := t.TubularSegments + 1
	for j := 1; j <= t.RadialSegments; j++ {
		for i := 1; i <= t.TubularSegments; i++ {
			a := uint16(stride*j + i - 1)
			b := uint16(stride*(j-1) + i - 1)
			c := uint16(stride*(j-1) + i)
			d := uint16(stride*j + i)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return &m, nil
}

// Sphere describes a UV sphere centered at the origin.
type Sphere struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
}

// Mesh creates the geometry described by s.
func (s *Sphere) Mesh() (*Mesh, error) {
	switch {
	case s.Radius <= 0:
		return nil, newErr("non-positive sphere radius")
	case s.WidthSegments < 3 || s.HeightSegments < 2:
		return nil, newErr("too few sphere segments")
	case (s.WidthSegments+1)*(s.HeightSegments+1) > MaxVertex:
		return nil, newErr("too many sphere segments")
	}
	var m Mesh
	m.grow((s.WidthSegments+1)*(s.HeightSegments+1), s.WidthSegments*s.HeightSegments*6)
	for iy := 0; iy <= s.HeightSegments; iy++ {
		v := float64(iy) / float64(s.HeightSegments)
		for ix := 0; ix <= s.WidthSegments; ix++ {
			u := float64(ix) / float64(s.WidthSegments)
			n := linear.V3{
				float32(-math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)),
				float32(math.Cos(v * math.Pi)),
				float32(math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)),
			}
			var p linear.V3
			p.Scale(s.Radius, &n)
			n.Norm(&n)
			m.vertex(p, n, float32(u), float32(1-v))
		}
	}
	stride := s.WidthSegments + 1
	for iy := 0; iy < s.HeightSegments; iy++ {
		for ix := 0; ix < s.WidthSegments; ix++ {
			a := uint16(stride*iy + ix + 1)
			b := uint16(stride*iy + ix)
			c := uint16(stride*(iy+1) + ix)
			d := uint16(stride*(iy+1) + ix + 1)
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != s.HeightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return &m, nil
}

// Box describes an axis-aligned box centered at the origin.
type Box struct {
	Width  float32
	Height float32
	Depth  float32
}

// Mesh creates the geometry described by b.
// Each face maps the whole [0, 1] UV range.
func (b *Box) Mesh() (*Mesh, error) {
	if b.Width <= 0 || b.Height <= 0 || b.Depth <= 0 {
		return nil, newErr("non-positive box extent")
	}
	hw, hh, hd := b.Width/2, b.Height/2, b.Depth/2
	// Normal, u axis and v axis (n = u × v), each scaled
	// to the half extent along that axis.
	faces := [6][3]linear.V3{
		{{hw}, {0, 0, -hd}, {0, hh}},
		{{-hw}, {0, 0, hd}, {0, hh}},
		{{0, hh}, {hw}, {0, 0, -hd}},
		{{0, -hh}, {hw}, {0, 0, hd}},
		{{0, 0, hd}, {hw}, {0, hh}},
		{{0, 0, -hd}, {-hw}, {0, hh}},
	}
	var m Mesh
	m.grow(24, 36)
	for _, f := range faces {
		var n linear.V3
		n.Norm(&f[0])
		base := uint16(len(m.Positions))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p, u, v linear.V3
			u.Scale(c[0], &f[1])
			v.Scale(c[1], &f[2])
			p.Add(&f[0], &u)
			p.Add(&p, &v)
			m.vertex(p, n, (c[0]+1)/2, (c[1]+1)/2)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return &m, nil
}
