// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"fmt"
	"math"
	"testing"

	"github.com/gviegas/backdrop/linear"
)

func TestSemantic(t *testing.T) {
	semantics := map[Semantic]struct {
		i int
		s string
	}{
		Position:  {0, "Position"},
		Normal:    {1, "Normal"},
		TexCoord0: {2, "TexCoord0"},
	}
	if x := len(semantics); x != MaxSemantic {
		t.Fatalf("MaxSemantic:\nhave %d\nwant %d", MaxSemantic, x)
	}
	for k, v := range semantics {
		if i := k.I(); i != v.i {
			t.Fatalf("Semantic.I: %s\nhave: %d\nwant %d", v.s, i, v.i)
		}
		if s := k.String(); s != v.s {
			t.Fatalf("Semantic.String\nhave %s\nwant %s", s, v.s)
		}
	}
}

// checkMesh checks that m is well formed and that every
// face is wound counter-clockwise when seen from outside
// (i.e., the face normal agrees with the vertex normals).
func checkMesh(m *Mesh, nvert, ntri int, t *testing.T) {
	t.Helper()
	if x := len(m.Positions); x != nvert {
		t.Fatalf("len(Mesh.Positions)\nhave %d\nwant %d", x, nvert)
	}
	if x := m.Len(); x != ntri {
		t.Fatalf("Mesh.Len\nhave %d\nwant %d", x, ntri)
	}
	if s := m.Semantics(); s != Position|Normal|TexCoord0 {
		t.Fatalf("Mesh.Semantics\nhave %b\nwant %b", s, Position|Normal|TexCoord0)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= nvert || int(b) >= nvert || int(c) >= nvert {
			t.Fatalf("Mesh.Indices[%d:%d]: out of range", i, i+3)
		}
		var e1, e2, fn, vn linear.V3
		e1.Sub(&m.Positions[b], &m.Positions[a])
		e2.Sub(&m.Positions[c], &m.Positions[a])
		fn.Cross(&e1, &e2)
		if fn.Len() < 1e-9 {
			// Degenerate triangles at the poles.
			continue
		}
		vn.Add(&m.Normals[a], &m.Normals[b])
		vn.Add(&vn, &m.Normals[c])
		if fn.Dot(&vn) <= 0 {
			t.Fatalf("triangle %d: clockwise winding\n%v %v %v", i/3, m.Positions[a], m.Positions[b], m.Positions[c])
		}
	}
	for i, n := range m.Normals {
		if l := n.Len(); math.Abs(float64(l)-1) > 1e-4 {
			t.Fatalf("Mesh.Normals[%d]: not unit length (%v)", i, l)
		}
	}
}

func TestTorus(t *testing.T) {
	for _, x := range [...]Torus{
		{10, 3, 16, 100},
		{10, 3, 8, 50},
		{10, 3, 6, 30},
	} {
		t.Run(fmt.Sprintf("%d×%d", x.RadialSegments, x.TubularSegments), func(t *testing.T) {
			m, err := x.Mesh()
			if err != nil {
				t.Fatalf("Torus.Mesh\nhave %#v\nwant nil", err)
			}
			checkMesh(m, (x.RadialSegments+1)*(x.TubularSegments+1), x.RadialSegments*x.TubularSegments*2, t)
			for _, p := range m.Positions {
				if p[2] < -x.Tube-1e-4 || p[2] > x.Tube+1e-4 {
					t.Fatalf("Torus.Mesh: z out of tube range: %v", p)
				}
			}
		})
	}

	for _, x := range [...]Torus{
		{0, 3, 16, 100},
		{10, 3, 2, 100},
		{10, 3, 300, 300},
	} {
		if _, err := x.Mesh(); err == nil {
			t.Fatalf("Torus.Mesh: %v\nhave nil\nwant error", x)
		}
	}
}

func TestSphere(t *testing.T) {
	s := Sphere{3, 32, 32}
	m, err := s.Mesh()
	if err != nil {
		t.Fatalf("Sphere.Mesh\nhave %#v\nwant nil", err)
	}
	checkMesh(m, 33*33, 32*32*2-2*32, t)
	for _, p := range m.Positions {
		if l := p.Len(); math.Abs(float64(l)-3) > 1e-4 {
			t.Fatalf("Sphere.Mesh: vertex off the surface: %v (%v)", p, l)
		}
	}

	if _, err := (&Sphere{0.25, 2, 2}).Mesh(); err == nil {
		t.Fatal("Sphere.Mesh: 2 width segments\nhave nil\nwant error")
	}
}

func TestBox(t *testing.T) {
	b := Box{3, 3, 3}
	m, err := b.Mesh()
	if err != nil {
		t.Fatalf("Box.Mesh\nhave %#v\nwant nil", err)
	}
	checkMesh(m, 24, 12, t)
	for _, p := range m.Positions {
		for _, c := range p {
			if c != 1.5 && c != -1.5 {
				t.Fatalf("Box.Mesh: vertex not on a corner: %v", p)
			}
		}
	}
}
