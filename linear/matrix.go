// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
// m may alias either operand.
func (m *M4) Mul(l, r *M4) {
	var t M4
	for i := range t {
		for j := range t {
			for k := range t {
				t[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = t
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	t := *n
	for i := range m {
		for j := range m {
			m[i][j] = t[j][i]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	t := *n
	n = &t
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	m[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	m[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	m[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	m[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	m[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	m[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	m[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	m[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	m[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	m[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	m[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	m[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	m[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	m[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	m[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	m[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale sets m to contain a scale matrix.
func (m *M4) Scale(x, y, z float32) { *m = M4{{x}, {1: y}, {2: z}, {3: 1}} }

// RotateX sets m to contain a rotation of a radians
// around the x axis.
func (m *M4) RotateX(a float32) {
	s, c := sincos(a)
	*m = M4{{1}, {0, c, s}, {0, -s, c}, {3: 1}}
}

// RotateY sets m to contain a rotation of a radians
// around the y axis.
func (m *M4) RotateY(a float32) {
	s, c := sincos(a)
	*m = M4{{c, 0, -s}, {1: 1}, {s, 0, c}, {3: 1}}
}

// RotateZ sets m to contain a rotation of a radians
// around the z axis.
func (m *M4) RotateZ(a float32) {
	s, c := sincos(a)
	*m = M4{{c, s}, {-s, c}, {2: 1}, {3: 1}}
}

// Euler sets m to contain the rotation described by
// the angles in e, applied in X, Y, Z order
// (i.e., m = Rx ⋅ Ry ⋅ Rz).
func (m *M4) Euler(e *V3) {
	var y, z M4
	m.RotateX(e[0])
	y.RotateY(e[1])
	z.RotateZ(e[2])
	m.Mul(m, &y)
	m.Mul(m, &z)
}

// TRS sets m to contain T ⋅ R ⋅ S, where T translates by t,
// R rotates by the Euler angles in r and S scales by s.
func (m *M4) TRS(t, r, s *V3) {
	var x M4
	m.Translate(t[0], t[1], t[2])
	x.Euler(r)
	m.Mul(m, &x)
	x.Scale(s[0], s[1], s[2])
	m.Mul(m, &x)
}

// Perspective sets m to contain a perspective projection.
// fovy is the vertical field of view in radians.
// Depth is mapped to the [-1, 1] range.
func (m *M4) Perspective(fovy, aspect, near, far float32) {
	f := 1 / float32(math.Tan(float64(fovy)/2))
	*m = M4{}
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = -1
	m[3][2] = 2 * far * near / (near - far)
}

func sincos(a float32) (s, c float32) {
	sf, cf := math.Sincos(float64(a))
	return float32(sf), float32(cf)
}
