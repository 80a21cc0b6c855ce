// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"math"

	"github.com/gviegas/backdrop/linear"
)

// Camera is a perspective camera.
// It looks down its local -z axis.
type Camera struct {
	// World transform. Rotation holds Euler angles
	// (radians) applied in X, Y, Z order.
	Position linear.V3
	Rotation linear.V3

	fov    float32
	aspect float32
	near   float32
	far    float32
	proj   linear.M4
}

// NewPerspective creates a perspective camera.
// fov is the vertical field of view in degrees.
func NewPerspective(fov, aspect, near, far float32) (*Camera, error) {
	switch {
	case fov <= 0 || fov >= 180:
		return nil, newCamErr("field of view out of range")
	case aspect <= 0:
		return nil, newCamErr("non-positive aspect ratio")
	case near <= 0 || far <= near:
		return nil, newCamErr("invalid clip planes")
	}
	c := &Camera{fov: fov, aspect: aspect, near: near, far: far}
	c.UpdateProjection()
	return c, nil
}

// SetAspect sets the aspect ratio of c.
// Non-positive values are ignored.
// UpdateProjection must be called for it to take effect.
func (c *Camera) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// Aspect returns the aspect ratio of c.
func (c *Camera) Aspect() float32 { return c.aspect }

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.fov }

// Near returns the distance to the near plane.
func (c *Camera) Near() float32 { return c.near }

// Far returns the distance to the far plane.
func (c *Camera) Far() float32 { return c.far }

// UpdateProjection recomputes the projection matrix.
func (c *Camera) UpdateProjection() {
	c.proj.Perspective(c.fov*math.Pi/180, c.aspect, c.near, c.far)
}

// Projection returns the projection matrix.
func (c *Camera) Projection() *linear.M4 { return &c.proj }

// View sets m to contain the view matrix of c.
func (c *Camera) View(m *linear.M4) {
	m.TRS(&c.Position, &c.Rotation, &linear.V3{1, 1, 1})
	m.Invert(m)
}
