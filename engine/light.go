// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/backdrop/linear"
)

const (
	ambientLight = iota
	pointLight
)

// Light defines a light source.
// The zero value for Light is not valid; one must
// call AmbientLight.Light or PointLight.Light to
// create an initialized Light.
type Light struct {
	typ       int
	position  linear.V3
	intensity float32
	rng       float32
	color     linear.V3
}

// SetPosition sets the position of l.
// Only applies to point lights.
func (l *Light) SetPosition(p *linear.V3) { l.position = *p }

// Position returns the position of l.
// Only applies to point lights.
func (l *Light) Position() linear.V3 { return l.position }

// SetIntensity sets the intensity of l.
func (l *Light) SetIntensity(i float32) { l.intensity = max(0, i) }

// Intensity returns the intensity of l.
func (l *Light) Intensity() float32 { return l.intensity }

// SetRange sets the falloff range of l.
// Zero or less means an infinite range.
// Only applies to point lights.
func (l *Light) SetRange(r float32) { l.rng = max(0, r) }

// Range returns the falloff range of l.
func (l *Light) Range() float32 { return l.rng }

// SetColor sets the RGB color of l.
func (l *Light) SetColor(r, g, b float32) { l.color = linear.V3{r, g, b} }

// Color returns the RGB color of l.
func (l *Light) Color() (r, g, b float32) {
	return l.color[0], l.color[1], l.color[2]
}

// irradiance computes the light that l contributes to a
// surface at position p with unit normal n.
// diffuse scales the directional term.
func (l *Light) irradiance(p, n *linear.V3, diffuse float32) (e linear.V3) {
	switch l.typ {
	case ambientLight:
		e.Scale(l.intensity, &l.color)
	case pointLight:
		var d linear.V3
		d.Sub(&l.position, p)
		dist := d.Len()
		d.Norm(&d)
		ndl := max(0, n.Dot(&d)) * diffuse
		if l.rng > 0 {
			ndl *= max(0, 1-dist/l.rng)
		}
		e.Scale(ndl*l.intensity, &l.color)
	}
	return
}

// AmbientLight lights every surface uniformly,
// regardless of position or orientation.
type AmbientLight struct {
	Intensity float32
	R, G, B   float32
}

// Light creates the light source described by t.
// t.R/G/B must be in the range [0, 1].
func (t *AmbientLight) Light() (light Light) {
	light.typ = ambientLight
	light.SetIntensity(t.Intensity)
	light.SetColor(t.R, t.G, t.B)
	return
}

// PointLight is an omnidirectional, positional light.
// The light is emitted in all directions from the
// given Position.
// Range determines the area affected by the light.
type PointLight struct {
	Position  linear.V3
	Range     float32
	Intensity float32
	R, G, B   float32
}

// Light creates the light source described by t.
// t.R/G/B must be in the range [0, 1].
// t.Range may be set to 0 or less to indicate an
// infinite range.
func (t *PointLight) Light() (light Light) {
	light.typ = pointLight
	light.SetIntensity(t.Intensity)
	light.SetRange(t.Range)
	light.SetColor(t.R, t.G, t.B)
	light.SetPosition(&t.Position)
	return
}
