// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package material defines the surface properties applied
// to geometry during rendering.
package material

import (
	"image"
)

// Model identifies a shading model.
type Model int

// Shading models.
const (
	// Unlit. The base color is used as is.
	Basic Model = iota
	// Lit by the scene's lights.
	Standard
)

// String implements fmt.Stringer.
func (m Model) String() string {
	switch m {
	case Basic:
		return "Basic"
	case Standard:
		return "Standard"
	default:
		return "!material.Model"
	}
}

// Material describes how a surface is shaded.
type Material struct {
	Model Model

	// Linear RGB in the [0, 1] range.
	Color [3]float32

	// Color map sampled with the mesh's TexCoord0.
	// It may be nil.
	Map image.Image

	// Tangent-space normal map sampled with the mesh's
	// TexCoord0. It may be nil.
	NormalMap image.Image
}

// RGB converts a 0xRRGGBB value into a color.
func RGB(hex uint32) [3]float32 {
	return [3]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// NewBasic creates an unlit material.
func NewBasic(hex uint32, colorMap image.Image) *Material {
	return &Material{Model: Basic, Color: RGB(hex), Map: colorMap}
}

// NewStandard creates a lit material.
func NewStandard(hex uint32, colorMap, normalMap image.Image) *Material {
	return &Material{Model: Standard, Color: RGB(hex), Map: colorMap, NormalMap: normalMap}
}

// Textured reports whether m has a color map.
func (m *Material) Textured() bool { return m.Map != nil }
