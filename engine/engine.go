// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements real-time rendering.
//
// Geometry is transformed, lit and projected on the CPU,
// then handed to a driver.Canvas as depth-sorted batches
// of screen-space triangles.
package engine

import (
	"errors"
)

const (
	// The maximum number of lights per frame.
	MaxLight = 8

	// The maximum number of vertices in a batch.
	MaxBatchVertex = 65535
)

func newRendErr(s string) error { return errors.New("renderer: " + s) }

func newCamErr(s string) error { return errors.New("camera: " + s) }
