// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !cgo

// Package window implements the desktop window backend.
package window

import (
	"errors"

	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/wsi"
)

// Config controls the window backend.
type Config struct {
	Title  string
	Width  int
	Height int

	PageHeight float64
	Step       float64
}

// Run always fails: the window backend requires cgo.
func Run(Config, func(driver.Canvas) wsi.Handler) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
