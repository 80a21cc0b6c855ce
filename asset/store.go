// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package asset loads the images that decorate the scene.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrMissing means that a store has no entry for a key.
var ErrMissing = errors.New("asset: missing")

// Store is the interface that provides raw asset data.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// FSStore is a Store backed by a directory.
type FSStore string

func (f FSStore) path(key string) string { return filepath.Join(string(f), filepath.FromSlash(key)) }

// Get implements Store.
func (f FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, key)
	}
	return data, err
}

// FS is a Store backed by an fs.FS.
type FS struct{ fs.FS }

// Get implements Store.
func (f FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.FS, key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, key)
	}
	return data, err
}
