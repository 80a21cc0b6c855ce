// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var names = []string{"space.jpg", "jeff.png", "moon.jpg", "normal.jpg"}

func pngData(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

func jpegData(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, img, nil))
	return b.Bytes()
}

type memStore map[string][]byte

func (m memStore) Get(ctx context.Context, key string) ([]byte, error) {
	if d, ok := m[key]; ok {
		return d, nil
	}
	return nil, ErrMissing
}

func fullStore(t *testing.T) memStore {
	return memStore{
		"space.jpg":  jpegData(t),
		"jeff.png":   pngData(t),
		"moon.jpg":   jpegData(t),
		"normal.jpg": jpegData(t),
	}
}

// recorder collects Preloader callbacks.
type recorder struct {
	mu       sync.Mutex
	loads    int
	table    Table
	progress []int
	errs     []string
	delays   []time.Duration
	pending  []func()
}

func (r *recorder) attach(p *Preloader) {
	p.OnLoad = func(t Table) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.loads++
		r.table = t
	}
	p.OnProgress = func(_ string, settled, _ int) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.progress = append(r.progress, settled)
	}
	p.OnError = func(name string, _ error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.errs = append(r.errs, name)
	}
	p.AfterFunc = func(d time.Duration, f func()) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.delays = append(r.delays, d)
		r.pending = append(r.pending, f)
	}
}

func (r *recorder) fire() {
	r.mu.Lock()
	fs := r.pending
	r.pending = nil
	r.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

func (r *recorder) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

func TestPreloadAll(t *testing.T) {
	p := &Preloader{Store: fullStore(t), Names: names}
	var r recorder
	r.attach(p)

	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, 1, r.loadCount())
	assert.Len(t, r.table, 4)
	assert.Empty(t, r.delays)
	assert.Empty(t, r.errs)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, r.progress)
	assert.NotNil(t, r.table.Get("jeff.png"))

	settled, failed := p.Settled()
	assert.Equal(t, 4, settled)
	assert.Equal(t, 0, failed)

	assert.Error(t, p.Load(context.Background()))
}

func TestPreloadOneFailure(t *testing.T) {
	store := fullStore(t)
	delete(store, "moon.jpg")
	p := &Preloader{Store: store, Names: names, GraceDelay: 500 * time.Millisecond}
	var r recorder
	r.attach(p)

	require.NoError(t, p.Load(context.Background()))
	// Not before the grace delay.
	assert.Equal(t, 0, r.loadCount())
	require.Equal(t, []time.Duration{500 * time.Millisecond}, r.delays)
	assert.Equal(t, []string{"moon.jpg"}, r.errs)
	assert.Len(t, r.progress, 4)

	r.fire()
	assert.Equal(t, 1, r.loadCount())
	assert.Len(t, r.table, 3)
	assert.Nil(t, r.table.Get("moon.jpg"))

	// Exactly once.
	p.complete()
	assert.Equal(t, 1, r.loadCount())
}

func TestPreloadEarlyFailures(t *testing.T) {
	store := memStore{"jeff.png": pngData(t)}
	p := &Preloader{Store: store, Names: names, Concurrency: 1}
	var r recorder
	r.attach(p)

	require.NoError(t, p.Load(context.Background()))
	require.Equal(t, []time.Duration{DefaultGraceDelay}, r.delays)
	assert.Equal(t, []int{1, 2, 3, 4}, r.progress)
	assert.Len(t, r.errs, 3)

	r.fire()
	assert.Equal(t, 1, r.loadCount())
	assert.Len(t, r.table, 1)
}

func TestPreloadTimer(t *testing.T) {
	done := make(chan Table, 1)
	p := &Preloader{
		Store:      memStore{},
		Names:      []string{"space.jpg"},
		GraceDelay: 50 * time.Millisecond,
		OnLoad:     func(t Table) { done <- t },
	}
	start := time.Now()
	require.NoError(t, p.Load(context.Background()))
	select {
	case tab := <-done:
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Empty(t, tab)
	case <-time.After(5 * time.Second):
		t.Fatal("Preloader: OnLoad not called after the grace delay")
	}
}

func TestPreloadEmpty(t *testing.T) {
	var r recorder
	p := &Preloader{Store: memStore{}}
	r.attach(p)
	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, 1, r.loadCount())
}

func TestPreloadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r recorder
	p := &Preloader{Store: FSStore(t.TempDir()), Names: names}
	r.attach(p)
	assert.ErrorIs(t, p.Load(ctx), context.Canceled)
	assert.Len(t, r.errs, 4)
	r.fire()
	assert.Equal(t, 1, r.loadCount())
}

func TestDecode(t *testing.T) {
	img, err := Decode("jeff.png", pngData(t))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	img, err = Decode("moon.jpg", jpegData(t))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	// The name does not matter.
	_, err = Decode("moon.jpg", pngData(t))
	require.NoError(t, err)

	_, err = Decode("space.jpg", []byte("<html></html>"))
	assert.ErrorIs(t, err, ErrFormat)

	// Truncated data.
	data := pngData(t)
	_, err = Decode("jeff.png", data[:len(data)/2])
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrFormat))
}

func TestStores(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jeff.png"), pngData(t), 0644))
	ctx := context.Background()

	data, err := FSStore(dir).Get(ctx, "jeff.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	_, err = FSStore(dir).Get(ctx, "moon.jpg")
	assert.ErrorIs(t, err, ErrMissing)

	mfs := FS{fstest.MapFS{"jeff.png": {Data: pngData(t)}}}
	data, err = mfs.Get(ctx, "jeff.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	_, err = mfs.Get(ctx, "moon.jpg")
	assert.ErrorIs(t, err, ErrMissing)
}
