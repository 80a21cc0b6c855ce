// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package backdrop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/device"
)

func TestApp(t *testing.T) {
	var c canvas
	a := NewApp(&c, Options{
		Viewport: device.Viewport{Width: 1280, Height: 720, PixelRatio: 1},
		Assets:   asset.Table{"ignored": nil},
	})

	// Events before loading only update the initial state.
	require.NoError(t, a.Resize(400, 800, 2))
	a.Scroll(-1000)
	require.NoError(t, a.Tick(time.Second))
	assert.False(t, a.Started())
	assert.Nil(t, a.Scene())
	assert.Equal(t, 0, c.presents)

	a.Loaded(asset.Table{})
	a.Loaded(asset.Table{"late": nil})
	require.NoError(t, a.Tick(2*time.Second))
	require.True(t, a.Started())
	s := a.Scene()
	assert.Equal(t, 25, s.StarCount())
	assert.Equal(t, -1000.0, s.ScrollOffset())
	assert.InDelta(t, 10, s.Camera().Position[2], 1e-5)
	assert.Equal(t, 1, c.presents)
	assert.Equal(t, 400, c.width)

	// Later deliveries are ignored.
	a.Loaded(asset.Table{})
	require.NoError(t, a.Tick(3*time.Second))
	assert.Same(t, s, a.Scene())
	assert.Equal(t, 2, c.presents)

	a.Scroll(-2000)
	assert.Equal(t, -2000.0, s.ScrollOffset())

	require.NoError(t, a.Resize(1280, 720, 1))
	assert.Equal(t, 200, s.StarCount())
	assert.Error(t, a.Resize(0, 0, 1))
}

func TestAppPreloader(t *testing.T) {
	var c canvas
	a := NewApp(&c, Options{Viewport: device.Viewport{Width: 640, Height: 480}})
	p := &asset.Preloader{
		Store:      asset.FSStore(t.TempDir()),
		Names:      DefaultNames().slice(),
		GraceDelay: 10 * time.Millisecond,
		OnLoad:     a.Loaded,
	}
	require.NoError(t, p.Load(context.Background()))

	var now time.Duration
	require.Eventually(t, func() bool {
		now += time.Second
		return a.Tick(now) == nil && a.Started()
	}, 5*time.Second, 5*time.Millisecond)

	bg := a.Scene().Background()
	assert.Nil(t, bg.Image)
}
