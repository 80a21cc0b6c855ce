// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package backdrop

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/device"
	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

type canvas struct {
	width, height int
	presents      int
}

func (c *canvas) Configure(width, height int) error {
	c.width, c.height = width, height
	return nil
}

func (c *canvas) Present(*driver.Frame) error {
	c.presents++
	return nil
}

const iPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"

func newScene(t *testing.T, w, h int, dpr float64, ua string) (*Scene, *canvas) {
	t.Helper()
	var c canvas
	s, err := New(&c, Options{
		Viewport:   device.Viewport{Width: w, Height: h, PixelRatio: dpr, UserAgent: ua},
		Background: DefaultBackground,
		Seed:       1,
	})
	require.NoError(t, err)
	return s, &c
}

func scales(s *Scene) []float32 {
	return []float32{s.Torus().Scale[0], s.Avatar().Scale[0], s.Moon().Scale[0]}
}

func TestNew(t *testing.T) {
	s, c := newScene(t, 1280, 720, 2, "")

	assert.Equal(t, 200, s.StarCount())
	assert.Equal(t, device.DesktopTorus, s.TorusSegments())
	assert.False(t, s.Profile().LowPerformance)
	assert.Equal(t, 2.0, s.Renderer().PixelRatio())
	assert.Equal(t, 2560, c.width)
	assert.Equal(t, 1440, c.height)
	assert.Equal(t, 0, c.presents)
	assert.Equal(t, 2, s.Renderer().Lights())

	assert.Equal(t, linear.V3{-10, 0, 30}, s.Moon().Position)
	assert.Equal(t, linear.V3{2, 0, -5}, s.Avatar().Position)
	assert.Equal(t, linear.V3{}, s.Torus().Position)
	assert.Equal(t, []float32{1, 1, 1}, scales(s))

	// Top of the page.
	cam := s.Camera()
	assert.InDelta(t, 0, cam.Position[0], 1e-6)
	assert.InDelta(t, 0, cam.Position[1], 1e-6)
	assert.InDelta(t, 0, cam.Position[2], 1e-6)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect(), 1e-6)

	// No assets.
	bg := s.Background()
	assert.Nil(t, bg.Image)
	assert.InDelta(t, 5.0/255.0, bg.Color[0], 1e-6)
	assert.False(t, s.Avatar().Material.Textured())
	assert.False(t, s.Moon().Material.Textured())
	assert.Nil(t, s.Moon().Material.NormalMap)

	_, err := New(c, Options{})
	assert.Error(t, err)
	_, err = New(nil, Options{Viewport: device.Viewport{Width: 1, Height: 1}})
	assert.Error(t, err)
}

func TestNewAssets(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var c canvas
	s, err := New(&c, Options{
		Viewport: device.Viewport{Width: 800, Height: 600},
		Assets: asset.Table{
			BackgroundAsset: img,
			AvatarAsset:     img,
			MoonNormalAsset: img,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, image.Image(img), s.Background().Image)
	assert.True(t, s.Avatar().Material.Textured())
	assert.False(t, s.Moon().Material.Textured())
	assert.NotNil(t, s.Moon().Material.NormalMap)
}

func TestStars(t *testing.T) {
	var c canvas
	s, err := New(&c, Options{
		Viewport:     device.Viewport{Width: 1280, Height: 720},
		Stars:        30,
		StarSegments: 6,
	})
	require.NoError(t, err)
	require.Equal(t, 30, s.StarCount())

	var first *node.Node
	n := 0
	s.Root().ForEach(func(x *node.Node) {
		if x.Name != "star" {
			return
		}
		n++
		if first == nil {
			first = x
		}
		assert.Same(t, first.Mesh, x.Mesh)
		assert.Same(t, first.Material, x.Material)
		for _, p := range x.Position {
			assert.GreaterOrEqual(t, p, float32(-50))
			assert.Less(t, p, float32(50))
		}
	})
	assert.Equal(t, 30, n)
	assert.Len(t, first.Mesh.Positions, 7*7)
}

func TestScrollScale(t *testing.T) {
	for _, vp := range [][2]int{{1280, 720}, {400, 800}} {
		s, _ := newScene(t, vp[0], vp[1], 1, "")
		base := s.Profile().BaseScale
		for _, off := range []float64{1e9, 5000, 1, 0, -1, -1000, -1999, -2000, -2001, -1e5, -1e9, math.Inf(-1)} {
			s.Scroll(off)
			for _, x := range scales(s) {
				assert.GreaterOrEqual(t, x, base-0.1-1e-6, "offset %v", off)
				assert.LessOrEqual(t, x, base+0.1+1e-6, "offset %v", off)
			}
		}
		s.Scroll(-1000)
		for _, x := range scales(s) {
			assert.InDelta(t, base-0.05, x, 1e-6)
		}
		s.Scroll(-1e6)
		for _, x := range scales(s) {
			assert.InDelta(t, base-0.1, x, 1e-6)
		}
	}
}

func TestScrollCamera(t *testing.T) {
	s, _ := newScene(t, 1280, 720, 1, "")
	cam := s.Camera()
	for _, off := range []float64{1e9, 1000, 0, -1000, -4999, -5000, -1e5, -1e9} {
		s.Scroll(off)
		assert.GreaterOrEqual(t, cam.Position[2], float32(-50))
		assert.LessOrEqual(t, cam.Position[2], float32(50))
		assert.GreaterOrEqual(t, cam.Position[0], float32(-20))
		assert.LessOrEqual(t, cam.Position[0], float32(20))
		assert.GreaterOrEqual(t, cam.Rotation[1], float32(-math.Pi/6)-1e-6)
		assert.LessOrEqual(t, cam.Rotation[1], float32(math.Pi/6)+1e-6)
	}

	s.Scroll(-1000)
	assert.InDelta(t, 10, cam.Position[2], 1e-5)
	assert.InDelta(t, 0.2, cam.Position[0], 1e-6)
	assert.InDelta(t, 0.2, cam.Rotation[1], 1e-6)

	s.Scroll(-1e6)
	assert.InDelta(t, 50, cam.Position[2], 1e-5)
	assert.InDelta(t, 20, cam.Position[0], 1e-5)
	assert.InDelta(t, math.Pi/6, cam.Rotation[1], 1e-6)

	s.Scroll(1e6)
	assert.InDelta(t, -50, cam.Position[2], 1e-5)
	assert.InDelta(t, -20, cam.Position[0], 1e-5)
	assert.InDelta(t, -math.Pi/6, cam.Rotation[1], 1e-6)
}

func TestScrollRotation(t *testing.T) {
	for _, x := range []struct {
		width  int
		factor float32
	}{
		{1280, 1},
		{700, 0.7},
	} {
		s, _ := newScene(t, x.width, 720, 1, "")
		moon, avatar, torus := s.Moon().Rotation, s.Avatar().Rotation, s.Torus().Rotation
		s.Scroll(-10)
		s.Scroll(-20)
		f := 2 * x.factor
		assert.InDelta(t, moon[0]+0.05*f, s.Moon().Rotation[0], 1e-5)
		assert.InDelta(t, moon[1]+0.075*f, s.Moon().Rotation[1], 1e-5)
		assert.InDelta(t, moon[2]+0.05*f, s.Moon().Rotation[2], 1e-5)
		assert.InDelta(t, avatar[0], s.Avatar().Rotation[0], 1e-6)
		assert.InDelta(t, avatar[1]+0.01*f, s.Avatar().Rotation[1], 1e-5)
		assert.InDelta(t, avatar[2]+0.01*f, s.Avatar().Rotation[2], 1e-5)
		assert.Equal(t, torus, s.Torus().Rotation)
	}
}

func TestAnimate(t *testing.T) {
	s, c := newScene(t, 1280, 720, 1, "")
	moonX := s.Moon().Rotation[0]

	// Nothing happens before a full interval.
	ok, err := s.Animate(10 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, linear.V3{}, s.Torus().Rotation)
	assert.Equal(t, 0, c.presents)

	ok, err = s.Animate(20 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.presents)
	assert.Equal(t, 1, s.Renderer().Draws())
	assert.InDelta(t, 0.01, s.Torus().Rotation[0], 1e-6)
	assert.InDelta(t, 0.005, s.Torus().Rotation[1], 1e-6)
	assert.InDelta(t, 0.01, s.Torus().Rotation[2], 1e-6)
	assert.InDelta(t, moonX+0.005, s.Moon().Rotation[0], 1e-6)

	// Excess time is carried over.
	ok, err = s.Animate(20*time.Millisecond + time.Second/60 - 3*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnimateReclamp(t *testing.T) {
	s, _ := newScene(t, 1280, 720, 1, "")
	s.Torus().SetScale(3)
	s.Moon().SetScale(0.1)
	s.Avatar().SetScale(1.5)

	// Skipped ticks leave scale alone.
	ok, err := s.Animate(time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, []float32{3, 1.5, 0.1}, scales(s))

	ok, err = s.Animate(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1.5, 1}, scales(s))

	m, _ := newScene(t, 400, 800, 1, "")
	m.Moon().SetScale(3)
	_, err = m.Animate(time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, m.Moon().Scale[0], 1e-6)
}

func TestThrottle(t *testing.T) {
	s, c := newScene(t, 400, 800, 1, "")
	require.Equal(t, 30, s.Profile().TargetFPS)

	n := 0
	for _, tick := range []time.Duration{40 * time.Millisecond, 50 * time.Millisecond} {
		ok, err := s.Animate(tick)
		require.NoError(t, err)
		if ok {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, c.presents)

	// The frame rate never exceeds the target.
	s, c = newScene(t, 1280, 720, 1, "")
	for tick := time.Duration(0); tick <= time.Second; tick += time.Millisecond {
		_, err := s.Animate(tick)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.presents, 60)
	assert.GreaterOrEqual(t, c.presents, 59)
}

func TestResize(t *testing.T) {
	s, c := newScene(t, 1280, 720, 2, "")

	require.NoError(t, s.Resize(400, 800, 2))
	p := s.Profile()
	assert.True(t, p.LowPerformance)
	assert.Equal(t, 25, s.StarCount())
	assert.Equal(t, device.SmallTorus, s.TorusSegments())
	assert.Equal(t, 1.0, s.Renderer().PixelRatio())
	assert.Equal(t, 400, c.width)
	assert.Equal(t, 800, c.height)
	assert.Equal(t, []float32{0.85, 0.85, 0.85}, scales(s))
	assert.Equal(t, linear.V3{-8, 0, 25}, s.Moon().Position)
	assert.InDelta(t, 0.5, s.Camera().Aspect(), 1e-6)
	assert.Equal(t, float32(40), s.Camera().Position[2])
	assert.Equal(t, float32(5), s.Camera().Position[1])

	// Same metrics, same state.
	stars := s.Root().Len()
	require.NoError(t, s.Resize(400, 800, 2))
	assert.Equal(t, stars, s.Root().Len())

	require.NoError(t, s.Resize(600, 500, 0))
	assert.Equal(t, 50, s.StarCount())
	assert.Equal(t, device.MobileTorus, s.TorusSegments())
	assert.Equal(t, 600, c.width)

	require.NoError(t, s.Resize(1280, 720, 0))
	assert.False(t, s.Profile().LowPerformance)
	assert.Equal(t, 200, s.StarCount())
	assert.Equal(t, device.DesktopTorus, s.TorusSegments())
	assert.Equal(t, 2.0, s.Renderer().PixelRatio())
	assert.Equal(t, 2560, c.width)
	assert.Equal(t, []float32{1, 1, 1}, scales(s))
	assert.Equal(t, linear.V3{-10, 0, 30}, s.Moon().Position)
	assert.Equal(t, float32(30), s.Camera().Position[2])
	assert.Equal(t, float32(0), s.Camera().Position[1])

	assert.Error(t, s.Resize(0, 720, 1))
}

func TestMobileAgent(t *testing.T) {
	s, _ := newScene(t, 1024, 768, 3, iPhone)
	p := s.Profile()
	assert.True(t, p.Mobile)
	assert.True(t, p.LowPerformance)
	assert.Equal(t, 50, s.StarCount())
	assert.Equal(t, 1.0, s.Renderer().PixelRatio())
	assert.Equal(t, float32(1), p.RotationFactor)
	assert.Equal(t, []float32{0.85, 0.85, 0.85}, scales(s))
}

func TestOrientation(t *testing.T) {
	s, _ := newScene(t, 1280, 720, 1, "")
	cam := s.Camera()

	s.Scroll(-3000)
	s.viewport.Width, s.viewport.Height = 720, 1280
	s.AdjustCameraForOrientation()
	assert.Equal(t, float32(40), cam.Position[2])
	assert.Equal(t, float32(5), cam.Position[1])

	s.viewport.Width, s.viewport.Height = 1280, 720
	s.AdjustCameraForOrientation()
	assert.Equal(t, float32(30), cam.Position[2])
	assert.Equal(t, float32(0), cam.Position[1])

	// Square is landscape.
	s.viewport.Width, s.viewport.Height = 800, 800
	cam.Position[1] = 3
	s.AdjustCameraForOrientation()
	assert.Equal(t, float32(30), cam.Position[2])
	assert.Equal(t, float32(0), cam.Position[1])
}
