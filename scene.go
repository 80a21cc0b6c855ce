// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package backdrop

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/device"
	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/engine"
	"github.com/gviegas/backdrop/engine/material"
	"github.com/gviegas/backdrop/engine/mesh"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// Names identifies the assets used by the scene.
type Names struct {
	Background string
	Avatar     string
	Moon       string
	MoonNormal string
}

// DefaultNames returns the default asset names.
func DefaultNames() Names {
	return Names{
		Background: BackgroundAsset,
		Avatar:     AvatarAsset,
		Moon:       MoonAsset,
		MoonNormal: MoonNormalAsset,
	}
}

func (n Names) slice() []string {
	return []string{n.Background, n.Avatar, n.Moon, n.MoonNormal}
}

// Options configures a Scene.
type Options struct {
	Viewport device.Viewport

	// Loaded assets. Missing entries fall back to
	// flat colors.
	Assets asset.Table
	Names  Names

	// Star count of the desktop profile.
	// Zero selects device.DesktopStars.
	Stars int

	// Width and height segments of each star.
	// Zero selects 8.
	StarSegments int

	// Fallback background color (0xRRGGBB).
	Background uint32

	// Initial scroll offset.
	Scroll float64

	// Seed for star placement.
	Seed uint64
}

// Scene is the scene context.
type Scene struct {
	camera     *engine.Camera
	renderer   *engine.Renderer
	background engine.Background

	root   node.Node
	stars  *node.Node
	torus  *node.Node
	avatar *node.Node
	moon   *node.Node

	starMesh     *mesh.Mesh
	starMaterial *material.Material
	torusSegs    device.Segments

	viewport     device.Viewport
	profile      device.Profile
	desktopStars int

	rand   *rand.Rand
	scroll float64
	last   time.Duration
}

// Object placement.
var (
	moonPosition       = linear.V3{-10, 0, 30}
	mobileMoonPosition = linear.V3{-8, 0, 25}
	avatarPosition     = linear.V3{2, 0, -5}
	cameraPosition     = linear.V3{-3, 0, 30}
	pointLightPosition = linear.V3{5, 5, 5}
)

// Torus shape.
const (
	torusRadius = 10
	torusTube   = 3
	torusColor  = 0xff6347
)

// New creates the scene and renders nothing yet.
// The first frame is drawn by Animate.
func New(canvas driver.Canvas, opts Options) (*Scene, error) {
	vp := opts.Viewport
	if err := driver.CheckSize(vp.Width, vp.Height); err != nil {
		return nil, err
	}
	if !(vp.PixelRatio > 0) {
		vp.PixelRatio = 1
	}
	if opts.Names == (Names{}) {
		opts.Names = DefaultNames()
	}
	if opts.Stars <= 0 {
		opts.Stars = device.DesktopStars
	}
	if opts.StarSegments <= 0 {
		opts.StarSegments = 8
	}

	s := &Scene{
		viewport:     vp,
		desktopStars: opts.Stars,
		rand:         rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	s.root.Init("scene")

	var err error
	if s.camera, err = engine.NewPerspective(FOV, vp.Aspect(), Near, Far); err != nil {
		return nil, err
	}
	if s.renderer, err = engine.NewRenderer(canvas, vp.Width, vp.Height); err != nil {
		return nil, err
	}
	if err = s.renderer.SetPixelRatio(vp.PixelRatio); err != nil {
		return nil, err
	}
	s.camera.Position = cameraPosition

	if img := opts.Assets.Get(opts.Names.Background); img != nil {
		s.background.Image = img
	} else {
		s.background.Color = material.RGB(opts.Background)
	}

	s.torusSegs = device.DesktopTorus
	tm, err := torusMesh(s.torusSegs)
	if err != nil {
		return nil, err
	}
	s.torus = node.New("torus")
	s.torus.Mesh = tm
	s.torus.Material = material.NewStandard(torusColor, nil, nil)
	s.root.Insert(s.torus)

	point := engine.PointLight{Position: pointLightPosition, Intensity: 1, R: 1, G: 1, B: 1}
	ambient := engine.AmbientLight{Intensity: 1, R: 1, G: 1, B: 1}
	if err = s.renderer.SetLights(point.Light(), ambient.Light()); err != nil {
		return nil, err
	}

	if s.starMesh, err = (&mesh.Sphere{
		Radius:         StarRadius,
		WidthSegments:  opts.StarSegments,
		HeightSegments: opts.StarSegments,
	}).Mesh(); err != nil {
		return nil, err
	}
	s.starMaterial = material.NewStandard(0xffffff, nil, nil)
	s.stars = node.New("stars")
	s.root.Insert(s.stars)
	s.addStars(s.desktopStars)

	box, err := (&mesh.Box{Width: 3, Height: 3, Depth: 3}).Mesh()
	if err != nil {
		return nil, err
	}
	s.avatar = node.New("avatar")
	s.avatar.Mesh = box
	s.avatar.Material = material.NewBasic(0xffffff, opts.Assets.Get(opts.Names.Avatar))
	s.root.Insert(s.avatar)

	sphere, err := (&mesh.Sphere{Radius: 3, WidthSegments: 32, HeightSegments: 32}).Mesh()
	if err != nil {
		return nil, err
	}
	s.moon = node.New("moon")
	s.moon.Mesh = sphere
	s.moon.Material = material.NewStandard(0xffffff,
		opts.Assets.Get(opts.Names.Moon),
		opts.Assets.Get(opts.Names.MoonNormal))
	s.root.Insert(s.moon)

	s.moon.Position = moonPosition
	s.avatar.Position = avatarPosition

	s.torus.SetScale(1)
	s.moon.SetScale(1)
	s.avatar.SetScale(1)

	if err = s.CheckPerformance(); err != nil {
		return nil, err
	}
	s.AdjustCameraForOrientation()
	s.Scroll(opts.Scroll)

	log.Info().
		Int("width", vp.Width).
		Int("height", vp.Height).
		Bool("lowPerformance", s.profile.LowPerformance).
		Int("stars", s.StarCount()).
		Msg("Scene initialized")
	return s, nil
}

func torusMesh(segs device.Segments) (*mesh.Mesh, error) {
	return (&mesh.Torus{
		Radius:          torusRadius,
		Tube:            torusTube,
		RadialSegments:  segs.Radial,
		TubularSegments: segs.Tubular,
	}).Mesh()
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *engine.Camera { return s.camera }

// Renderer returns the scene's renderer.
func (s *Scene) Renderer() *engine.Renderer { return s.renderer }

// Torus returns the torus node.
func (s *Scene) Torus() *node.Node { return s.torus }

// Avatar returns the avatar node.
func (s *Scene) Avatar() *node.Node { return s.avatar }

// Moon returns the moon node.
func (s *Scene) Moon() *node.Node { return s.moon }

// Root returns the root of the scene graph.
func (s *Scene) Root() *node.Node { return &s.root }

// Background returns what is drawn behind the scene.
func (s *Scene) Background() *engine.Background { return &s.background }

// Profile returns the profile in effect.
func (s *Scene) Profile() device.Profile { return s.profile }

// Viewport returns the current viewport.
func (s *Scene) Viewport() device.Viewport { return s.viewport }

// TorusSegments returns the torus tessellation in use.
func (s *Scene) TorusSegments() device.Segments { return s.torusSegs }

// StarCount returns the number of stars in the scene.
func (s *Scene) StarCount() int { return s.stars.Len() }

// ScrollOffset returns the offset of the last scroll.
func (s *Scene) ScrollOffset() float64 { return s.scroll }

// objects returns the three decorated objects.
func (s *Scene) objects() [3]*node.Node { return [3]*node.Node{s.torus, s.avatar, s.moon} }

// addStars adds n stars at random positions.
// Every star shares the same mesh and material.
func (s *Scene) addStars(n int) {
	for i := 0; i < n; i++ {
		star := node.New("star")
		star.Mesh = s.starMesh
		star.Material = s.starMaterial
		star.Position = linear.V3{s.spread(), s.spread(), s.spread()}
		s.stars.Insert(star)
	}
}

// removeStars removes every star.
func (s *Scene) removeStars() {
	for _, star := range s.stars.Children() {
		star.Remove()
	}
}

// spread returns a random value in [-StarSpread/2, StarSpread/2).
func (s *Scene) spread() float32 {
	return StarSpread * (s.rand.Float32() - 0.5)
}
