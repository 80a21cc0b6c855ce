// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package backdrop

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop/device"
	"github.com/gviegas/backdrop/linear"
)

// Rotation added to each object per scroll event, before
// the profile's rotation factor is applied.
var (
	moonScrollStep   = linear.V3{0.05, 0.075, 0.05}
	avatarScrollStep = linear.V3{0, 0.01, 0.01}
)

// Rotation added per rendered frame.
var (
	torusFrameStep = linear.V3{0.01, 0.005, 0.01}
	moonFrameStep  = linear.V3{0.005, 0, 0}
)

// Scroll maps the scroll offset t onto the scene.
// t is zero at the top of the page and decreases as
// the page scrolls down.
//
// Rotation is cumulative. Scale and camera placement
// depend only on t and are clamped.
func (s *Scene) Scroll(t float64) {
	s.scroll = t
	f := s.profile.RotationFactor

	var step linear.V3
	step.Scale(f, &moonScrollStep)
	s.moon.Rotation.Add(&s.moon.Rotation, &step)
	step.Scale(f, &avatarScrollStep)
	s.avatar.Rotation.Add(&s.avatar.Rotation, &step)

	pct := linear.Clamp(t/ScrollRange, -1, 0)
	scale := s.profile.BaseScale + float32(pct*ScaleChange)
	for _, x := range s.objects() {
		x.SetScale(scale)
	}

	s.camera.Position[2] = float32(linear.Clamp(t*CameraZFactor, -CameraZLimit, CameraZLimit))
	s.camera.Position[0] = float32(linear.Clamp(t*CameraXFactor, -CameraXLimit, CameraXLimit))
	s.camera.Rotation[1] = float32(linear.Clamp(t*CameraYawFactor, -CameraYawLimit, CameraYawLimit))
}

// Animate is called on every display refresh with the
// time elapsed since the loop started.
// Ticks closer than the profile's frame interval to the
// last accepted one are skipped, leaving the scene
// untouched. Otherwise the scene advances and is
// rendered, and Animate reports true.
func (s *Scene) Animate(now time.Duration) (bool, error) {
	interval := s.profile.FrameInterval()
	delta := now - s.last
	if delta < interval {
		return false, nil
	}
	s.last = now - delta%interval

	base := s.profile.BaseScale
	for _, x := range s.objects() {
		if x.Scale[0] < MinScale || x.Scale[0] > MaxScale {
			x.SetScale(base)
		}
	}
	s.torus.Rotation.Add(&s.torus.Rotation, &torusFrameStep)
	s.moon.Rotation.Add(&s.moon.Rotation, &moonFrameStep)

	return true, s.Render()
}

// Render draws the scene in its current state.
func (s *Scene) Render() error {
	return s.renderer.Render(&s.root, s.camera, &s.background)
}

// Resize handles a change of the viewport.
// pixelRatio values of zero or less are ignored.
func (s *Scene) Resize(width, height int, pixelRatio float64) error {
	if err := s.renderer.SetSize(width, height); err != nil {
		return err
	}
	if pixelRatio > 0 {
		s.viewport.PixelRatio = pixelRatio
	}
	s.viewport.Width, s.viewport.Height = width, height
	s.camera.SetAspect(s.viewport.Aspect())
	s.camera.UpdateProjection()

	log.Debug().Int("width", width).Int("height", height).Float64("pixelRatio", pixelRatio).Msg("Resize")
	if err := s.CheckPerformance(); err != nil {
		return err
	}
	s.AdjustCameraForOrientation()
	return nil
}

// CheckPerformance classifies the current viewport and
// applies the resulting profile.
func (s *Scene) CheckPerformance() error {
	return s.applyProfile(device.Classify(s.viewport, s.desktopStars))
}

// applyProfile is idempotent: the scene state it sets is
// a function of p alone.
func (s *Scene) applyProfile(p device.Profile) error {
	if n := s.StarCount(); n != p.StarCount {
		s.removeStars()
		s.addStars(p.StarCount)
	}

	for _, x := range s.objects() {
		x.SetScale(p.BaseScale)
	}
	if p.LowPerformance {
		s.moon.Position = mobileMoonPosition
	} else {
		s.moon.Position = moonPosition
	}

	if p.Torus != s.torusSegs {
		m, err := torusMesh(p.Torus)
		if err != nil {
			return err
		}
		s.torus.Mesh = m
		s.torusSegs = p.Torus
	}

	if p.PixelRatio != s.renderer.PixelRatio() {
		if err := s.renderer.SetPixelRatio(p.PixelRatio); err != nil {
			return err
		}
	}

	if p != s.profile {
		log.Debug().
			Bool("mobile", p.Mobile).
			Bool("lowPerformance", p.LowPerformance).
			Int("stars", p.StarCount).
			Int("fps", p.TargetFPS).
			Msg("Profile changed")
	}
	s.profile = p
	return nil
}

// Camera placement per orientation.
const (
	portraitZ  = 40
	portraitY  = 5
	landscapeZ = 30
	landscapeY = 0
)

// AdjustCameraForOrientation places the camera for the
// current viewport orientation.
func (s *Scene) AdjustCameraForOrientation() {
	if s.viewport.Portrait() {
		s.camera.Position[2] = portraitZ
		s.camera.Position[1] = portraitY
	} else {
		s.camera.Position[2] = landscapeZ
		s.camera.Position[1] = landscapeY
	}
	s.camera.UpdateProjection()
}
