// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package config holds the tunables of the program.
//
// An embedded default configuration is always applied
// first. Files given to Load are overlaid in order, so
// they only need to set the fields that differ.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

// Backend names.
const (
	Window   = "window"
	Terminal = "terminal"
	Headless = "headless"
)

type Viewport struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
	UserAgent  string  `yaml:"user_agent"`
}

type Assets struct {
	Dir         string        `yaml:"dir"`
	Background  string        `yaml:"background"`
	Avatar      string        `yaml:"avatar"`
	Moon        string        `yaml:"moon"`
	MoonNormal  string        `yaml:"moon_normal"`
	GraceDelay  time.Duration `yaml:"grace_delay"`
	Concurrency int           `yaml:"concurrency"`
}

// Names returns the asset names in load order.
func (a *Assets) Names() []string {
	return []string{a.Background, a.Avatar, a.Moon, a.MoonNormal}
}

type Scene struct {
	Stars           int    `yaml:"stars"`
	StarSegments    int    `yaml:"star_segments"`
	BackgroundColor string `yaml:"background_color"`
}

// Background parses BackgroundColor as 0xRRGGBB.
func (s *Scene) Background() (uint32, error) {
	c := strings.TrimPrefix(strings.TrimPrefix(s.BackgroundColor, "#"), "0x")
	if len(c) != 6 {
		return 0, fmt.Errorf("config: invalid color %q", s.BackgroundColor)
	}
	n, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("config: invalid color %q", s.BackgroundColor)
	}
	return uint32(n), nil
}

type Scroll struct {
	PageHeight float64 `yaml:"page_height"`
	Step       float64 `yaml:"step"`
}

type WindowConfig struct {
	Backend string `yaml:"backend"`
	Title   string `yaml:"title"`
}

type HeadlessConfig struct {
	Hz            int     `yaml:"hz"`
	Ticks         int     `yaml:"ticks"`
	ScrollPerTick float64 `yaml:"scroll_per_tick"`
	Snapshot      string  `yaml:"snapshot"`
}

type Config struct {
	Viewport Viewport       `yaml:"viewport"`
	Assets   Assets         `yaml:"assets"`
	Scene    Scene          `yaml:"scene"`
	Scroll   Scroll         `yaml:"scroll"`
	Window   WindowConfig   `yaml:"window"`
	Headless HeadlessConfig `yaml:"headless"`
}

func overlay(c *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(c)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	var c Config
	if err := overlay(&c, DEFAULT); err != nil {
		return nil, fmt.Errorf("invalid default config file: %w", err)
	}
	return &c, nil
}

// Load reads the provided configuration files in order and
// overlays them on the default configuration.
func Load(paths ...string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not process config file %s: %w", path, err)
		}
		if err := overlay(c, data); err != nil {
			return nil, fmt.Errorf("could not merge config file %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that c is usable.
func (c *Config) Validate() error {
	switch {
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return errors.New("config: viewport size must be positive")
	case c.Viewport.PixelRatio <= 0:
		return errors.New("config: pixel ratio must be positive")
	case c.Assets.GraceDelay < 0:
		return errors.New("config: negative grace delay")
	case c.Scene.Stars < 0:
		return errors.New("config: negative star count")
	case c.Scene.StarSegments < 3:
		return errors.New("config: star segments must be at least 3")
	case c.Scroll.PageHeight < 0 || c.Scroll.Step <= 0:
		return errors.New("config: invalid scroll settings")
	case c.Headless.Hz <= 0:
		return errors.New("config: headless rate must be positive")
	case c.Headless.Ticks < 0:
		return errors.New("config: negative tick count")
	}
	switch c.Window.Backend {
	case Window, Terminal, Headless:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Window.Backend)
	}
	_, err := c.Scene.Background()
	return err
}
