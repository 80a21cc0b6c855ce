// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gviegas/backdrop"
	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/config"
	"github.com/gviegas/backdrop/device"
	"github.com/gviegas/backdrop/driver"
	"github.com/gviegas/backdrop/wsi"
	"github.com/gviegas/backdrop/wsi/window"
)

const version = "0.1.0"

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging." env:"BACKDROP_DEBUG"`

	Run struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files, applied in order." type:"existingfile"`

		Backend   string  `help:"Presentation backend (window, terminal or headless)." short:"b" env:"BACKDROP_BACKEND"`
		Assets    string  `help:"Directory holding the scene's images." type:"path" env:"BACKDROP_ASSETS"`
		UserAgent string  `help:"User agent used to classify the device." name:"user-agent" env:"BACKDROP_USER_AGENT"`
		Width     int     `help:"Initial viewport width."`
		Height    int     `help:"Initial viewport height."`
		Ratio     float64 `help:"Device pixel ratio." name:"pixel-ratio"`
		Ticks     int     `help:"Number of headless ticks (0 runs until interrupted)."`
		Snapshot  string  `help:"Write the last headless frame to this PNG file." type:"path"`
	} `cmd:"" default:"withargs" help:"Show the scene."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	ctx := kong.Parse(&CLI,
		kong.Name("backdrop"),
		kong.Description("a scroll-reactive 3D backdrop"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf("backdrop %s\n", version)
		os.Exit(0)
	}

	switch ctx.Command() {
	case "config":
		os.Stdout.Write(config.DEFAULT)
	default:
		cfg, err := config.Load(CLI.Run.Configs...)
		if err != nil {
			writeError(err)
		}
		if err := override(cfg); err != nil {
			writeError(err)
		}
		if err := run(cfg); err != nil {
			log.Fatal().Err(err).Msg("backdrop failed")
		}
	}
}

// override applies command line flags to cfg.
func override(cfg *config.Config) error {
	r := &CLI.Run
	if r.Backend != "" {
		cfg.Window.Backend = r.Backend
	}
	if r.Assets != "" {
		cfg.Assets.Dir = r.Assets
	}
	if r.UserAgent != "" {
		cfg.Viewport.UserAgent = r.UserAgent
	}
	if r.Width > 0 {
		cfg.Viewport.Width = r.Width
	}
	if r.Height > 0 {
		cfg.Viewport.Height = r.Height
	}
	if r.Ratio > 0 {
		cfg.Viewport.PixelRatio = r.Ratio
	}
	if r.Ticks > 0 {
		cfg.Headless.Ticks = r.Ticks
	}
	if r.Snapshot != "" {
		cfg.Headless.Snapshot = r.Snapshot
	}
	return cfg.Validate()
}

func run(cfg *config.Config) error {
	platform, err := wsi.ParsePlatform(cfg.Window.Backend)
	if err != nil {
		return err
	}
	bg, err := cfg.Scene.Background()
	if err != nil {
		return err
	}
	opts := backdrop.Options{
		Viewport: device.Viewport{
			Width:      cfg.Viewport.Width,
			Height:     cfg.Viewport.Height,
			PixelRatio: cfg.Viewport.PixelRatio,
			UserAgent:  cfg.Viewport.UserAgent,
		},
		Names: backdrop.Names{
			Background: cfg.Assets.Background,
			Avatar:     cfg.Assets.Avatar,
			Moon:       cfg.Assets.Moon,
			MoonNormal: cfg.Assets.MoonNormal,
		},
		Stars:        cfg.Scene.Stars,
		StarSegments: cfg.Scene.StarSegments,
		Background:   bg,
		Seed:         uint64(time.Now().UnixNano()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// newApp creates the App for canvas and starts
	// loading the assets it waits for.
	newApp := func(canvas driver.Canvas) wsi.Handler {
		app := backdrop.NewApp(canvas, opts)
		p := &asset.Preloader{
			Store:       asset.FSStore(cfg.Assets.Dir),
			Names:       cfg.Assets.Names(),
			GraceDelay:  cfg.Assets.GraceDelay,
			Concurrency: cfg.Assets.Concurrency,
			OnLoad:      app.Loaded,
		}
		go func() {
			if err := p.Load(ctx); err != nil {
				log.Error().Err(err).Msg("Asset loading interrupted")
			}
		}()
		return app
	}

	log.Info().Str("backend", platform.String()).Msg("Starting")
	switch platform {
	case wsi.Window:
		return window.Run(window.Config{
			Title:      cfg.Window.Title,
			Width:      cfg.Viewport.Width,
			Height:     cfg.Viewport.Height,
			PageHeight: cfg.Scroll.PageHeight,
			Step:       cfg.Scroll.Step,
		}, newApp)
	case wsi.Terminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		term := wsi.NewTerminal(screen, wsi.TerminalConfig{
			PageHeight: cfg.Scroll.PageHeight,
			Step:       cfg.Scroll.Step,
		})
		return ignoreCanceled(term.Run(ctx, newApp(term)))
	default:
		hl := wsi.NewHeadless(wsi.HeadlessConfig{
			Width:         cfg.Viewport.Width,
			Height:        cfg.Viewport.Height,
			Hz:            cfg.Headless.Hz,
			Ticks:         cfg.Headless.Ticks,
			ScrollPerTick: cfg.Headless.ScrollPerTick,
			PageHeight:    cfg.Scroll.PageHeight,
			Snapshot:      cfg.Headless.Snapshot,
		})
		return ignoreCanceled(hl.Run(ctx, newApp(hl)))
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
