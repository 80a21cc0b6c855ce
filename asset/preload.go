// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"
)

// DefaultGraceDelay is the delay between the last load
// attempt and completion when some asset failed.
const DefaultGraceDelay = 500 * time.Millisecond

// Table maps asset names to decoded images.
// Names whose load failed are absent.
type Table map[string]image.Image

// Get returns the image named name, or nil if it is
// not present.
func (t Table) Get(name string) image.Image { return t[name] }

// Preloader loads a fixed set of images.
//
// Every asset is attempted regardless of failures.
// Once all attempts have reported, OnLoad is called
// exactly once: immediately if every asset loaded, or
// after GraceDelay otherwise.
//
// Callbacks are serialized. They must not call back
// into the Preloader.
type Preloader struct {
	Store Store
	Names []string

	// Zero selects DefaultGraceDelay.
	GraceDelay time.Duration

	// Maximum number of concurrent loads.
	// Zero or less means no limit.
	Concurrency int

	// OnProgress is called after each attempt, with
	// the number of settled attempts so far.
	OnProgress func(name string, settled, total int)

	// OnError is called for each failed attempt.
	OnError func(name string, err error)

	// OnLoad receives the loaded assets.
	OnLoad func(Table)

	// AfterFunc schedules the delayed completion.
	// Nil selects time.AfterFunc.
	AfterFunc func(d time.Duration, f func())

	mu      deadlock.Mutex
	started bool
	settled int
	failed  int
	table   Table
	once    sync.Once
}

var errStarted = errors.New("asset: preloader already started")

// Load attempts every asset and returns when all of them
// have reported. Completion may happen later, after the
// grace delay.
// It returns ctx.Err() if ctx was canceled; assets that
// could not be fetched because of that count as failed.
func (p *Preloader) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return errStarted
	}
	p.started = true
	p.table = make(Table, len(p.Names))
	p.mu.Unlock()

	log.Info().Int("assets", len(p.Names)).Msg("Starting asset loading...")
	if len(p.Names) == 0 {
		p.complete()
		return nil
	}

	var g errgroup.Group
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for _, name := range p.Names {
		name := name
		g.Go(func() error {
			p.load(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (p *Preloader) load(ctx context.Context, name string) {
	var img image.Image
	data, err := p.Store.Get(ctx, name)
	if err == nil {
		img, err = Decode(name, data)
	}
	done, failed := p.report(name, img, err)
	if !done {
		return
	}
	if failed == 0 {
		log.Info().Msg("All assets loaded successfully")
		p.complete()
		return
	}
	log.Warn().Int("failed", failed).Dur("delay", p.graceDelay()).Msg("Continuing with available assets")
	after := p.AfterFunc
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	after(p.graceDelay(), p.complete)
}

// report records the outcome of an attempt and notifies
// the callbacks. done is true for the last attempt.
func (p *Preloader) report(name string, img image.Image, err error) (done bool, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settled++
	total := len(p.Names)
	if err != nil {
		p.failed++
		log.Error().Err(err).Str("asset", name).Msg("Error loading asset")
		if p.OnError != nil {
			p.OnError(name, err)
		}
	} else {
		p.table[name] = img
		log.Info().Msgf("Loaded %d/%d: %s", p.settled, total, name)
	}
	if p.OnProgress != nil {
		p.OnProgress(name, p.settled, total)
	}
	return p.settled == total, p.failed
}

func (p *Preloader) graceDelay() time.Duration {
	if p.GraceDelay > 0 {
		return p.GraceDelay
	}
	return DefaultGraceDelay
}

func (p *Preloader) complete() {
	p.once.Do(func() {
		t := p.Table()
		if p.OnLoad != nil {
			p.OnLoad(t)
		}
	})
}

// Table returns a copy of the assets loaded so far.
func (p *Preloader) Table() Table {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := make(Table, len(p.table))
	for k, v := range p.table {
		t[k] = v
	}
	return t
}

// Settled returns the number of attempts that have
// reported and how many of them failed.
func (p *Preloader) Settled() (settled, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled, p.failed
}
