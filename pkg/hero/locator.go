// Package hero finds the primary subject of a source image.
//
// # Overview
//
// Subject detection is an external capability behind the [Locator]
// interface. Implementations in this package:
//
//   - [Seeded]: trusts a caller-supplied seed box
//   - [Remote]: asks an HTTP detection service
//   - [Cached]: memoizes another locator in a cache.Cache
//   - [Chain]: tries locators in order
//   - [Lazy]: builds a locator on first use and keeps it forever
//
// Detection failure is never fatal. [Find] wraps any locator and returns nil
// on error so callers fall back to plain cover cropping.
//
// [Visualize] renders a box onto a copy of the image for debugging.
package hero

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
)

// ErrNoHero is returned when a locator ran but found no subject.
var ErrNoHero = errors.New("no hero found")

// Locator finds the hero box in img. seed is an optional hint in image
// coordinates. A nil box with a nil error is not allowed; return ErrNoHero.
type Locator interface {
	Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error)
}

// LocatorFunc adapts a function to [Locator].
type LocatorFunc func(ctx context.Context, img image.Image, seed *BBox) (*BBox, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error) {
	return f(ctx, img, seed)
}

// Seeded returns the seed box itself.
type Seeded struct{}

// Locate returns seed when it is usable.
func (Seeded) Locate(_ context.Context, _ image.Image, seed *BBox) (*BBox, error) {
	if !seed.Usable() {
		return nil, ErrNoHero
	}
	b := *seed
	return &b, nil
}

// Chain tries each locator in order and returns the first usable box.
type Chain struct {
	Locators []Locator
	Logger   *log.Logger
}

// NewChain creates a chain. Nil locators are skipped.
func NewChain(logger *log.Logger, locators ...Locator) *Chain {
	c := &Chain{Logger: logger}
	for _, l := range locators {
		if l != nil {
			c.Locators = append(c.Locators, l)
		}
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Locate implements [Locator].
func (c *Chain) Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error) {
	for _, l := range c.Locators {
		b, err := l.Locate(ctx, img, seed)
		if err == nil && b.Usable() {
			return b, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil && !errors.Is(err, ErrNoHero) {
			c.Logger.Warn("hero locator failed", "locator", locatorName(l), "err", err)
		}
	}
	return nil, ErrNoHero
}

// Lazy builds its locator on first use. The built locator, or the build
// error, is kept for the life of the process.
type Lazy struct {
	build func() (Locator, error)

	once sync.Once
	l    Locator
	err  error
}

// NewLazy wraps build.
func NewLazy(build func() (Locator, error)) *Lazy {
	return &Lazy{build: build}
}

// Locate implements [Locator].
func (z *Lazy) Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error) {
	z.once.Do(func() { z.l, z.err = z.build() })
	if z.err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeHeroUnavailable, z.err, "initialize hero locator")
	}
	return z.l.Locate(ctx, img, seed)
}

// Find runs l and swallows failures, logging them. It returns nil when no
// usable box was found.
func Find(ctx context.Context, l Locator, img image.Image, seed *BBox, logger *log.Logger) *BBox {
	if l == nil {
		l = Seeded{}
	}
	b, err := l.Locate(ctx, img, seed)
	if err != nil {
		if logger != nil && !errors.Is(err, ErrNoHero) {
			logger.Warn("hero detection failed, using cover crop", "err", err)
		}
		return nil
	}
	if !b.Usable() {
		return nil
	}
	return b
}

func locatorName(l Locator) string {
	switch l.(type) {
	case Seeded, *Seeded:
		return "seed"
	case *Remote:
		return "remote"
	case *Cached:
		return "cached"
	case *Chain:
		return "chain"
	case *Lazy:
		return "lazy"
	default:
		return "custom"
	}
}
