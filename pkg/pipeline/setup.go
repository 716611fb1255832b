package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cyzmcl/Lunarian/pkg/cache"
	"github.com/cyzmcl/Lunarian/pkg/config"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	"github.com/cyzmcl/Lunarian/pkg/hero"
	"github.com/cyzmcl/Lunarian/pkg/history"
)

// Setup builds a Runner from cfg: cache backend, font registry, hero
// locator chain and history store. Callers must Close the runner.
func Setup(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runner, error) {
	c, err := cache.Open(cfg.Cache.Options())
	if err != nil {
		return nil, err
	}

	r := NewRunner(c, nil, logger)
	r.Workers = cfg.Render.Workers
	r.Prominence = cfg.Render.Prominence
	if ttl := cfg.Cache.ArtifactTTL.Duration; ttl > 0 {
		r.ArtifactTTL = ttl
	}
	r.Fonts = NewFonts(cfg.Fonts, r.Logger)
	r.Locator = NewLocator(cfg.Hero, c, r.Keyer, cfg.Cache.HeroTTL.Duration, r.Logger)

	if cfg.History.Enabled() {
		store, err := history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.History.MongoURI,
			Database:   cfg.History.Database,
			Collection: cfg.History.Collection,
		})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		r.History = store
	}

	r.Logger.Debug("runner ready",
		"cache", cfg.Cache.Backend,
		"workers", r.Workers,
		"hero", cfg.Hero.RemoteURL != "",
		"history", cfg.History.Enabled())
	return r, nil
}

// NewFonts builds the font registry described by cfg.
func NewFonts(cfg config.Fonts, logger *log.Logger) *fonts.Registry {
	opts := []fonts.Option{fonts.WithLogger(logger)}
	if len(cfg.Families) > 0 {
		opts = append(opts, fonts.WithFamilies(cfg.Families))
	}
	if cfg.Default != "" {
		opts = append(opts, fonts.WithDefault(cfg.Default))
	}
	return fonts.NewRegistry(cfg.Dir, opts...)
}

// NewLocator builds the hero locator chain. With a detection service
// configured, the service is asked first (with the seed as a hint) and the
// seed box itself is the fallback. Without one, only the seed is used.
func NewLocator(cfg config.Hero, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) hero.Locator {
	if cfg.RemoteURL == "" {
		return hero.Seeded{}
	}
	remote := hero.NewLazy(func() (hero.Locator, error) {
		return hero.NewRemote(hero.RemoteConfig{
			URL:           cfg.RemoteURL,
			Timeout:       cfg.Timeout.Duration,
			RatePerSecond: cfg.RatePerSecond,
			Burst:         cfg.Burst,
			Attempts:      cfg.Attempts,
		})
	})
	cached := hero.NewCached(remote, c, keyer, cfg.RemoteURL, logger)
	if ttl > 0 {
		cached.TTL = ttl
	}
	return hero.NewChain(logger, cached, hero.Seeded{})
}
