package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/cache"
	"github.com/cyzmcl/Lunarian/pkg/compose"
	"github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/hero"
	"github.com/cyzmcl/Lunarian/pkg/history"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/layout"
	"github.com/cyzmcl/Lunarian/pkg/observability"
	"github.com/cyzmcl/Lunarian/pkg/render"
)

// Runner executes requests with caching. Both CLI and server use it.
//
// The Runner holds only shared, concurrency-safe collaborators and no
// per-request state, so one Runner serves any number of concurrent
// requests.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fonts   layout.FontResolver
	Locator hero.Locator
	History history.Store
	Logger  *log.Logger

	// Workers bounds concurrent formats per request.
	Workers int

	// Prominence is the hero target fraction passed to the compositor.
	Prominence float64

	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Fonts default to the embedded face and the locator to [hero.Seeded].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Locator:     hero.Seeded{},
		History:     history.NewNullStore(),
		Logger:      logger,
		Workers:     DefaultWorkers,
		Prominence:  compose.DefaultProminence,
		ArtifactTTL: DefaultArtifactTTL,
	}
}

// inputs is the decoded, validated, per-request state shared read-only by
// every format worker.
type inputs struct {
	req        ad.Request
	src        *image.NRGBA
	logo       *image.NRGBA
	sourceHash string
	logoHash   string
	hero       *hero.BBox
}

// Execute runs the complete pipeline. It returns an error only for
// request-level failures; per-format failures are reported in the result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.RequestID == "" {
		opts.RequestID = uuid.NewString()
	}
	logger := r.logger().With("request", opts.RequestID)

	in, err := r.prepare(opts.Request)
	if err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.RequestID, len(in.req.Formats))

	logger.Debug("decoded inputs",
		"source", fmt.Sprintf("%dx%d", in.src.Bounds().Dx(), in.src.Bounds().Dy()),
		"logo", in.logo != nil,
		"formats", len(in.req.Formats))

	// Stage 1: hero, once per request
	heroStart := time.Now()
	in.hero = r.LocateHero(ctx, in.src, in.req.HeroSeed)
	hooks.OnHeroLocated(ctx, opts.RequestID, in.hero != nil, time.Since(heroStart))
	if in.hero != nil {
		logger.Info("located hero", "bbox", in.hero.String(), "duration", time.Since(heroStart))
	} else {
		logger.Info("no hero, using cover crop", "duration", time.Since(heroStart))
	}

	// Stage 2: per-format fan-out
	result := &Result{
		RequestID: opts.RequestID,
		Hero:      in.hero,
		Formats:   make([]FormatResult, len(in.req.Formats)),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Workers))
	for i, f := range in.req.Formats {
		g.Go(func() error {
			result.Formats[i] = r.renderFormat(gctx, in, f, opts, logger)
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(start)
	ok, failed := result.Counts()
	hooks.OnGenerateComplete(ctx, opts.RequestID, ok, failed, result.Duration)
	logger.Info("generated creatives", "ok", ok, "failed", failed, "duration", result.Duration)

	r.record(ctx, result, logger)
	return result, nil
}

// prepare validates the request and decodes its images.
func (r *Runner) prepare(req ad.Request) (*inputs, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	src, err := lio.DecodeImage(req.SourceImage)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode source image")
	}
	in := &inputs{req: req, src: src, sourceHash: hero.ImageHash(src)}

	if req.IncludeLogo && req.BrandLogo != "" {
		logo, err := lio.DecodeImage(req.BrandLogo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode brand logo")
		}
		in.logo = logo
		in.logoHash = hero.ImageHash(logo)
	}
	return in, nil
}

// LocateHero resolves the hero box for src. A usable seed clamped to the
// image is passed to the locator; failures degrade to nil.
func (r *Runner) LocateHero(ctx context.Context, src image.Image, seed *ad.SeedBox) *hero.BBox {
	return hero.Find(ctx, r.Locator, src, hero.FromSeed(seed, src.Bounds()), r.logger())
}

// renderFormat produces one format. It never panics.
func (r *Runner) renderFormat(ctx context.Context, in *inputs, f ad.Format, opts Options, logger *log.Logger) (fr FormatResult) {
	start := time.Now()
	fr.Format = f
	defer func() {
		if p := recover(); p != nil {
			fr.PNG = nil
			fr.Err = errors.New(errors.ErrCodeRender, "format %s: internal error: %v", f.ID, p)
			logger.Error("format panicked", "format", f.ID, "panic", p)
		}
		fr.Duration = time.Since(start)
		observability.Pipeline().OnFormatComplete(ctx, opts.RequestID, f.ID, fr.Cached, fr.Duration, fr.Err)
		if fr.Err != nil {
			logger.Warn("format failed", "format", f.ID, "err", fr.Err)
		} else {
			logger.Debug("format done", "format", f.ID, "cached", fr.Cached, "duration", fr.Duration)
		}
	}()

	if err := ctx.Err(); err != nil {
		fr.Err = errors.Wrap(errors.ErrCodeTimeout, err, "format %s cancelled", f.ID)
		return fr
	}

	planner := layout.NewPlanner(r.Fonts, nil)
	defer planner.Probe().Close()

	els := in.req.Elements(f, logoImage(in.logo))
	plan := planner.Plan(f, els)
	fr.Plan = plan

	key := r.Keyer.ArtifactKey(in.sourceHash, r.artifactKeyOpts(in, f, els))
	ch := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			ch.OnCacheHit(ctx, "artifact")
			fr.PNG = data
			fr.Cached = true
			return fr
		}
	}
	ch.OnCacheMiss(ctx, "artifact")

	canvas, pl := compose.Compose(in.src, f.Width, f.Height, in.hero, plan.HeroArea, r.prominence())
	fr.Placement = pl

	data, err := render.PNG(canvas, plan, render.WithFonts(r.Fonts), render.WithLogger(logger))
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.PNG = data

	if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
		logger.Warn("cache store failed", "format", f.ID, "err", err)
	} else {
		ch.OnCacheSet(ctx, "artifact", len(data))
	}
	return fr
}

// logoImage avoids handing a typed nil to the element resolver.
func logoImage(img *image.NRGBA) image.Image {
	if img == nil {
		return nil
	}
	return img
}

// overlaySig is the cache identity of one resolved element.
type overlaySig struct {
	Kind       ad.Kind     `json:"kind"`
	Position   ad.Position `json:"position"`
	Text       string      `json:"text,omitempty"`
	Font       string      `json:"font,omitempty"`
	Color      color.NRGBA `json:"color"`
	Background color.NRGBA `json:"background"`
	Logo       string      `json:"logo,omitempty"`
}

func (r *Runner) artifactKeyOpts(in *inputs, f ad.Format, els []ad.Element) cache.ArtifactKeyOpts {
	sigs := make([]overlaySig, len(els))
	for i, e := range els {
		sigs[i] = overlaySig{
			Kind: e.Kind, Position: e.Position,
			Text: e.Text, Font: e.Font,
			Color: e.Color, Background: e.Background,
		}
		if e.Kind == ad.KindLogo {
			sigs[i].Logo = in.logoHash
		}
	}
	data, _ := json.Marshal(sigs)

	opts := cache.ArtifactKeyOpts{
		FormatID:   f.ID,
		Width:      f.Width,
		Height:     f.Height,
		Prominence: r.prominence(),
		Overlays:   cache.Hash(data),
	}
	if b := in.hero; b != nil {
		opts.Hero = &[4]int{b.X1, b.Y1, b.X2, b.Y2}
	}
	return opts
}

// record writes a history entry. Store failures are logged only.
func (r *Runner) record(ctx context.Context, res *Result, logger *log.Logger) {
	if r.History == nil {
		return
	}
	rec := history.NewRecord(res.RequestID)
	rec.Duration = res.Duration
	rec.Hero = res.Hero
	for _, f := range res.Formats {
		e := history.FormatEntry{
			ID:       f.Format.ID,
			Width:    f.Format.Width,
			Height:   f.Format.Height,
			Duration: f.Duration,
			Cached:   f.Cached,
		}
		if f.Err != nil {
			e.Error = errors.UserMessage(f.Err)
		}
		rec.Formats = append(rec.Formats, e)
	}
	if err := r.History.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("save history failed", "err", err)
	}
}

func (r *Runner) prominence() float64 {
	if r.Prominence <= 0 || r.Prominence > 1 {
		return compose.DefaultProminence
	}
	return r.Prominence
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// Close releases the cache and history store.
func (r *Runner) Close(ctx context.Context) error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.History != nil {
		if err := r.History.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
