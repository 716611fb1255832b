package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/errors"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

// generateOpts holds the flags of the generate command. String flags
// override the request file only when non-empty.
type generateOpts struct {
	request string
	source  string
	logo    string
	copy    string
	cta     string
	formats []string
	hero    string

	logoPosition string
	copyPosition string
	ctaPosition  string

	copyColor string
	ctaColor  string
	ctaBg     string
	copyFont  string
	ctaFont   string

	out     string
	plan    bool
	noCache bool
	refresh bool
	workers int
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render creatives for every requested format",
		Long: `Render one PNG per format from a source image and optional logo, copy and
call to action.

The request can come from a JSON file (the same body POST /generate accepts),
from flags, or both; flags win over the file.`,
		Example: `  lunarian generate --source shoe.jpg --logo brand.png --copy "Run further" \
    --cta "Shop now" --format square:1080x1080 --format story:1080x1920 -o out/
  lunarian generate --request req.json --plan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.request, "request", "", "request JSON file")
	f.StringVar(&opts.source, "source", "", "source image file")
	f.StringVar(&opts.logo, "logo", "", "brand logo image file")
	f.StringVar(&opts.copy, "copy", "", "ad copy text")
	f.StringVar(&opts.cta, "cta", "", "call to action text")
	f.StringArrayVar(&opts.formats, "format", nil, "output format as id:WxH or WxH (repeatable)")
	f.StringVar(&opts.hero, "hero", "", "hero hint as x,y,w,h in source pixels")
	f.StringVar(&opts.logoPosition, "logo-position", "", "logo position for every orientation (e.g. top_center)")
	f.StringVar(&opts.copyPosition, "copy-position", "", "copy position for every orientation")
	f.StringVar(&opts.ctaPosition, "cta-position", "", "call to action position for every orientation")
	f.StringVar(&opts.copyColor, "copy-color", "", "copy text color (#rrggbb)")
	f.StringVar(&opts.ctaColor, "cta-color", "", "call to action text color")
	f.StringVar(&opts.ctaBg, "cta-bg", "", "call to action background color")
	f.StringVar(&opts.copyFont, "copy-font", "", "copy font family")
	f.StringVar(&opts.ctaFont, "cta-font", "", "call to action font family")
	f.StringVarP(&opts.out, "out", "o", ".", "output directory")
	f.BoolVar(&opts.plan, "plan", false, "also write each layout plan as <id>.plan.json")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	f.IntVar(&opts.workers, "workers", 0, "formats rendered concurrently (default from config)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Render.Workers = opts.workers
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer c.closeRunner(runner)

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d formats...", len(req.Formats)))
	spin.Start()
	res, err := runner.Execute(ctx, pipeline.Options{Request: req, Refresh: opts.refresh})
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := writeResults(res, opts.out, opts.plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, resultTable(res, paths))
	ok, failed := res.Counts()
	if res.Hero != nil {
		printDetail("Hero: %s", res.Hero)
	} else {
		printDetail("Hero: none (cover crop)")
	}
	prog.done(fmt.Sprintf("Generated %d creatives", ok))

	if ok == 0 {
		return fmt.Errorf("all %d formats failed", failed)
	}
	if failed > 0 {
		printWarning("%d of %d formats failed", failed, len(res.Formats))
	}
	return nil
}

// writeResults writes every successful PNG (and optionally its plan) into
// dir, returning the PNG paths keyed by format id.
func writeResults(res *pipeline.Result, dir string, withPlan bool) (map[string]string, error) {
	paths := make(map[string]string, len(res.Formats))
	for _, f := range res.Formats {
		if !f.OK() {
			continue
		}
		p := filepath.Join(dir, f.Format.ID+".png")
		if err := lio.ExportFile(f.PNG, p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
		paths[f.Format.ID] = p
		if withPlan && f.Plan != nil {
			pp := filepath.Join(dir, f.Format.ID+".plan.json")
			if err := lio.ExportJSON(f.Plan, pp); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", pp)
			}
		}
	}
	return paths, nil
}

// buildRequest merges the request file and flags into one request.
func buildRequest(opts generateOpts) (ad.Request, error) {
	req := ad.NewRequest()
	if opts.request != "" {
		r, err := lio.ImportRequest(opts.request)
		if err != nil {
			return req, err
		}
		req = r
	}

	if opts.source != "" {
		u, err := lio.FileDataURL(opts.source)
		if err != nil {
			return req, errors.Wrap(errors.ErrCodeInvalidImage, err, "read source")
		}
		req.SourceImage = u
	}
	if opts.logo != "" {
		u, err := lio.FileDataURL(opts.logo)
		if err != nil {
			return req, errors.Wrap(errors.ErrCodeInvalidImage, err, "read logo")
		}
		req.BrandLogo = u
		req.IncludeLogo = true
	}
	if opts.copy != "" {
		req.AdCopy = opts.copy
		req.IncludeCopy = true
	}
	if opts.cta != "" {
		req.CTAText = opts.cta
		req.IncludeCTA = true
	}

	if len(opts.formats) > 0 {
		req.Formats = req.Formats[:0]
		for _, s := range opts.formats {
			f, err := parseFormatFlag(s)
			if err != nil {
				return req, err
			}
			req.Formats = append(req.Formats, f)
		}
	}
	if opts.hero != "" {
		seed, err := parseHeroFlag(opts.hero)
		if err != nil {
			return req, err
		}
		req.HeroSeed = seed
	}

	if opts.logoPosition != "" {
		req.LogoPositionByOrientation = everyOrientation(opts.logoPosition)
	}
	if opts.copyPosition != "" {
		req.CopyPositionByOrientation = everyOrientation(opts.copyPosition)
	}
	if opts.ctaPosition != "" {
		req.CTAPositionByOrientation = everyOrientation(opts.ctaPosition)
	}

	setIf(&req.CopyBrandColor, opts.copyColor)
	setIf(&req.CTATextColor, opts.ctaColor)
	setIf(&req.CTABgColor, opts.ctaBg)
	setIf(&req.CopyFontFamily, opts.copyFont)
	setIf(&req.CTAFont, opts.ctaFont)

	return req, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func everyOrientation(pos string) map[string]string {
	m := make(map[string]string, len(ad.Orientations))
	for _, o := range ad.Orientations {
		m[string(o)] = pos
	}
	return m
}

// parseFormatFlag parses "id:WxH" or a bare "WxH", which doubles as its id.
func parseFormatFlag(s string) (ad.Format, error) {
	id, size, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		size = id
	}
	ws, hs, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok || id == "" {
		return ad.Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q: want id:WxH or WxH", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil {
		return ad.Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q: bad size", s)
	}
	f := ad.Format{ID: id, Width: w, Height: h}
	if err := f.Validate(); err != nil {
		return ad.Format{}, err
	}
	return f, nil
}

// parseHeroFlag parses "x,y,w,h".
func parseHeroFlag(s string) (*ad.SeedBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "hero %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "hero %q: %q is not an integer", s, p)
		}
		v[i] = n
	}
	return &ad.SeedBox{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
