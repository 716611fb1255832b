package render

import (
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/layout"
)

// Option configures [Draw].
type Option func(*renderer)

type renderer struct {
	fonts  layout.FontResolver
	filter imaging.ResampleFilter
	logger *log.Logger
}

// WithFonts resolves text operations that carry only a font name.
func WithFonts(r layout.FontResolver) Option { return func(rr *renderer) { rr.fonts = r } }

// WithFilter sets the logo resampling filter (default Lanczos).
func WithFilter(f imaging.ResampleFilter) Option { return func(r *renderer) { r.filter = f } }

// WithLogger reports operations that could not be drawn.
func WithLogger(l *log.Logger) Option { return func(r *renderer) { r.logger = l } }

type faceKey struct {
	font *fonts.Font
	size int
}

// Draw applies ops to a copy of canvas in order and returns the result.
func Draw(canvas image.Image, ops []layout.Op, opts ...Option) (*image.NRGBA, error) {
	r := renderer{filter: imaging.Lanczos}
	for _, opt := range opts {
		opt(&r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}

	dc := gg.NewContextForImage(canvas)
	faces := make(map[faceKey]font.Face)
	defer func() {
		for k, f := range faces {
			if !k.font.Fixed() {
				f.Close()
			}
		}
	}()

	for i, op := range ops {
		if op.W <= 0 || op.H <= 0 {
			continue
		}
		switch op.Kind {
		case layout.OpImage:
			if op.Image == nil {
				r.logger.Warn("image op without image", "index", i, "element", op.Element)
				continue
			}
			dc.DrawImage(imaging.Resize(op.Image, op.W, op.H, r.filter), op.X, op.Y)
		case layout.OpRect:
			dc.SetColor(color.NRGBA(op.Color))
			dc.DrawRectangle(float64(op.X), float64(op.Y), float64(op.W), float64(op.H))
			dc.Fill()
		case layout.OpText:
			face, err := r.face(faces, op)
			if err != nil {
				return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "text op %d: %s at %d", i, op.Font, op.Size)
			}
			dc.SetFontFace(face)
			dc.SetColor(color.NRGBA(op.Color))
			dc.DrawString(op.Text, float64(op.X), float64(op.Y)+toFloat(face.Metrics().Ascent))
		default:
			return nil, lerrors.New(lerrors.ErrCodeRender, "op %d: unknown kind %q", i, op.Kind)
		}
	}
	return imaging.Clone(dc.Image()), nil
}

func (r *renderer) face(cache map[faceKey]font.Face, op layout.Op) (font.Face, error) {
	f := op.FontFace
	if f == nil {
		if r.fonts != nil {
			f = r.fonts.Resolve(op.Font)
		} else {
			f = fonts.Embedded()
		}
	}
	k := faceKey{f, op.Size}
	if face, ok := cache[k]; ok {
		return face, nil
	}
	face, err := f.Face(op.Size)
	if err != nil {
		return nil, err
	}
	cache[k] = face
	return face, nil
}

// Plan draws plan's operations onto canvas.
func Plan(canvas image.Image, plan *layout.Plan, opts ...Option) (*image.NRGBA, error) {
	return Draw(canvas, plan.Ops, opts...)
}

// PNG draws plan onto canvas and encodes the result.
func PNG(canvas image.Image, plan *layout.Plan, opts ...Option) ([]byte, error) {
	img, err := Plan(canvas, plan, opts...)
	if err != nil {
		return nil, err
	}
	data, err := lio.EncodePNG(img)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeRender, err, "encode %s", plan.Format.ID)
	}
	return data, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
