// Package fonts resolves font family names to parsed font handles.
//
// A [Registry] maps family names (as sent by clients, e.g. "arial.ttf" or
// "Roboto-Regular.ttf") to files in a font directory. Each family is parsed
// once, on first use, and kept for the life of the process. Resolution never
// fails: unknown or unreadable families fall back to the registry's default
// font, which is the configured default family when present, else the
// embedded Go Regular face, else a fixed-metrics bitmap face.
package fonts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/singleflight"

	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
)

// ErrUnknownFamily is returned by [Registry.Load] for names with no mapping.
var ErrUnknownFamily = errors.New("unknown font family")

// Names of the built-in fallbacks.
const (
	EmbeddedName = "goregular"
	FixedName    = "fixed"
)

// Families maps normalized family names to file names.
var Families = map[string]string{
	"arial":      "arial.ttf",
	"helvetica":  "helvetica.ttf",
	"verdana":    "verdana.ttf",
	"georgia":    "georgia.ttf",
	"times":      "times.ttf",
	"cour":       "cour.ttf",
	"courier":    "cour.ttf",
	"inter":      "Inter-Regular.ttf",
	"roboto":     "Roboto-Regular.ttf",
	"opensans":   "OpenSans-Regular.ttf",
	"lato":       "Lato-Regular.ttf",
	"montserrat": "Montserrat-Regular.ttf",
	"poppins":    "Poppins-Regular.ttf",
	"nunito":     "Nunito-Regular.ttf",
}

// Normalize maps "Roboto-Regular.ttf", "roboto.ttf" and "Roboto" to "roboto".
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, ".ttf")
	n = strings.TrimSuffix(n, ".otf")
	n = strings.TrimSuffix(n, "-regular")
	return n
}

// Font is a parsed font usable at any size. A Font without outlines is the
// fixed-metrics fallback and ignores the requested size.
type Font struct {
	Name   string
	parsed *opentype.Font
}

// Fixed reports whether f is the size-less bitmap fallback.
func (f *Font) Fixed() bool { return f.parsed == nil }

// Face instantiates f at size pixels (72 DPI). Faces are not safe for
// concurrent use; callers own the returned face.
func (f *Font) Face(size int) (font.Face, error) {
	if f.parsed == nil {
		return basicfont.Face7x13, nil
	}
	return opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Family describes one registry entry.
type Family struct {
	Name      string
	File      string
	Available bool
}

// Registry loads fonts lazily from a directory.
//
// Entries are loaded once and never released. A Registry is safe for
// concurrent use.
type Registry struct {
	dir         string
	families    map[string]string
	defaultName string
	logger      *log.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	loaded map[string]*Font

	defaultOnce sync.Once
	def         *Font
}

// Option configures a Registry.
type Option func(*Registry)

// WithFamilies adds or overrides family mappings.
func WithFamilies(m map[string]string) Option {
	return func(r *Registry) {
		for k, v := range m {
			r.families[Normalize(k)] = v
		}
	}
}

// WithDefault sets the family used when resolution fails.
func WithDefault(name string) Option {
	return func(r *Registry) { r.defaultName = name }
}

// WithLogger sets the logger for fallback warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates a registry reading font files from dir.
func NewRegistry(dir string, opts ...Option) *Registry {
	r := &Registry{
		dir:         dir,
		families:    make(map[string]string, len(Families)),
		defaultName: "arial.ttf",
		loaded:      make(map[string]*Font),
	}
	for k, v := range Families {
		r.families[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Resolve returns the font for name, falling back to [Registry.Default].
func (r *Registry) Resolve(name string) *Font {
	f, err := r.Load(name)
	if err != nil {
		def := r.Default()
		r.logger.Warn("font fallback", "requested", name, "using", def.Name, "err", err)
		return def
	}
	return f
}

// Load returns the font for name or an error explaining why it cannot be used.
func (r *Registry) Load(name string) (*Font, error) {
	switch Normalize(name) {
	case EmbeddedName:
		return embedded()
	case FixedName:
		return fixed, nil
	}
	if err := lerrors.ValidateFontName(name); err != nil {
		return nil, err
	}
	file, ok := r.families[Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}

	r.mu.RLock()
	f, ok := r.loaded[file]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	v, err, _ := r.group.Do(file, func() (any, error) {
		f, err := parseFile(filepath.Join(r.dir, file))
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.loaded[file] = f
		r.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Font), nil
}

// Default returns the fallback font. It is computed once.
func (r *Registry) Default() *Font {
	r.defaultOnce.Do(func() {
		if f, err := r.Load(r.defaultName); err == nil {
			r.def = f
			return
		}
		if f, err := embedded(); err == nil {
			r.def = f
			return
		}
		r.def = fixed
	})
	return r.def
}

// Families lists the registry's mappings sorted by name, reporting whether
// each file is present in the font directory.
func (r *Registry) Families() []Family {
	out := make([]Family, 0, len(r.families))
	for name, file := range r.families {
		_, err := os.Stat(filepath.Join(r.dir, file))
		out = append(out, Family{Name: name, File: file, Available: err == nil})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dir returns the font directory.
func (r *Registry) Dir() string { return r.dir }

func parseFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeFontUnavailable, err, "read font %s", filepath.Base(path))
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeFontUnavailable, err, "parse font %s", filepath.Base(path))
	}
	return &Font{Name: filepath.Base(path), parsed: parsed}, nil
}

var (
	fixed = &Font{Name: FixedName}

	embeddedOnce sync.Once
	embeddedFont *Font
	embeddedErr  error
)

// embedded returns the Go Regular face bundled with x/image.
func embedded() (*Font, error) {
	embeddedOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			embeddedErr = err
			return
		}
		embeddedFont = &Font{Name: EmbeddedName, parsed: parsed}
	})
	return embeddedFont, embeddedErr
}

// Embedded returns the bundled Go Regular font. It panics if the bundled
// data cannot be parsed, which only happens with a corrupt build.
func Embedded() *Font {
	f, err := embedded()
	if err != nil {
		panic(err)
	}
	return f
}

// FixedFont returns the fixed-metrics bitmap font.
func FixedFont() *Font { return fixed }
