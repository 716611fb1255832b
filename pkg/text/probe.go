package text

import (
	"golang.org/x/image/font"

	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

// Size search defaults.
const (
	MinSize    = 10
	MaxSize    = 128
	SampleText = "Aj"
)

// BBox is an ink bounding box in pixels, relative to the top-left of the
// text's layout box: the pen starts at x=0 and the ascent line is y=0.
type BBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the horizontal ink extent.
func (b BBox) Width() int { return b.Right - b.Left }

// Height returns the vertical ink extent.
func (b BBox) Height() int { return b.Bottom - b.Top }

// Empty reports whether the box has no ink.
func (b BBox) Empty() bool { return b.Right <= b.Left || b.Bottom <= b.Top }

type faceKey struct {
	font *fonts.Font
	size int
}

type measureKey struct {
	font *fonts.Font
	size int
	text string
}

// ProbeStats counts memo hits for diagnostics.
type ProbeStats struct {
	Measurements int
	Hits         int
	Faces        int
}

// Probe measures text. The zero value is not usable; call [NewProbe].
type Probe struct {
	faces map[faceKey]font.Face
	memo  map[measureKey]BBox
	stats ProbeStats
}

// NewProbe creates an empty probe.
func NewProbe() *Probe {
	return &Probe{
		faces: make(map[faceKey]font.Face),
		memo:  make(map[measureKey]BBox),
	}
}

// Face returns the probe's face for f at size, creating it on first use.
func (p *Probe) Face(f *fonts.Font, size int) (font.Face, error) {
	k := faceKey{f, size}
	if face, ok := p.faces[k]; ok {
		return face, nil
	}
	face, err := f.Face(size)
	if err != nil {
		return nil, err
	}
	p.faces[k] = face
	p.stats.Faces++
	return face, nil
}

// Measure returns the ink box of s drawn with f at size. ok is false when the
// face cannot be created or s has no visible ink.
func (p *Probe) Measure(f *fonts.Font, size int, s string) (b BBox, ok bool) {
	k := measureKey{f, size, s}
	if b, ok := p.memo[k]; ok {
		p.stats.Hits++
		return b, !b.Empty()
	}
	p.stats.Measurements++

	face, err := p.Face(f, size)
	if err == nil {
		bounds, _ := font.BoundString(face, s)
		ascent := face.Metrics().Ascent
		b = BBox{
			Left:   bounds.Min.X.Floor(),
			Top:    (ascent + bounds.Min.Y).Floor(),
			Right:  bounds.Max.X.Ceil(),
			Bottom: (ascent + bounds.Max.Y).Ceil(),
		}
	}
	p.memo[k] = b
	return b, !b.Empty()
}

// Width returns the ink width of s, estimating 0.6 em per character when
// nothing can be measured.
func (p *Probe) Width(f *fonts.Font, size int, s string) int {
	if b, ok := p.Measure(f, size, s); ok {
		return b.Width()
	}
	if s == "" {
		return 0
	}
	return int(float64(len([]rune(s))) * float64(size) * 0.6)
}

// InkWidth returns the measured ink width of s, or 0 when s has no ink.
func (p *Probe) InkWidth(f *fonts.Font, size int, s string) int {
	if b, ok := p.Measure(f, size, s); ok {
		return b.Width()
	}
	return 0
}

// LineHeight returns the ink height of [SampleText] at size, or size itself
// when the sample cannot be measured.
func (p *Probe) LineHeight(f *fonts.Font, size int) int {
	if b, ok := p.Measure(f, size, SampleText); ok {
		return b.Height()
	}
	return size
}

// SizeForHeight binary-searches [MinSize, MaxSize] for the size whose sample
// height is closest to target. The closest candidate seen anywhere in the
// search wins, not just the final bracket.
func (p *Probe) SizeForHeight(f *fonts.Font, target int) int {
	return p.SizeForHeightIn(f, target, MinSize, MaxSize)
}

// SizeForHeightIn is [Probe.SizeForHeight] with explicit bounds.
func (p *Probe) SizeForHeightIn(f *fonts.Font, target, minSize, maxSize int) int {
	target = max(1, target)
	minSize = max(1, minSize)
	best, bestDiff := minSize, -1

	lo, hi := minSize, maxSize
	for lo <= hi {
		mid := (lo + hi) / 2
		h := p.LineHeight(f, mid)
		diff := abs(h - target)
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = mid, diff
		}
		switch {
		case h < target:
			lo = mid + 1
		case h > target:
			hi = mid - 1
		default:
			return mid
		}
	}
	return best
}

// Stats returns the probe's counters.
func (p *Probe) Stats() ProbeStats { return p.stats }

// Close releases every face the probe created.
func (p *Probe) Close() error {
	for k, face := range p.faces {
		if !k.font.Fixed() {
			face.Close()
		}
	}
	clear(p.faces)
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
