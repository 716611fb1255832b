package text

import (
	"math"
	"strings"

	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

const (
	// lineSpacingRatio is the gap between lines relative to line height.
	lineSpacingRatio = 0.2

	// charWidthEstimate approximates one character's advance in ems.
	charWidthEstimate = 0.6
)

// Block is text wrapped and sized to fit a width.
type Block struct {
	Lines       []string `json:"lines"`
	Size        int      `json:"size"`
	LineHeight  int      `json:"line_height"`
	LineSpacing int      `json:"line_spacing"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`

	// Truncated is set when no word boundary produced a line and the text
	// was cut to an estimated character budget instead.
	Truncated bool `json:"truncated,omitempty"`

	// Fits is false when the minimum size was reached with lines still
	// wider than the limit.
	Fits bool `json:"fits"`
}

// LineOffset returns the y offset of line i from the top of the block.
func (b Block) LineOffset(i int) int { return i * (b.LineHeight + b.LineSpacing) }

// WrapAndFit wraps s to maxWidth starting at startSize, shrinking one pixel at
// a time until every line fits. At minSize the last wrap is accepted as is.
func WrapAndFit(p *Probe, f *fonts.Font, s string, maxWidth, startSize, minSize int) Block {
	size := max(startSize, 1)
	var (
		lines     []string
		truncated bool
		fits      bool
	)
	for {
		lines, truncated = wrap(p, f, s, maxWidth, size)
		fits = allFit(p, f, lines, maxWidth, size)
		if fits || size <= minSize {
			break
		}
		size--
	}

	b := Block{
		Lines:     lines,
		Size:      size,
		Truncated: truncated,
		Fits:      fits,
	}
	b.LineHeight = p.LineHeight(f, size)
	b.LineSpacing = int(math.Round(float64(b.LineHeight) * lineSpacingRatio))
	if n := len(lines); n > 0 {
		b.Height = n*b.LineHeight + (n-1)*b.LineSpacing
	}
	for _, l := range lines {
		b.Width = max(b.Width, p.InkWidth(f, size, l))
	}
	return b
}

// wrap greedily packs words into lines no wider than maxWidth. A single
// word wider than maxWidth gets a line of its own.
func wrap(p *Probe, f *fonts.Font, s string, maxWidth, size int) ([]string, bool) {
	var (
		lines []string
		cur   string
	)
	for _, word := range strings.Fields(s) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if p.Width(f, size, candidate) <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) == 0 && s != "" {
		return []string{truncate(s, maxWidth, size)}, true
	}
	return lines, false
}

// truncate cuts s to the number of characters estimated to fit maxWidth.
func truncate(s string, maxWidth, size int) string {
	n := int(float64(maxWidth) / (float64(size) * charWidthEstimate))
	r := []rune(s)
	n = min(max(n, 0), len(r))
	return string(r[:n])
}

func allFit(p *Probe, f *fonts.Font, lines []string, maxWidth, size int) bool {
	for _, l := range lines {
		if p.InkWidth(f, size, l) > maxWidth {
			return false
		}
	}
	return true
}
