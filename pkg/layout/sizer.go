package layout

import (
	"math"
	"strings"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	"github.com/cyzmcl/Lunarian/pkg/text"
)

// Sizing constants.
const (
	// referenceFraction sizes the fallback reference box as a share of the
	// safe area.
	referenceFraction = 0.02

	// copyTargetRatio is the copy line height relative to the reference.
	copyTargetRatio = 1.25

	copySideWidth   = 0.40
	copyCenterWidth = 0.80
	copyMinWidth    = 0.30
	copyEdgeBuffer  = 4

	ctaFontRatio   = 0.6
	ctaMinFontSize = 10
	ctaMaxFontSize = 80
)

// LogoFraction returns the share of the safe area a logo occupies.
func LogoFraction(c ad.Category) float64 {
	switch c {
	case ad.CategorySquare, ad.CategorySpecial:
		return 0.0215
	case ad.CategoryPortrait:
		return 0.02
	default:
		return 0.035
	}
}

// SizeLogo returns the logo box for an origW×origH logo, keeping its aspect
// ratio and clamped to the safe area.
func SizeLogo(origW, origH, safeW, safeH int, c ad.Category) (w, h int) {
	area := float64(safeW) * float64(safeH) * LogoFraction(c)
	aspect := 1.0
	if origH > 0 {
		aspect = float64(origW) / float64(origH)
	}
	if aspect <= 0 {
		return 0, 0
	}
	h = int(math.Sqrt(area / aspect))
	w = int(float64(h) * aspect)
	return min(w, safeW), min(h, safeH)
}

// ReferenceScale returns the format's reference scale: the logo box's short
// side when it is non-empty, else the side of a square covering 2% of the
// safe area.
func ReferenceScale(safeW, safeH, logoW, logoH int) int {
	if logoW > 0 && logoH > 0 {
		return min(logoW, logoH)
	}
	return int(math.Sqrt(float64(safeW) * float64(safeH) * referenceFraction))
}

// CopyMaxWidth returns the wrap width for copy. Side-anchored copy gets a
// narrower column.
func CopyMaxWidth(safeW int, side bool) int {
	frac := copyCenterWidth
	if side {
		frac = copySideWidth
	}
	w := min(int(float64(safeW)*frac), safeW-copyEdgeBuffer)
	return max(int(float64(safeW)*copyMinWidth), w)
}

// CTASize is a sized call-to-action button.
type CTASize struct {
	W, H     int
	FontSize int
	Label    string

	// TextX and TextY offset the label's layout box from the button's
	// top-left corner. TextW and TextH are the label's ink extent.
	TextX, TextY int
	TextW, TextH int
}

// SizeCTA sizes a button of height ref around the upper-cased label, with
// one em of padding on each side, clamped to maxW.
func SizeCTA(p *text.Probe, f *fonts.Font, label string, ref, maxW int) CTASize {
	size := max(ctaMinFontSize, min(int(float64(ref)*ctaFontRatio), ctaMaxFontSize))
	label = strings.ToUpper(label)

	bb, ok := p.Measure(f, size, label)
	textW, textH, top := 0, size, 0
	if ok {
		textW, textH, top = bb.Width(), bb.Height(), bb.Top
	}
	pad := size
	return CTASize{
		W:        min(textW+2*pad, maxW),
		H:        ref,
		FontSize: size,
		Label:    label,
		TextX:    pad,
		TextY:    floorDiv(ref-textH, 2) - top,
		TextW:    textW,
		TextH:    textH,
	}
}

// SizeCopy wraps and fits copy to its column, starting from the size whose
// sample height matches 1.25× the reference scale. The block width is
// clamped to safeW.
func SizeCopy(p *text.Probe, f *fonts.Font, s string, ref, safeW int, side bool) text.Block {
	maxW := CopyMaxWidth(safeW, side)
	start := p.SizeForHeight(f, int(float64(ref)*copyTargetRatio))
	b := text.WrapAndFit(p, f, s, maxW, start, text.MinSize)
	b.Width = min(b.Width, safeW)
	return b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
