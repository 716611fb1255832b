package layout

import "github.com/cyzmcl/Lunarian/pkg/ad"

// minSpacing is the floor for every gap.
const minSpacing = 3

// Spacing holds the gaps between stacked elements for one format.
type Spacing struct {
	Logo    int `json:"logo"`     // logo next to copy or cta
	CopyCTA int `json:"copy_cta"` // copy next to cta
	Generic int `json:"generic"`  // any other pair, and pass 1 reservations
}

// SpacingFor returns the gaps for a format with the given safe area.
func SpacingFor(c ad.Category, safe ad.Rect) Spacing {
	var logo, copyCTA float64
	switch c {
	case ad.CategoryPortrait:
		logo, copyCTA = 0.05, 0.02
	case ad.CategorySquare, ad.CategorySpecial:
		logo, copyCTA = 0.06, 0.03
	default:
		logo, copyCTA = 0.06, 0.05
	}
	return Spacing{
		Logo:    gap(float64(safe.H) * logo),
		CopyCTA: gap(float64(safe.H) * copyCTA),
		Generic: ReserveSpacing(safe),
	}
}

// ReserveSpacing is the uniform gap used while reserving edges.
func ReserveSpacing(safe ad.Rect) int {
	return gap(float64(min(safe.W, safe.H)) * 0.02)
}

// Between returns the gap between two adjacent stack members.
func (s Spacing) Between(a, b ad.Kind) int {
	text := func(k ad.Kind) bool { return k == ad.KindCopy || k == ad.KindCTA }
	switch {
	case a == ad.KindLogo && text(b), b == ad.KindLogo && text(a):
		return s.Logo
	case a == ad.KindCopy && b == ad.KindCTA, a == ad.KindCTA && b == ad.KindCopy:
		return s.CopyCTA
	default:
		return s.Generic
	}
}

func gap(v float64) int { return max(minSpacing, int(v)) }
