package ad

import (
	"encoding/json"
	"image"
	"image/color"

	"github.com/cyzmcl/Lunarian/pkg/errors"
)

// Request defaults.
const (
	DefaultLogoPosition  = "top_center"
	DefaultCopyPosition  = "bottom_center"
	DefaultCTAPosition   = "bottom_center"
	DefaultFont          = "arial.ttf"
	DefaultCopyColor     = "#000000"
	DefaultCTATextColor  = "#FFFFFF"
	DefaultCTABackground = "#000000"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// SeedBox is a caller-supplied hero hint in x/y/width/height form.
type SeedBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Request is a complete creative generation request. Images are data URLs or
// bare base64 payloads; decoding happens in the pipeline.
type Request struct {
	SourceImage string   `json:"sourceImage"`
	HeroSeed    *SeedBox `json:"userInputHeroBbox,omitempty"`

	BrandLogo                 string            `json:"brandLogo,omitempty"`
	IncludeLogo               bool              `json:"includeLogo"`
	LogoAppliesToAll          bool              `json:"logoAppliesToAll"`
	LogoSelectedFormats       []string          `json:"logoSelectedFormats,omitempty"`
	LogoPositionByOrientation map[string]string `json:"logoPositionByOrientation,omitempty"`

	IncludeCopy               bool              `json:"includeCopy"`
	AdCopy                    string            `json:"adCopy,omitempty"`
	CopyFontFamily            string            `json:"copyFontFamily,omitempty"`
	CopyAppliesToAll          bool              `json:"copyAppliesToAll"`
	CopySelectedFormats       []string          `json:"copySelectedFormats,omitempty"`
	CopyPositionByOrientation map[string]string `json:"copyPositionByOrientation,omitempty"`
	CopyBrandColor            string            `json:"copyBrandColor,omitempty"`

	IncludeCTA               bool              `json:"includeCta"`
	CTAText                  string            `json:"ctaText,omitempty"`
	CTAAppliesToAll          bool              `json:"ctaAppliesToAll"`
	CTASelectedFormats       []string          `json:"ctaSelectedFormats,omitempty"`
	CTAPositionByOrientation map[string]string `json:"ctaPositionByOrientation,omitempty"`
	CTAFont                  string            `json:"ctaFont,omitempty"`
	CTATextColor             string            `json:"ctaTextColor,omitempty"`
	CTABgColor               string            `json:"ctaBgColor,omitempty"`

	Formats []Format `json:"formats"`
}

// NewRequest returns a request with every default applied.
func NewRequest() Request {
	return Request{
		LogoAppliesToAll: true,
		CopyAppliesToAll: true,
		CopyFontFamily:   DefaultFont,
		CopyBrandColor:   DefaultCopyColor,
		CTAAppliesToAll:  true,
		CTAFont:          DefaultFont,
		CTATextColor:     DefaultCTATextColor,
		CTABgColor:       DefaultCTABackground,
	}
}

// UnmarshalJSON decodes a request on top of the defaults so that omitted
// "applies to all" flags stay true.
func (r *Request) UnmarshalJSON(b []byte) error {
	type plain Request
	p := plain(NewRequest())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Request(p)
	return nil
}

// SetDefaults fills empty font and color fields.
func (r *Request) SetDefaults() {
	if r.CopyFontFamily == "" {
		r.CopyFontFamily = DefaultFont
	}
	if r.CTAFont == "" {
		r.CTAFont = DefaultFont
	}
	if r.CopyBrandColor == "" {
		r.CopyBrandColor = DefaultCopyColor
	}
	if r.CTATextColor == "" {
		r.CTATextColor = DefaultCTATextColor
	}
	if r.CTABgColor == "" {
		r.CTABgColor = DefaultCTABackground
	}
}

// Validate applies defaults and checks everything that can be checked
// without decoding images.
func (r *Request) Validate() error {
	r.SetDefaults()
	if r.SourceImage == "" {
		return errors.New(errors.ErrCodeInvalidImage, "missing source image")
	}
	if len(r.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one format is required")
	}
	seen := make(map[string]bool, len(r.Formats))
	for _, f := range r.Formats {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate format id %q", f.ID)
		}
		seen[f.ID] = true
	}
	for _, c := range []string{r.CopyBrandColor, r.CTATextColor, r.CTABgColor} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Selections.

func (r *Request) LogoSelection() Selection {
	return Selection{AppliesToAll: r.LogoAppliesToAll, Formats: r.LogoSelectedFormats}
}

func (r *Request) CopySelection() Selection {
	return Selection{AppliesToAll: r.CopyAppliesToAll, Formats: r.CopySelectedFormats}
}

func (r *Request) CTASelection() Selection {
	return Selection{AppliesToAll: r.CTAAppliesToAll, Formats: r.CTASelectedFormats}
}

// Elements resolves the overlays shown on f, in default stacking order.
// logo is the decoded brand logo, or nil.
func (r *Request) Elements(f Format, logo image.Image) []Element {
	o := string(f.Orientation())
	var els []Element
	if r.IncludeLogo && logo != nil && r.LogoSelection().Includes(f.ID) {
		els = append(els, Element{
			Kind:     KindLogo,
			Position: positionFor(r.LogoPositionByOrientation, o, DefaultLogoPosition),
			Logo:     logo,
		})
	}
	if r.IncludeCopy && r.AdCopy != "" && r.CopySelection().Includes(f.ID) {
		els = append(els, Element{
			Kind:     KindCopy,
			Position: positionFor(r.CopyPositionByOrientation, o, DefaultCopyPosition),
			Text:     r.AdCopy,
			Font:     r.CopyFontFamily,
			Color:    mustColor(r.CopyBrandColor, black),
		})
	}
	if r.IncludeCTA && r.CTAText != "" && r.CTASelection().Includes(f.ID) {
		els = append(els, Element{
			Kind:       KindCTA,
			Position:   positionFor(r.CTAPositionByOrientation, o, DefaultCTAPosition),
			Text:       r.CTAText,
			Font:       r.CTAFont,
			Color:      mustColor(r.CTATextColor, white),
			Background: mustColor(r.CTABgColor, black),
		})
	}
	return els
}

func positionFor(byOrientation map[string]string, orientation, fallback string) Position {
	if key, ok := byOrientation[orientation]; ok {
		return ParsePosition(key)
	}
	return ParsePosition(fallback)
}
