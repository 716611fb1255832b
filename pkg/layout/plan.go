package layout

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

// OpKind names a draw operation.
type OpKind string

const (
	OpImage OpKind = "image"
	OpRect  OpKind = "rect"
	OpText  OpKind = "text"
)

// Color is an NRGBA color that serializes as "#rrggbbaa".
type Color color.NRGBA

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ad.ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = Color(v)
	return nil
}

// Op is one draw operation in canvas pixels.
//
// For OpImage, Image is scaled to W×H and pasted at X,Y. For OpRect, the
// W×H rectangle at X,Y is filled with Color. For OpText, X,Y is the top-left
// of the line's layout box and W,H its measured width and line height.
type Op struct {
	Kind    OpKind  `json:"kind"`
	Element ad.Kind `json:"element"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	W       int     `json:"w"`
	H       int     `json:"h"`
	Color   Color   `json:"color"`
	Text    string  `json:"text,omitempty"`
	Font    string  `json:"font,omitempty"`
	Size    int     `json:"size,omitempty"`

	Image    image.Image `json:"-"`
	FontFace *fonts.Font `json:"-"`
}

// Insets are per-edge reservations.
type Insets struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Member is one placed element.
type Member struct {
	Kind ad.Kind `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

// Group is a placed stack of elements sharing a position.
type Group struct {
	Position ad.Position `json:"position"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
	W        int         `json:"w"`
	H        int         `json:"h"`
	Members  []Member    `json:"members"`
}

// Plan is the layout of one format.
type Plan struct {
	Format    ad.Format `json:"format"`
	Category  string    `json:"category"`
	Safe      ad.Rect   `json:"safe"`
	Reference int       `json:"reference"`
	Spacing   Spacing   `json:"spacing"`
	Insets    Insets    `json:"insets"`
	HeroArea  ad.Rect   `json:"hero_area"`
	Groups    []Group   `json:"groups"`
	Ops       []Op      `json:"ops"`
}
