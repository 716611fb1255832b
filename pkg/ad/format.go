package ad

import (
	"fmt"

	"github.com/cyzmcl/Lunarian/pkg/errors"
)

// Orientation classifies a format by aspect.
type Orientation string

const (
	Square    Orientation = "square"
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Orientations lists every orientation in display order.
var Orientations = []Orientation{Square, Portrait, Landscape}

// Category selects the logo area fraction and stacking spacings for a format.
type Category int

const (
	CategorySquare Category = iota
	CategorySpecial
	CategoryPortrait
	CategoryLandscape
)

func (c Category) String() string {
	switch c {
	case CategorySquare:
		return "square"
	case CategorySpecial:
		return "special"
	case CategoryPortrait:
		return "portrait"
	default:
		return "landscape"
	}
}

// MaxDimension bounds either side of a requested format.
const MaxDimension = 8192

// safeMargin is the inset applied to each side of a canvas.
const safeMargin = 0.07

// specialFormats are fixed banner sizes that size their logo like squares.
var specialFormats = map[[2]int]bool{
	{300, 250}: true,
	{336, 280}: true,
}

// safeOverrides replaces the margin formula for specific canvas sizes.
// 1440x2560 is (127.34, 254.56, 1182.1, 2072.43) truncated.
var safeOverrides = map[[2]int]Rect{
	{1440, 2560}: {X: 127, Y: 254, W: 1182, H: 2072},
}

// Rect is an integer rectangle given by its top-left corner and extent.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) String() string { return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H) }

// Format is one requested output size.
type Format struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Orientation derives the format's orientation from its dimensions.
func (f Format) Orientation() Orientation {
	switch {
	case f.Width == f.Height:
		return Square
	case f.Height > f.Width:
		return Portrait
	default:
		return Landscape
	}
}

// Category derives the sizing category. Squares win over the special
// banner list, which wins over portrait and landscape.
func (f Format) Category() Category {
	switch {
	case f.Width == f.Height:
		return CategorySquare
	case specialFormats[[2]int{f.Width, f.Height}]:
		return CategorySpecial
	case f.Height > f.Width:
		return CategoryPortrait
	default:
		return CategoryLandscape
	}
}

// SafeArea returns the inset rectangle in which the hero and overlays render.
func (f Format) SafeArea() Rect {
	if r, ok := safeOverrides[[2]int{f.Width, f.Height}]; ok {
		return r
	}
	mx := int(float64(f.Width) * safeMargin)
	my := int(float64(f.Height) * safeMargin)
	return Rect{X: mx, Y: my, W: f.Width - 2*mx, H: f.Height - 2*my}
}

// Validate checks that the format can be rendered.
func (f Format) Validate() error {
	if err := errors.ValidateFormatID(f.ID); err != nil {
		return err
	}
	if f.Width < 1 || f.Height < 1 {
		return errors.New(errors.ErrCodeInvalidFormat, "format %s: dimensions must be positive, got %dx%d", f.ID, f.Width, f.Height)
	}
	if f.Width > MaxDimension || f.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidFormat, "format %s: dimensions exceed %d", f.ID, MaxDimension)
	}
	return nil
}

func (f Format) String() string { return fmt.Sprintf("%s(%dx%d)", f.ID, f.Width, f.Height) }
