package hero

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/cyzmcl/Lunarian/pkg/ad"
)

// BBox is an axis-aligned hero rectangle in source pixels. It serializes as
// [x1, y1, x2, y2].
type BBox struct {
	X1, Y1, X2, Y2 int
}

// Usable reports whether b is present and has positive area. A degenerate
// box is treated the same as no box.
func (b *BBox) Usable() bool {
	return b != nil && b.X2 > b.X1 && b.Y2 > b.Y1
}

// Width returns the horizontal extent.
func (b BBox) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent.
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Center returns the box centroid.
func (b BBox) Center() (x, y float64) {
	return float64(b.X1) + float64(b.Width())/2, float64(b.Y1) + float64(b.Height())/2
}

// Rect returns b as an image rectangle.
func (b BBox) Rect() image.Rectangle { return image.Rect(b.X1, b.Y1, b.X2, b.Y2) }

func (b BBox) String() string { return fmt.Sprintf("(%d,%d)-(%d,%d)", b.X1, b.Y1, b.X2, b.Y2) }

// MarshalJSON encodes b as a four-element array.
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes a four-element array.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var v [4]int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = BBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	return nil
}

// FromSeed converts an x/y/width/height seed into a box clamped to bounds.
// It returns nil when the seed is absent or clamps to nothing.
func FromSeed(s *ad.SeedBox, bounds image.Rectangle) *BBox {
	if s == nil {
		return nil
	}
	b := &BBox{
		X1: max(bounds.Min.X, s.X),
		Y1: max(bounds.Min.Y, s.Y),
		X2: min(bounds.Max.X, s.X+s.Width),
		Y2: min(bounds.Max.Y, s.Y+s.Height),
	}
	if !b.Usable() {
		return nil
	}
	return b
}
