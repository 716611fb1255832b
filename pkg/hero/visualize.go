package hero

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

const labelMargin = 10

// Visualize draws box onto a copy of img: a lime outline, a translucent green
// fill and a coordinate label. A nil box draws a red "not detected" label.
func Visualize(img image.Image, box *BBox) *image.NRGBA {
	dc := gg.NewContextForImage(img)
	b := img.Bounds()
	short := min(b.Dx(), b.Dy())

	if face, err := fonts.Embedded().Face(max(15, int(float64(short)*0.03))); err == nil {
		dc.SetFontFace(face)
	}

	label := "No hero bbox detected."
	dc.SetRGB255(255, 0, 0)
	if box.Usable() {
		lw := float64(max(1, int(float64(short)*0.005)))
		x, y := float64(box.X1-b.Min.X), float64(box.Y1-b.Min.Y)
		w, h := float64(box.Width()), float64(box.Height())

		dc.SetRGBA255(0, 255, 0, 70)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		dc.SetRGB255(0, 255, 0)
		dc.SetLineWidth(lw)
		dc.DrawRectangle(x+lw/2, y+lw/2, w-lw, h-lw)
		dc.Stroke()

		label = "Hero BBox: " + box.String()
	}
	dc.DrawStringAnchored(label, labelMargin, labelMargin, 0, 1)

	return imaging.Clone(dc.Image())
}
