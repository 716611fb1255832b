// Package compose scales and crops a source image onto a target canvas so
// that a hero subject stays prominent.
//
// [Plan] is the pure geometry: it decides the scale and crop window for a
// given source size, target size, optional hero box and reserved hero area.
// [Compose] executes a plan with Lanczos resampling.
//
// Without a usable hero the source is cover-scaled and center-cropped. With
// one, the scale is raised (never lowered below cover) until the hero spans
// the requested prominence of its reserved area on the tighter axis, and the
// crop window is chosen to bring the hero's center to the center of that
// area, clamped to the resized image. The hero zoom is capped at [MaxHeroScale].
//
// Compose never materializes the whole resized image: it crops the source
// region behind the crop window and resamples only that.
package compose

import (
	"image"
	"math"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/hero"
)

// DefaultProminence is the fraction of the reserved area the hero targets.
const DefaultProminence = 0.7

// MaxHeroScale caps how far a small hero box can zoom the source. Cover
// scale still wins when it is larger.
const MaxHeroScale = 32.0

// Background fills canvas pixels that no source pixel covers.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Regime names the strategy a Placement used.
type Regime string

const (
	RegimeEmpty Regime = "empty"
	RegimeCover Regime = "cover"
	RegimeHero  Regime = "hero"
)

// Placement describes how a source maps onto a target canvas.
type Placement struct {
	Regime     Regime          `json:"regime"`
	CoverScale float64         `json:"cover_scale"`
	HeroScale  float64         `json:"hero_scale,omitempty"`
	Scale      float64         `json:"scale"`
	ResizedW   int             `json:"resized_w"`
	ResizedH   int             `json:"resized_h"`
	Crop       image.Rectangle `json:"crop"`
}

// Plan computes the placement of a srcW×srcH image on a tw×th canvas.
// box may be nil; area is the reserved hero rectangle in canvas space.
func Plan(srcW, srcH, tw, th int, box *hero.BBox, area ad.Rect, prominence float64) Placement {
	if srcW <= 0 || srcH <= 0 || tw <= 0 || th <= 0 {
		return Placement{Regime: RegimeEmpty}
	}
	cover := max(float64(tw)/float64(srcW), float64(th)/float64(srcH))

	if !box.Usable() || area.Empty() {
		rw := max(tw, int(float64(srcW)*cover))
		rh := max(th, int(float64(srcH)*cover))
		cx, cy := (rw-tw)/2, (rh-th)/2
		return Placement{
			Regime:     RegimeCover,
			CoverScale: cover,
			Scale:      cover,
			ResizedW:   rw,
			ResizedH:   rh,
			Crop:       clampRect(image.Rect(cx, cy, cx+tw, cy+th), rw, rh),
		}
	}

	hw, hh := float64(box.Width()), float64(box.Height())
	heroScale := min(float64(area.W)*prominence/hw, float64(area.H)*prominence/hh, MaxHeroScale)
	scale := max(heroScale, cover)

	rw := max(tw, int(float64(srcW)*scale))
	rh := max(th, int(float64(srcH)*scale))

	hcx, hcy := box.Center()
	cropX := hcx*scale - (float64(area.X) + float64(area.W)/2)
	cropY := hcy*scale - (float64(area.Y) + float64(area.H)/2)
	cropX = max(0, min(cropX, float64(rw-tw)))
	cropY = max(0, min(cropY, float64(rh-th)))

	x, y := int(cropX), int(cropY)
	return Placement{
		Regime:     RegimeHero,
		CoverScale: cover,
		HeroScale:  heroScale,
		Scale:      scale,
		ResizedW:   rw,
		ResizedH:   rh,
		Crop:       image.Rect(x, y, x+tw, y+th),
	}
}

// Compose renders src onto a new tw×th canvas following [Plan].
func Compose(src image.Image, tw, th int, box *hero.BBox, area ad.Rect, prominence float64) (*image.NRGBA, Placement) {
	b := src.Bounds()
	pl := Plan(b.Dx(), b.Dy(), tw, th, box, area, prominence)
	canvas := imaging.New(max(tw, 0), max(th, 0), Background)
	if pl.Regime == RegimeEmpty {
		return canvas, pl
	}
	return imaging.Paste(canvas, render(src, pl), image.Pt(0, 0)), pl
}

// render resamples the part of src under pl.Crop. The crop window is mapped
// back to source pixels (rounded outward), that region alone is resized at
// the plan's per-axis scale, and the exact window is cut from it.
func render(src image.Image, pl Placement) *image.NRGBA {
	b := src.Bounds()
	kx := float64(pl.ResizedW) / float64(b.Dx())
	ky := float64(pl.ResizedH) / float64(b.Dy())

	region := image.Rect(
		int(math.Floor(float64(pl.Crop.Min.X)/kx)),
		int(math.Floor(float64(pl.Crop.Min.Y)/ky)),
		int(math.Ceil(float64(pl.Crop.Max.X)/kx)),
		int(math.Ceil(float64(pl.Crop.Max.Y)/ky)),
	).Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))

	// Offset of the crop window inside the resized region.
	ox := pl.Crop.Min.X - int(math.Round(float64(region.Min.X)*kx))
	oy := pl.Crop.Min.Y - int(math.Round(float64(region.Min.Y)*ky))
	ox, oy = max(ox, 0), max(oy, 0)
	w := max(int(math.Round(float64(region.Dx())*kx)), ox+pl.Crop.Dx())
	h := max(int(math.Round(float64(region.Dy())*ky)), oy+pl.Crop.Dy())

	part := imaging.Crop(src, region.Add(b.Min))
	resized := imaging.Resize(part, w, h, imaging.Lanczos)
	return imaging.Crop(resized, image.Rect(ox, oy, ox+pl.Crop.Dx(), oy+pl.Crop.Dy()))
}

func clampRect(r image.Rectangle, w, h int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, w, h))
}
