package compose

import (
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/hero"
)

func TestPlanCover(t *testing.T) {
	pl := Plan(1000, 800, 1200, 628, nil, ad.Rect{}, DefaultProminence)
	if pl.Regime != RegimeCover {
		t.Fatalf("Regime = %s, want cover", pl.Regime)
	}
	if pl.Scale != 1.2 {
		t.Errorf("Scale = %v, want 1.2", pl.Scale)
	}
	if pl.ResizedW != 1200 || pl.ResizedH != 960 {
		t.Errorf("resized = %dx%d, want 1200x960", pl.ResizedW, pl.ResizedH)
	}
	if want := image.Rect(0, 166, 1200, 794); pl.Crop != want {
		t.Errorf("Crop = %v, want %v", pl.Crop, want)
	}
}

func TestPlanHero(t *testing.T) {
	area := ad.Rect{X: 100, Y: 100, W: 800, H: 800}
	tests := []struct {
		name  string
		box   hero.BBox
		scale float64
		crop  image.Rectangle
	}{
		{
			name:  "centered on area",
			box:   hero.BBox{X1: 400, Y1: 400, X2: 500, Y2: 500},
			scale: 4,
			crop:  image.Rect(1300, 1300, 2300, 2300),
		},
		{
			name:  "clamped at origin",
			box:   hero.BBox{X1: 0, Y1: 0, X2: 100, Y2: 100},
			scale: 4,
			crop:  image.Rect(0, 0, 1000, 1000),
		},
		{
			name:  "clamped at far edge",
			box:   hero.BBox{X1: 900, Y1: 900, X2: 1000, Y2: 1000},
			scale: 4,
			crop:  image.Rect(3000, 3000, 4000, 4000),
		},
		{
			name:  "never below cover",
			box:   hero.BBox{X1: 0, Y1: 0, X2: 1000, Y2: 1000},
			scale: 1,
			crop:  image.Rect(0, 0, 1000, 1000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := Plan(1000, 1000, 1000, 1000, &tt.box, area, 0.5)
			if pl.Regime != RegimeHero {
				t.Fatalf("Regime = %s, want hero", pl.Regime)
			}
			if pl.Scale != tt.scale {
				t.Errorf("Scale = %v, want %v", pl.Scale, tt.scale)
			}
			if pl.Crop != tt.crop {
				t.Errorf("Crop = %v, want %v", pl.Crop, tt.crop)
			}
			if pl.Crop.Dx() != 1000 || pl.Crop.Dy() != 1000 {
				t.Errorf("crop size = %v, want target size", pl.Crop.Size())
			}
		})
	}
}

func TestPlanDegenerateBoxIsCover(t *testing.T) {
	area := ad.Rect{X: 10, Y: 10, W: 500, H: 300}
	want := Plan(1600, 900, 1080, 1080, nil, area, DefaultProminence)
	for _, box := range []*hero.BBox{
		{X1: 50, Y1: 50, X2: 50, Y2: 90},
		{X1: 50, Y1: 90, X2: 80, Y2: 90},
	} {
		if got := Plan(1600, 900, 1080, 1080, box, area, DefaultProminence); got != want {
			t.Errorf("Plan(%v) = %+v, want %+v", box, got, want)
		}
	}
	if got := Plan(1600, 900, 1080, 1080, &hero.BBox{X2: 10, Y2: 10}, ad.Rect{}, DefaultProminence); got != want {
		t.Errorf("empty area should fall back to cover: %+v", got)
	}
}

func TestPlanCoversTarget(t *testing.T) {
	sizes := [][4]int{
		{1000, 800, 1200, 628},
		{640, 480, 1080, 1920},
		{3000, 100, 300, 250},
		{7, 13, 1440, 2560},
	}
	box := &hero.BBox{X1: 1, Y1: 1, X2: 5, Y2: 6}
	for _, s := range sizes {
		for _, b := range []*hero.BBox{nil, box} {
			area := ad.Rect{X: 0, Y: 0, W: s[2] / 2, H: s[3] / 2}
			pl := Plan(s[0], s[1], s[2], s[3], b, area, DefaultProminence)
			if pl.ResizedW < s[2] || pl.ResizedH < s[3] {
				t.Errorf("%v hero=%v: resized %dx%d smaller than target", s, b, pl.ResizedW, pl.ResizedH)
			}
			if !pl.Crop.In(image.Rect(0, 0, pl.ResizedW, pl.ResizedH)) {
				t.Errorf("%v hero=%v: crop %v outside resized image", s, b, pl.Crop)
			}
			if pl.Crop.Dx() != s[2] || pl.Crop.Dy() != s[3] {
				t.Errorf("%v hero=%v: crop %v is not target size", s, b, pl.Crop)
			}
		}
	}
}

func TestPlanEmpty(t *testing.T) {
	if pl := Plan(0, 100, 100, 100, nil, ad.Rect{}, DefaultProminence); pl.Regime != RegimeEmpty {
		t.Errorf("Regime = %s, want empty", pl.Regime)
	}
}

func TestCompose(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	src := imaging.New(400, 200, red)

	out, pl := Compose(src, 300, 300, nil, ad.Rect{}, DefaultProminence)
	if out.Bounds() != image.Rect(0, 0, 300, 300) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if pl.Regime != RegimeCover {
		t.Errorf("Regime = %s", pl.Regime)
	}
	for _, p := range []image.Point{{0, 0}, {150, 150}, {299, 299}} {
		if c := out.NRGBAAt(p.X, p.Y); c.A != 255 || c.R < 250 {
			t.Errorf("pixel %v = %v, want opaque red", p, c)
		}
	}

	empty, _ := Compose(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 10, 10, nil, ad.Rect{}, DefaultProminence)
	if c := empty.NRGBAAt(5, 5); c != Background {
		t.Errorf("empty source pixel = %v, want background", c)
	}
}

func TestComposeTinyHeroIsBounded(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	red := color.NRGBA{R: 255, A: 255}
	src := imaging.New(1000, 800, blue)
	src.SetNRGBA(500, 400, red)

	box := hero.FromSeed(&ad.SeedBox{X: 500, Y: 400, Width: 1, Height: 1}, src.Bounds())
	area := ad.Rect{X: 75, Y: 75, W: 930, H: 930}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	out, pl := Compose(src, 1080, 1080, box, area, DefaultProminence)
	runtime.ReadMemStats(&after)

	if pl.Scale != MaxHeroScale {
		t.Errorf("Scale = %v, want %v", pl.Scale, MaxHeroScale)
	}
	if out.Bounds() != image.Rect(0, 0, 1080, 1080) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// The full resize would be 32000x25600 NRGBA, about 3 GB.
	if n := after.TotalAlloc - before.TotalAlloc; n > 64<<20 {
		t.Errorf("allocated %d bytes, want under 64 MiB", n)
	}
	if c := out.NRGBAAt(540, 540); c.R < 200 || c.B > 55 {
		t.Errorf("area center = %v, want hero red", c)
	}
	if c := out.NRGBAAt(440, 540); c.B < 200 || c.R > 55 {
		t.Errorf("pixel left of hero = %v, want blue", c)
	}
}

func TestComposeMatchesFullResize(t *testing.T) {
	src := imaging.New(64, 48, color.NRGBA{A: 255})
	for y := range 48 {
		for x := range 64 {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	box := &hero.BBox{X1: 30, Y1: 20, X2: 38, Y2: 28}
	area := ad.Rect{X: 20, Y: 20, W: 160, H: 160}

	out, pl := Compose(src, 200, 200, box, area, DefaultProminence)
	full := imaging.Crop(imaging.Resize(src, pl.ResizedW, pl.ResizedH, imaging.Lanczos), pl.Crop)
	for _, p := range []image.Point{{100, 100}, {60, 140}, {150, 50}} {
		a, b := out.NRGBAAt(p.X, p.Y), full.NRGBAAt(p.X, p.Y)
		if absDiff(a.R, b.R) > 8 || absDiff(a.G, b.G) > 8 {
			t.Errorf("pixel %v = %v, full resize has %v", p, a, b)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
