package layout

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	"github.com/cyzmcl/Lunarian/pkg/text"
)

var (
	square   = ad.Format{ID: "square", Width: 1000, Height: 1000}
	portrait = ad.Format{ID: "story", Width: 1080, Height: 1920}
	tall     = ad.Format{ID: "tall", Width: 1440, Height: 2560}
)

func logo(w, h int) image.Image { return image.NewNRGBA(image.Rect(0, 0, w, h)) }

func copyEl(pos ad.Position, s string) ad.Element {
	return ad.Element{Kind: ad.KindCopy, Position: pos, Text: s, Color: color.NRGBA{A: 255}}
}

func ctaEl(pos ad.Position, s string) ad.Element {
	return ad.Element{
		Kind: ad.KindCTA, Position: pos, Text: s,
		Color: color.NRGBA{255, 255, 255, 255}, Background: color.NRGBA{A: 255},
	}
}

func logoEl(pos ad.Position, img image.Image) ad.Element {
	return ad.Element{Kind: ad.KindLogo, Position: pos, Logo: img}
}

func TestSizeLogo(t *testing.T) {
	tests := []struct {
		name         string
		ow, oh       int
		sw, sh       int
		cat          ad.Category
		wantW, wantH int
	}{
		{"wide square format", 200, 100, 860, 860, ad.CategorySquare, 178, 89},
		{"zero height treated as square", 50, 0, 860, 860, ad.CategorySquare, 126, 126},
		{"zero width", 0, 100, 860, 860, ad.CategorySquare, 0, 0},
		{"clamped to safe height", 1, 1000, 100, 100, ad.CategorySquare, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := SizeLogo(tt.ow, tt.oh, tt.sw, tt.sh, tt.cat)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("SizeLogo() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLogoFraction(t *testing.T) {
	tests := map[ad.Category]float64{
		ad.CategorySquare:    0.0215,
		ad.CategorySpecial:   0.0215,
		ad.CategoryPortrait:  0.02,
		ad.CategoryLandscape: 0.035,
	}
	for c, want := range tests {
		if got := LogoFraction(c); got != want {
			t.Errorf("LogoFraction(%s) = %v, want %v", c, got, want)
		}
	}
}

func TestReferenceScale(t *testing.T) {
	if got := ReferenceScale(860, 860, 178, 89); got != 89 {
		t.Errorf("with logo = %d, want 89", got)
	}
	if got := ReferenceScale(860, 860, 0, 0); got != 121 {
		t.Errorf("fallback = %d, want 121", got)
	}
	if got := ReferenceScale(860, 860, 0, 100); got != 121 {
		t.Errorf("degenerate logo = %d, want fallback 121", got)
	}
}

func TestCopyMaxWidth(t *testing.T) {
	tests := []struct {
		safeW int
		side  bool
		want  int
	}{
		{1000, false, 800},
		{1000, true, 400},
		{10, false, 6},
		{5, true, 1},
	}
	for _, tt := range tests {
		if got := CopyMaxWidth(tt.safeW, tt.side); got != tt.want {
			t.Errorf("CopyMaxWidth(%d, %v) = %d, want %d", tt.safeW, tt.side, got, tt.want)
		}
	}
}

func TestSizeCTA(t *testing.T) {
	p := text.NewProbe()
	f := fonts.Embedded()

	c := SizeCTA(p, f, "shop", 100, 10000)
	if c.FontSize != 60 {
		t.Errorf("FontSize = %d, want 60", c.FontSize)
	}
	if c.H != 100 {
		t.Errorf("H = %d, want 100", c.H)
	}
	if c.TextX != 60 {
		t.Errorf("padding = %d, want 60", c.TextX)
	}
	if c.Label != "SHOP" {
		t.Errorf("Label = %q, want SHOP", c.Label)
	}
	tw := p.InkWidth(f, 60, "SHOP")
	if tw == 0 || c.W != tw+120 {
		t.Errorf("W = %d, want %d", c.W, tw+120)
	}
	bb, _ := p.Measure(f, 60, "SHOP")
	if top := c.TextY + bb.Top; top != (100-bb.Height())/2 {
		t.Errorf("ink top = %d, want %d", top, (100-bb.Height())/2)
	}

	if got := SizeCTA(p, f, "shop", 10, 10000).FontSize; got != 10 {
		t.Errorf("small ref font = %d, want 10", got)
	}
	if got := SizeCTA(p, f, "shop", 500, 10000).FontSize; got != 80 {
		t.Errorf("large ref font = %d, want 80", got)
	}
	if got := SizeCTA(p, f, "a very long call to action", 100, 200).W; got != 200 {
		t.Errorf("clamped W = %d, want 200", got)
	}
}

func TestSpacingFor(t *testing.T) {
	safe := portrait.SafeArea()
	got := SpacingFor(portrait.Category(), safe)
	want := Spacing{Logo: 82, CopyCTA: 33, Generic: 18}
	if got != want {
		t.Errorf("SpacingFor(portrait) = %+v, want %+v", got, want)
	}

	tiny := SpacingFor(ad.CategoryLandscape, ad.Rect{W: 20, H: 20})
	if tiny.Logo != 3 || tiny.CopyCTA != 3 || tiny.Generic != 3 {
		t.Errorf("spacings below floor: %+v", tiny)
	}
}

func TestBetween(t *testing.T) {
	s := Spacing{Logo: 10, CopyCTA: 20, Generic: 30}
	tests := []struct {
		a, b ad.Kind
		want int
	}{
		{ad.KindLogo, ad.KindCopy, 10},
		{ad.KindCTA, ad.KindLogo, 10},
		{ad.KindCopy, ad.KindCTA, 20},
		{ad.KindCTA, ad.KindCopy, 20},
		{ad.KindLogo, ad.KindLogo, 30},
		{ad.KindCopy, ad.KindCopy, 30},
	}
	for _, tt := range tests {
		if got := s.Between(tt.a, tt.b); got != tt.want {
			t.Errorf("Between(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStackOrder(t *testing.T) {
	L, C, A := ad.KindLogo, ad.KindCopy, ad.KindCTA
	tests := []struct {
		name  string
		pos   ad.Position
		kinds []ad.Kind
		want  []ad.Kind
	}{
		{"default triple", ad.BottomCenter, []ad.Kind{A, L, C}, []ad.Kind{L, C, A}},
		{"bottom pair copy cta", ad.BottomCenter, []ad.Kind{A, C}, []ad.Kind{C, A}},
		{"bottom pair logo copy", ad.BottomCenter, []ad.Kind{L, C}, []ad.Kind{C, L}},
		{"bottom pair logo cta", ad.BottomCenter, []ad.Kind{L, A}, []ad.Kind{A, L}},
		{"top pair keeps default", ad.TopCenter, []ad.Kind{C, L}, []ad.Kind{L, C}},
		{"single", ad.BottomCenter, []ad.Kind{L}, []ad.Kind{L}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StackOrder(tt.pos, tt.kinds)
			if len(got) != len(tt.want) {
				t.Fatalf("StackOrder() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("StackOrder() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestReserve(t *testing.T) {
	p := NewPlanner(nil, nil)
	els := []ad.Element{
		logoEl(ad.TopCenter, logo(200, 100)),
		copyEl(ad.BottomCenter, "Fresh coffee daily"),
		ctaEl(ad.BottomCenter, "Order"),
	}
	res := p.Reserve(square, els)

	safe := square.SafeArea()
	sp := ReserveSpacing(safe)
	if res.Reference != 89 {
		t.Errorf("Reference = %d, want 89", res.Reference)
	}
	if res.Insets.Top != 89+sp {
		t.Errorf("Top = %d, want %d", res.Insets.Top, 89+sp)
	}
	if res.Insets.Left != 0 || res.Insets.Right != 0 {
		t.Errorf("side insets = %+v, want none", res.Insets)
	}

	copyB := SizeCopy(p.Probe(), fonts.Embedded(), "Fresh coffee daily", 89, safe.W, false)
	wantBottom := copyB.Height + sp + 89 + sp
	if res.Insets.Bottom != wantBottom {
		t.Errorf("Bottom = %d, want %d", res.Insets.Bottom, wantBottom)
	}

	want := ad.Rect{
		X: safe.X,
		Y: safe.Y + res.Insets.Top,
		W: safe.W,
		H: safe.H - res.Insets.Top - res.Insets.Bottom,
	}
	if res.HeroArea != want {
		t.Errorf("HeroArea = %v, want %v", res.HeroArea, want)
	}
}

func TestReserveSideAndCorner(t *testing.T) {
	p := NewPlanner(nil, nil)
	els := []ad.Element{
		logoEl(ad.ParsePosition("top_left"), logo(100, 100)),
		copyEl(ad.LeftMiddle, "Side copy"),
	}
	res := p.Reserve(square, els)
	if res.Insets.Top == 0 || res.Insets.Left == 0 {
		t.Errorf("corner and side should reserve top and left: %+v", res.Insets)
	}
	if res.Insets.Bottom != 0 || res.Insets.Right != 0 {
		t.Errorf("unexpected reservations: %+v", res.Insets)
	}
}

func TestReserveNothing(t *testing.T) {
	res := NewPlanner(nil, nil).Reserve(tall, nil)
	if res.HeroArea != (ad.Rect{X: 127, Y: 254, W: 1182, H: 2072}) {
		t.Errorf("HeroArea = %v, want safe override", res.HeroArea)
	}
	if res.Insets != (Insets{}) {
		t.Errorf("Insets = %+v, want zero", res.Insets)
	}
}

func TestPlaceBottomCenterCopyAboveCTA(t *testing.T) {
	p := NewPlanner(nil, nil)
	els := []ad.Element{
		ctaEl(ad.BottomCenter, "Shop now"),
		copyEl(ad.BottomCenter, "Summer sale on everything"),
	}
	groups, ops := p.Place(portrait, els)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	g := groups[0]
	if len(g.Members) != 2 || g.Members[0].Kind != ad.KindCopy || g.Members[1].Kind != ad.KindCTA {
		t.Fatalf("members = %+v, want copy then cta", g.Members)
	}

	safe := portrait.SafeArea()
	sp := SpacingFor(portrait.Category(), safe)
	cp, cta := g.Members[0], g.Members[1]
	if cta.Y != cp.Y+cp.H+sp.CopyCTA {
		t.Errorf("cta.Y = %d, want %d", cta.Y, cp.Y+cp.H+sp.CopyCTA)
	}
	if g.Y+g.H != safe.Y+safe.H {
		t.Errorf("group bottom = %d, want safe bottom %d", g.Y+g.H, safe.Y+safe.H)
	}
	for _, m := range g.Members {
		if m.X != g.X+(g.W-m.W)/2 {
			t.Errorf("%s not centered in block", m.Kind)
		}
	}

	var rects, texts int
	for _, op := range ops {
		switch op.Kind {
		case OpRect:
			rects++
			if op.Y != cta.Y || op.H != cta.H {
				t.Errorf("button op %+v does not match member %+v", op, cta)
			}
		case OpText:
			texts++
			if op.FontFace == nil || op.Font == "" || op.Size <= 0 {
				t.Errorf("text op missing font: %+v", op)
			}
		}
	}
	if rects != 1 || texts < 2 {
		t.Errorf("ops: %d rects, %d texts", rects, texts)
	}
}

func TestPlaceSkipsEmptyElementsButKeepsSlot(t *testing.T) {
	p := NewPlanner(nil, nil)
	els := []ad.Element{
		{Kind: ad.KindLogo, Position: ad.TopCenter},
		ctaEl(ad.TopCenter, "Go"),
	}
	groups, ops := p.Place(square, els)
	g := groups[0]
	sp := SpacingFor(square.Category(), square.SafeArea())

	if g.Members[0].W != 0 || g.Members[0].H != 0 {
		t.Fatalf("empty logo sized %+v", g.Members[0])
	}
	if g.Members[1].Y != g.Y+sp.Logo {
		t.Errorf("cta.Y = %d, want slot after empty logo at %d", g.Members[1].Y, g.Y+sp.Logo)
	}
	for _, op := range ops {
		if op.Kind == OpImage {
			t.Error("empty logo emitted an image op")
		}
	}
}

func TestPlaceCopyLinesCentered(t *testing.T) {
	p := NewPlanner(nil, nil)
	copyText := "A headline long enough to wrap onto several lines of text"
	_, ops := p.Place(square, []ad.Element{copyEl(ad.TopCenter, copyText)})

	var lines []Op
	for _, op := range ops {
		if op.Kind == OpText {
			lines = append(lines, op)
		}
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapped copy, got %d lines", len(lines))
	}
	blockW := 0
	for _, l := range lines {
		blockW = max(blockW, l.W)
	}
	left := lines[0].X - (blockW-lines[0].W)/2
	for i, l := range lines {
		if i > 0 && l.Y <= lines[i-1].Y {
			t.Errorf("line %d not below previous", i)
		}
		if want := left + (blockW-l.W)/2; l.X != want {
			t.Errorf("line %d x = %d, want %d", i, l.X, want)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	els := []ad.Element{
		logoEl(ad.TopCenter, logo(300, 120)),
		copyEl(ad.BottomCenter, "Bold flavours, honest prices, every single day"),
		ctaEl(ad.BottomCenter, "Find a store"),
		copyEl(ad.RightMiddle, "New"),
	}
	encode := func() []byte {
		plan := NewPlanner(nil, nil).Plan(portrait, els)
		b, err := json.Marshal(plan)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}
	a, b := encode(), encode()
	if !bytes.Equal(a, b) {
		t.Error("two runs produced different plans")
	}
	if !bytes.Contains(a, []byte(`"element":"copy"`)) || !bytes.Contains(a, []byte(`"kind":"rect"`)) {
		t.Errorf("plan JSON missing ops: %s", a)
	}

	// The second pass reuses the memo and must agree with a cold probe.
	warm := NewPlanner(nil, nil)
	warm.Plan(portrait, els)
	again, _ := json.Marshal(warm.Plan(portrait, els))
	if !bytes.Equal(a, again) {
		t.Error("warm probe changed the plan")
	}
}

func TestPlanAgreesWithPasses(t *testing.T) {
	els := []ad.Element{
		logoEl(ad.Position{H: ad.AnchorLeft, V: ad.AnchorTop}, logo(400, 100)),
		copyEl(ad.BottomCenter, "Fresh coffee daily"),
		ctaEl(ad.BottomCenter, "Order"),
	}
	for _, f := range []ad.Format{square, portrait, tall} {
		t.Run(f.ID, func(t *testing.T) {
			p := NewPlanner(nil, nil)
			plan := p.Plan(f, els)
			res := p.Reserve(f, els)
			groups, ops := p.Place(f, els)

			if plan.Safe != f.SafeArea() {
				t.Errorf("Safe = %v, want %v", plan.Safe, f.SafeArea())
			}
			if plan.Reference != res.Reference || plan.Insets != res.Insets || plan.HeroArea != res.HeroArea {
				t.Errorf("plan reservation %d %+v %v, Reserve gives %d %+v %v",
					plan.Reference, plan.Insets, plan.HeroArea, res.Reference, res.Insets, res.HeroArea)
			}
			got, _ := json.Marshal(struct {
				G []Group
				O []Op
			}{plan.Groups, plan.Ops})
			want, _ := json.Marshal(struct {
				G []Group
				O []Op
			}{groups, ops})
			if !bytes.Equal(got, want) {
				t.Errorf("plan placement differs from Place:\n%s\n%s", got, want)
			}
		})
	}
}

func TestColorText(t *testing.T) {
	c := Color{R: 0x12, G: 0xab, B: 0x00, A: 0xff}
	b, _ := c.MarshalText()
	if string(b) != "#12ab00ff" {
		t.Errorf("MarshalText = %s", b)
	}
	var back Color
	if err := back.UnmarshalText(b); err != nil || back != c {
		t.Errorf("UnmarshalText = %v, %v", back, err)
	}
}
