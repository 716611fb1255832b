package text

import (
	"testing"

	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

func TestMeasure(t *testing.T) {
	p := NewProbe()
	defer p.Close()
	f := fonts.Embedded()

	b, ok := p.Measure(f, 40, "Aj")
	if !ok {
		t.Fatal("Measure(Aj) reported no ink")
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		t.Errorf("Measure(Aj) = %+v, want positive extent", b)
	}
	if b.Height() > 80 {
		t.Errorf("Measure(Aj) height = %d, implausible for 40px", b.Height())
	}

	if _, ok := p.Measure(f, 40, "   "); ok {
		t.Error("whitespace should have no ink")
	}
	if _, ok := p.Measure(f, 40, ""); ok {
		t.Error("empty string should have no ink")
	}
}

func TestMeasureMemoized(t *testing.T) {
	p := NewProbe()
	f := fonts.Embedded()

	first, _ := p.Measure(f, 24, "Spring sale")
	second, _ := p.Measure(f, 24, "Spring sale")
	if first != second {
		t.Errorf("memoized result differs: %+v vs %+v", first, second)
	}
	st := p.Stats()
	if st.Measurements != 1 || st.Hits != 1 {
		t.Errorf("stats = %+v, want 1 measurement and 1 hit", st)
	}
}

func TestMeasureFixedFont(t *testing.T) {
	p := NewProbe()
	b, ok := p.Measure(fonts.FixedFont(), 64, "Aj")
	if !ok {
		t.Fatal("fixed font should measure")
	}
	if b.Height() > 13 {
		t.Errorf("fixed font height = %d, want <= 13 regardless of size", b.Height())
	}
}

func TestWidthEstimate(t *testing.T) {
	p := NewProbe()
	if got := p.Width(fonts.Embedded(), 10, "   "); got != 18 {
		t.Errorf("Width(3 spaces @10) = %d, want 18", got)
	}
	if got := p.InkWidth(fonts.Embedded(), 10, "   "); got != 0 {
		t.Errorf("InkWidth(3 spaces) = %d, want 0", got)
	}
}

func TestLineHeightGrows(t *testing.T) {
	p := NewProbe()
	f := fonts.Embedded()
	prev := 0
	for size := MinSize; size <= MaxSize; size++ {
		h := p.LineHeight(f, size)
		if h < prev {
			t.Fatalf("line height shrank at size %d: %d < %d", size, h, prev)
		}
		prev = h
	}
}

func TestSizeForHeight(t *testing.T) {
	p := NewProbe()
	f := fonts.Embedded()
	dist := func(size, target int) int { return abs(p.LineHeight(f, size) - target) }

	for _, target := range []int{12, 18, 30, 57, 90, 110} {
		size := p.SizeForHeight(f, target)
		if size < MinSize || size > MaxSize {
			t.Fatalf("target %d: size %d out of bounds", target, size)
		}
		d := dist(size, target)
		if size > MinSize && dist(size-1, target) < d {
			t.Errorf("target %d: size %d (diff %d) beaten by %d (diff %d)", target, size, d, size-1, dist(size-1, target))
		}
		if size < MaxSize && dist(size+1, target) < d {
			t.Errorf("target %d: size %d (diff %d) beaten by %d (diff %d)", target, size, d, size+1, dist(size+1, target))
		}
	}
}

func TestSizeForHeightBounds(t *testing.T) {
	p := NewProbe()
	f := fonts.Embedded()

	if got := p.SizeForHeight(f, 0); got != MinSize {
		t.Errorf("tiny target = %d, want %d", got, MinSize)
	}
	if got := p.SizeForHeight(f, 10000); got != MaxSize {
		t.Errorf("huge target = %d, want %d", got, MaxSize)
	}
}
