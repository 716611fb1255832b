package text

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cyzmcl/Lunarian/pkg/fonts"
)

func TestWrapAndFitRoundTrip(t *testing.T) {
	texts := []string{
		"Spring collection now in stores",
		"  Fresh   picks\tfor every   season  ",
		"One",
		"A much longer piece of advertising copy that needs several lines to fit inside a narrow column",
	}
	widths := []int{80, 200, 600}

	for _, s := range texts {
		for _, w := range widths {
			p := NewProbe()
			b := WrapAndFit(p, fonts.Embedded(), s, w, 40, MinSize)
			got := strings.Join(b.Lines, " ")
			want := strings.Join(strings.Fields(s), " ")
			if got != want {
				t.Errorf("width %d: lines %q do not reproduce %q", w, b.Lines, want)
			}
		}
	}
}

func TestWrapAndFitFits(t *testing.T) {
	p := NewProbe()
	f := fonts.Embedded()
	b := WrapAndFit(p, f, "Summer savings on every single item", 300, 64, MinSize)

	if !b.Fits {
		t.Fatalf("expected text to fit at some size, got %+v", b)
	}
	for _, l := range b.Lines {
		if w := p.InkWidth(f, b.Size, l); w > 300 {
			t.Errorf("line %q is %dpx wide, limit 300", l, w)
		}
	}
	if b.Width > 300 {
		t.Errorf("block width %d exceeds limit", b.Width)
	}
}

func TestWrapAndFitShrinksToMinimum(t *testing.T) {
	p := NewProbe()
	b := WrapAndFit(p, fonts.Embedded(), "Unbreakablewordthatcannotpossiblyfit", 20, 40, MinSize)

	if b.Size != MinSize {
		t.Errorf("size = %d, want %d", b.Size, MinSize)
	}
	if b.Fits {
		t.Error("Fits should be false when the minimum size still overflows")
	}
	if len(b.Lines) != 1 {
		t.Errorf("lines = %q, want a single line", b.Lines)
	}
}

func TestWrapAndFitStartBelowMinimum(t *testing.T) {
	p := NewProbe()
	b := WrapAndFit(p, fonts.Embedded(), "Tiny", 500, 6, MinSize)
	if b.Size != 6 {
		t.Errorf("size = %d, want the start size 6 accepted as is", b.Size)
	}
}

func TestWrapAndFitTruncation(t *testing.T) {
	p := NewProbe()
	b := WrapAndFit(p, fonts.Embedded(), strings.Repeat(" ", 50), 60, 10, MinSize)

	if !b.Truncated {
		t.Error("whitespace-only text should take the truncation path")
	}
	if len(b.Lines) != 1 {
		t.Fatalf("lines = %q, want one", b.Lines)
	}
	if got := len(b.Lines[0]); got != 10 {
		t.Errorf("truncated to %d chars, want 10 (60 / (10*0.6))", got)
	}
}

func TestWrapAndFitEmpty(t *testing.T) {
	b := WrapAndFit(NewProbe(), fonts.Embedded(), "", 100, 20, MinSize)
	if len(b.Lines) != 0 || b.Height != 0 || b.Width != 0 {
		t.Errorf("empty text = %+v, want no lines and zero size", b)
	}
}

func TestWrapAndFitBlockHeight(t *testing.T) {
	b := WrapAndFit(NewProbe(), fonts.Embedded(), "one two three four five six", 90, 30, MinSize)
	n := len(b.Lines)
	if n < 2 {
		t.Fatalf("expected several lines, got %q", b.Lines)
	}
	want := n*b.LineHeight + (n-1)*b.LineSpacing
	if b.Height != want {
		t.Errorf("height = %d, want %d", b.Height, want)
	}
	if b.LineOffset(n-1)+b.LineHeight != b.Height {
		t.Errorf("last line bottom %d != height %d", b.LineOffset(n-1)+b.LineHeight, b.Height)
	}
}

func TestWrapAndFitDeterministic(t *testing.T) {
	s := "Deterministic layout across independent probes"
	a := WrapAndFit(NewProbe(), fonts.Embedded(), s, 150, 48, MinSize)
	b := WrapAndFit(NewProbe(), fonts.Embedded(), s, 150, 48, MinSize)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("runs differ:\n%+v\n%+v", a, b)
	}
}
