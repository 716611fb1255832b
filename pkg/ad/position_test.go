package ad

import "testing"

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"top_center", Position{AnchorCenter, AnchorTop}},
		{"bottom_right", Position{AnchorRight, AnchorBottom}},
		{"left_middle", Position{AnchorLeft, AnchorMiddle}},
		{"top_left", Position{AnchorLeft, AnchorTop}},
		{"let_ai_choose", BottomCenter},
		{"center", Position{AnchorCenter, VAnchorNone}},
		{"somewhere", Position{}},
		{"", Position{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParsePosition(tt.in); got != tt.want {
				t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPositionStringRoundTrip(t *testing.T) {
	for h := HAnchorNone; h <= AnchorRight; h++ {
		for v := VAnchorNone; v <= AnchorBottom; v++ {
			p := Position{H: h, V: v}
			if got := ParsePosition(p.String()); got != p {
				t.Errorf("ParsePosition(%q) = %+v, want %+v", p.String(), got, p)
			}
		}
	}
}

func TestPositionEdges(t *testing.T) {
	tests := []struct {
		key  string
		want Edge
	}{
		{"top_center", EdgeTop},
		{"bottom_center", EdgeBottom},
		{"left_middle", EdgeLeft},
		{"right_middle", EdgeRight},
		{"top_left", EdgeTop | EdgeLeft},
		{"bottom_right", EdgeBottom | EdgeRight},
		{"center_middle", 0},
		{"nowhere", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ParsePosition(tt.key).Edges(); got != tt.want {
				t.Errorf("Edges() = %04b, want %04b", got, tt.want)
			}
		})
	}
}

func TestPositionAnchor(t *testing.T) {
	zone := Rect{X: 10, Y: 20, W: 100, H: 200}

	tests := []struct {
		key  string
		x, y int
	}{
		{"top_left", 10, 20},
		{"top_center", 40, 20},
		{"top_right", 70, 20},
		{"left_middle", 10, 95},
		{"bottom_center", 40, 170},
		{"bottom_right", 70, 170},
		{"unknown", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			x, y := ParsePosition(tt.key).Anchor(zone, 40, 50)
			if x != tt.x || y != tt.y {
				t.Errorf("Anchor() = (%d,%d), want (%d,%d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestPositionAnchorOversized(t *testing.T) {
	zone := Rect{X: 0, Y: 0, W: 10, H: 10}
	_, y := Position{V: AnchorMiddle}.Anchor(zone, 0, 13)
	if y != -2 {
		t.Errorf("middle anchor of oversized block = %d, want -2", y)
	}
}
