package ad

import "strings"

// HAnchor is the horizontal part of a position.
type HAnchor uint8

const (
	HAnchorNone HAnchor = iota
	AnchorLeft
	AnchorCenter
	AnchorRight
)

// VAnchor is the vertical part of a position.
type VAnchor uint8

const (
	VAnchorNone VAnchor = iota
	AnchorTop
	AnchorMiddle
	AnchorBottom
)

// Edge is a bit set of canvas sides.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Has reports whether e contains every edge in o.
func (e Edge) Has(o Edge) bool { return e&o == o }

// LegacyAutoPosition is accepted as input and always means bottom_center.
const LegacyAutoPosition = "let_ai_choose"

// Position is an anchor within a zone. The zero value anchors at the zone's
// top-left corner and occupies no edge.
type Position struct {
	H HAnchor
	V VAnchor
}

// Common positions.
var (
	TopCenter    = Position{H: AnchorCenter, V: AnchorTop}
	BottomCenter = Position{H: AnchorCenter, V: AnchorBottom}
	LeftMiddle   = Position{H: AnchorLeft, V: AnchorMiddle}
	RightMiddle  = Position{H: AnchorRight, V: AnchorMiddle}
)

// ParsePosition translates a position key such as "top_center" by token
// containment. Left beats right beats center, top beats bottom beats middle.
// Unrecognized input yields the zero Position.
func ParsePosition(s string) Position {
	if s == LegacyAutoPosition {
		return BottomCenter
	}
	var p Position
	switch {
	case strings.Contains(s, "left"):
		p.H = AnchorLeft
	case strings.Contains(s, "right"):
		p.H = AnchorRight
	case strings.Contains(s, "center"):
		p.H = AnchorCenter
	}
	switch {
	case strings.Contains(s, "top"):
		p.V = AnchorTop
	case strings.Contains(s, "bottom"):
		p.V = AnchorBottom
	case strings.Contains(s, "middle"):
		p.V = AnchorMiddle
	}
	return p
}

var (
	hNames = [...]string{"", "left", "center", "right"}
	vNames = [...]string{"", "top", "middle", "bottom"}
)

// String returns the canonical key: vertical first ("bottom_right"), except
// middle which trails ("left_middle"). ParsePosition(p.String()) == p.
func (p Position) String() string {
	h, v := hNames[p.H], vNames[p.V]
	switch {
	case h == "" && v == "":
		return "none"
	case h == "":
		return v
	case v == "":
		return h
	case p.V == AnchorMiddle:
		return h + "_" + v
	default:
		return v + "_" + h
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	*p = ParsePosition(string(b))
	return nil
}

// Edges returns the canvas sides a group anchored at p occupies.
// Center and middle anchors occupy nothing on their axis.
func (p Position) Edges() Edge {
	var e Edge
	switch p.V {
	case AnchorTop:
		e |= EdgeTop
	case AnchorBottom:
		e |= EdgeBottom
	}
	switch p.H {
	case AnchorLeft:
		e |= EdgeLeft
	case AnchorRight:
		e |= EdgeRight
	}
	return e
}

// Side reports whether p hugs the left or right edge.
func (p Position) Side() bool { return p.H == AnchorLeft || p.H == AnchorRight }

// Anchor returns the top-left origin for a w×h block placed at p in zone.
func (p Position) Anchor(zone Rect, w, h int) (x, y int) {
	x, y = zone.X, zone.Y
	switch p.H {
	case AnchorRight:
		x = zone.X + zone.W - w
	case AnchorCenter:
		x = zone.X + floorDiv(zone.W-w, 2)
	}
	switch p.V {
	case AnchorBottom:
		y = zone.Y + zone.H - h
	case AnchorMiddle:
		y = zone.Y + floorDiv(zone.H-h, 2)
	}
	return x, y
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
