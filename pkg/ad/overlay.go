package ad

import (
	"image"
	"image/color"
	"slices"
)

// Kind identifies an overlay element. The numeric order is the default
// stacking order within a group.
type Kind int

const (
	KindLogo Kind = iota
	KindCopy
	KindCTA
)

func (k Kind) String() string {
	switch k {
	case KindLogo:
		return "logo"
	case KindCopy:
		return "copy"
	case KindCTA:
		return "cta"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Selection decides which formats an overlay appears on.
type Selection struct {
	AppliesToAll bool
	Formats      []string
}

// Includes reports whether the format with the given id is selected.
func (s Selection) Includes(id string) bool {
	return s.AppliesToAll || slices.Contains(s.Formats, id)
}

// Element is an overlay resolved for a single format.
type Element struct {
	Kind     Kind
	Position Position

	// Logo is set for KindLogo.
	Logo image.Image

	// Text is the copy or call-to-action label.
	Text string

	// Font is the requested family for copy and call-to-action text.
	Font string

	// Color is the copy color or the call-to-action label color.
	Color color.NRGBA

	// Background fills the call-to-action button.
	Background color.NRGBA
}
