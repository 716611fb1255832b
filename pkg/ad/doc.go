// Package ad defines the value types shared by every stage of creative
// generation: target formats, safe areas, anchor positions, overlay elements,
// and the generation request itself.
//
// # Overview
//
// A [Request] carries one source image, optional overlay content (logo, ad
// copy, call-to-action), and the list of [Format]s to produce. For each format
// the request is resolved into a set of [Element]s via [Request.Elements],
// which applies the per-format inclusion rules and the per-orientation
// [Position] choice.
//
// # Positions
//
// Anchor positions arrive as loosely-typed strings such as "top_center" or
// "left_middle". [ParsePosition] translates them once, at the input boundary,
// into a [Position] with explicit [HAnchor] and [VAnchor] fields. Everything
// downstream works with the typed value.
//
//	pos := ad.ParsePosition("bottom_right")
//	pos.H == ad.AnchorRight  // true
//	pos.V == ad.AnchorBottom // true
//
// The legacy alias "let_ai_choose" always resolves to bottom_center.
package ad
