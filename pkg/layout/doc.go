// Package layout sizes overlay elements and places them on an ad canvas.
//
// # Overview
//
// Layout runs in two passes over the same grouping: every enabled element
// is grouped with the others that share its [ad.Position].
//
//   - [Planner.Reserve] sizes each group and sums the footprints of the
//     groups hugging each canvas edge. The remaining safe area is the hero
//     area handed to the compositor.
//   - [Planner.Place] sizes the elements again with the same formulas,
//     orders each group's stack, anchors the group inside the safe area and
//     emits draw operations.
//
// Both passes share a [text.Probe], so the second pass is served from the
// probe's memo and always agrees with the first.
//
// # Reference scale
//
// Each format has one reference scale: the short side of the logo box, or a
// fallback derived from the safe area when no logo is shown. CTA height and
// the copy's target line height follow it so that logo, copy and button
// keep their proportions regardless of which are present.
//
// # Draw operations
//
// A [Plan] is pure data. Text operations carry the top-left corner of the
// line's layout box (the ascent line), a font name and a pixel size; the
// render package converts that to a baseline.
package layout
