// Package render applies layout draw operations to a composed canvas.
//
// # Overview
//
// The layout package produces a [layout.Plan]: pure data describing where
// each logo, button and line of text goes. This package is the raster back
// end for those plans, built on gg:
//
//	canvas, _ := compose.Compose(src, f.Width, f.Height, box, plan.HeroArea, prominence)
//	img, err := render.Plan(canvas, plan, render.WithFonts(registry))
//
// Operations are applied in order onto a copy of the canvas:
//
//   - image: the logo is Lanczos-resized to the op's box and alpha-composited
//   - rect: the box is filled with the op's color
//   - text: the string is drawn with its baseline one ascent below the op's Y
//
// Text faces are created once per font and size for the duration of a call.
//
// [layout.Plan]: github.com/cyzmcl/Lunarian/pkg/layout.Plan
package render
