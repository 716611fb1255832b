// Package text measures and flows single-direction Latin text.
//
// # Overview
//
// A [Probe] measures ink bounding boxes of strings rendered with a
// [fonts.Font] at integer pixel sizes, memoizing every measurement. It also
// finds the font size whose sample glyph height best matches a target
// ([Probe.SizeForHeight]).
//
// [WrapAndFit] builds on the probe: it greedily wraps words to a maximum
// width and shrinks the size one pixel at a time until every line fits or the
// minimum size is reached.
//
// # Concurrency
//
// A Probe owns font faces, which are not safe for concurrent use. Create one
// Probe per goroutine; results are deterministic, so separate probes always
// agree.
//
// [fonts.Font]: github.com/cyzmcl/Lunarian/pkg/fonts.Font
package text
