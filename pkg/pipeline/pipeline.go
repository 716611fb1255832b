// Package pipeline turns a creative request into one PNG per target format.
//
// This package implements the decode → locate → compose → lay out → draw
// pipeline shared by the CLI and the HTTP server, so both entry points
// produce identical output for identical input.
//
// # Architecture
//
// A request runs in two phases:
//
//  1. Prepare: decode the source and logo images, validate formats and
//     colors, and locate the hero subject once.
//  2. Fan out: every format is composed, laid out and drawn on its own
//     worker, bounded by [Runner.Workers].
//
// Failures in one format are recorded in that format's [FormatResult] and
// never discard sibling formats. Decode and validation failures fail the
// whole request.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Fonts = fonts.NewRegistry(dir)
//	result, err := runner.Execute(ctx, pipeline.Options{Request: req})
//	if err != nil {
//	    return err
//	}
//	for id, png := range result.Artifacts() {
//	    os.WriteFile(id+".png", png, 0o644)
//	}
package pipeline

import (
	"time"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/compose"
	"github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/hero"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWorkers bounds concurrent formats per request.
	DefaultWorkers = 4

	// DefaultArtifactTTL is how long rendered PNGs stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options configures one Execute call.
type Options struct {
	Request ad.Request

	// RequestID correlates logs, hooks and history. Generated when empty.
	RequestID string

	// Refresh skips artifact cache lookups. Results are still stored.
	Refresh bool
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of one request.
type Result struct {
	RequestID string

	// Hero is the box used for every format, or nil for cover crops.
	Hero *hero.BBox

	// Formats holds one entry per requested format, in request order.
	Formats []FormatResult

	Duration time.Duration
}

// FormatResult is the outcome of a single format.
type FormatResult struct {
	Format ad.Format

	// PNG is the encoded creative. Nil when Err is set.
	PNG []byte

	// Plan is the layout used. It is computed even for cache hits.
	Plan *layout.Plan

	// Placement is zero for cache hits.
	Placement compose.Placement

	Cached   bool
	Duration time.Duration
	Err      error
}

// OK reports whether the format rendered.
func (f FormatResult) OK() bool { return f.Err == nil && f.PNG != nil }

// Artifacts returns the successful PNGs keyed by format id.
func (r *Result) Artifacts() map[string][]byte {
	out := make(map[string][]byte, len(r.Formats))
	for _, f := range r.Formats {
		if f.OK() {
			out[f.Format.ID] = f.PNG
		}
	}
	return out
}

// DataURLs returns the successful PNGs as data URLs keyed by format id.
func (r *Result) DataURLs() map[string]string {
	out := make(map[string]string, len(r.Formats))
	for _, f := range r.Formats {
		if f.OK() {
			out[f.Format.ID] = lio.PNGDataURL(f.PNG)
		}
	}
	return out
}

// Errors returns user-facing failure messages keyed by format id.
func (r *Result) Errors() map[string]string {
	out := make(map[string]string)
	for _, f := range r.Formats {
		if f.Err != nil {
			out[f.Format.ID] = errors.UserMessage(f.Err)
		}
	}
	return out
}

// Plans returns the layout plans keyed by format id.
func (r *Result) Plans() map[string]*layout.Plan {
	out := make(map[string]*layout.Plan, len(r.Formats))
	for _, f := range r.Formats {
		if f.Plan != nil {
			out[f.Format.ID] = f.Plan
		}
	}
	return out
}

// Counts returns the number of successful and failed formats.
func (r *Result) Counts() (succeeded, failed int) {
	for _, f := range r.Formats {
		if f.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
