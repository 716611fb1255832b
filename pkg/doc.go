// Package pkg holds the libraries behind Lunarian, a hero-aware ad layout
// and composition engine.
//
// # Overview
//
// Lunarian turns one source image plus an optional logo, ad copy and call
// to action into a PNG per requested ad format. The subject of the photo
// (the hero) stays in frame and every overlay stays inside the format's
// safe area.
//
// The packages are layered:
//
//  1. [ad] - Request, format, position and overlay types
//  2. [hero] - Hero location: seed boxes, remote detection, caching
//  3. [compose] - Crop and scale the source around the hero
//  4. [text], [fonts] - Font loading, measurement and line flow
//  5. [layout] - Group overlays and place them into a plan
//  6. [render] - Draw a plan onto a composed canvas
//  7. [pipeline] - Orchestration shared by the CLI and the HTTP server
//
// Supporting packages provide caching ([cache]), configuration ([config]),
// generation history ([history]), error codes ([errors]), HTTP retries
// ([httputil]), hooks ([observability]) and image I/O ([io]).
//
// # Architecture
//
//	request JSON / CLI flags
//	         ↓
//	    [io] decode images
//	         ↓
//	    [hero] locate once
//	         ↓  (per format, concurrently)
//	    [compose] → [layout] → [render]
//	         ↓
//	    PNG / data URL
package pkg
