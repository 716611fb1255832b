// Package io reads generation requests and moves images across the wire.
//
// # Overview
//
// Clients send images as data URLs ("data:image/png;base64,...") or as bare
// base64 payloads. [DecodeImage] accepts both and decodes PNG, JPEG, GIF,
// WebP and BMP into an NRGBA buffer. [DataURL] and [EncodePNG] go the other
// way for results.
//
// [ReadRequest] and [ImportRequest] decode the JSON request document shared
// by the HTTP API and the CLI:
//
//	{
//	  "sourceImage": "data:image/jpeg;base64,...",
//	  "includeCta": true,
//	  "ctaText": "Shop now",
//	  "formats": [{"id": "story", "width": 1080, "height": 1920}]
//	}
//
// [WriteJSON] and [ExportJSON] write any value (typically a render plan) as
// indented JSON.
package io
