package io

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyzmcl/Lunarian/pkg/errors"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
	return img
}

func TestDataURLRoundTrip(t *testing.T) {
	url, err := DataURL(testImage())
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	if !strings.HasPrefix(url, PNGPrefix) {
		t.Fatalf("DataURL prefix = %q", url[:20])
	}

	img, err := DecodeImage(url)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", img.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{R: 200, G: 10, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestDecodeImageBareBase64(t *testing.T) {
	data, err := EncodePNG(testImage())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(base64.StdEncoding.EncodeToString(data)); err != nil {
		t.Errorf("bare base64: %v", err)
	}
}

func TestDecodeImageErrors(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"not base64": "data:image/png;base64,@@@",
		"not image":  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
		"too wide":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader(50000, 50000)),
		"too many":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader(16000, 16000)),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeImage(in)
			if !errors.Is(err, errors.ErrCodeInvalidImage) {
				t.Errorf("error = %v, want INVALID_IMAGE", err)
			}
		})
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring w×h with no
// pixel data behind it.
func pngHeader(w, h uint32) []byte {
	chunk := []byte("IHDR")
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 6, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, 13)
	out = append(out, chunk...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(chunk))
}

func TestDecodeBytesRejectsOversizedHeader(t *testing.T) {
	_, err := DecodeBytes(pngHeader(50000, 50000))
	if !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Fatalf("error = %v, want INVALID_IMAGE", err)
	}
	if !strings.Contains(err.Error(), "50000x50000") {
		t.Errorf("error = %q, want the declared size", err)
	}
}

func TestReadRequest(t *testing.T) {
	req, err := ReadRequest(strings.NewReader(`{
		"sourceImage": "abc",
		"includeCta": true,
		"ctaText": "Shop",
		"formats": [{"id": "story", "width": 1080, "height": 1920}]
	}`))
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if !req.IncludeCTA || req.CTAText != "Shop" || !req.CTAAppliesToAll {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.Formats) != 1 || req.Formats[0].Height != 1920 {
		t.Errorf("formats = %+v", req.Formats)
	}

	if _, err := ReadRequest(strings.NewReader("{")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed error = %v, want INVALID_INPUT", err)
	}
}

func TestFileDataURL(t *testing.T) {
	data, _ := EncodePNG(testImage())
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	url, err := FileDataURL(path)
	if err != nil {
		t.Fatalf("FileDataURL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("prefix = %q", url[:22])
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plan.json")
	if err := ExportJSON(map[string]int{"ops": 3}, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"ops": 3`) {
		t.Errorf("unexpected output %s", data)
	}
}
