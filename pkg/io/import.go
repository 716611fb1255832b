package io

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/errors"
)

// ReadRequest decodes a JSON generation request from r. Defaults are applied
// for omitted fields. ReadRequest does not validate the request and does not
// close r.
func ReadRequest(r io.Reader) (ad.Request, error) {
	var req ad.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return ad.Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return req, nil
}

// ImportRequest reads a JSON generation request from a file.
func ImportRequest(path string) (ad.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return ad.Request{}, err
	}
	defer f.Close()
	return ReadRequest(f)
}

// DecodeImage decodes a data URL or bare base64 payload into an NRGBA image.
func DecodeImage(s string) (*image.NRGBA, error) {
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidImage, "missing image data")
	}
	payload := s
	if i := strings.IndexByte(s, ','); i >= 0 {
		payload = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "invalid image data")
	}
	return DecodeBytes(data)
}

// Decode limits, checked against the image header before any pixels are
// allocated.
const (
	MaxImageSide   = 16384
	MaxImagePixels = 64 << 20
)

// DecodeBytes decodes raw image bytes into an NRGBA image. Images larger than
// [MaxImageSide] on either side or [MaxImagePixels] in total are rejected.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "invalid image data")
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide || cfg.Width*cfg.Height > MaxImagePixels {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image %dx%d exceeds decode limits", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "invalid image data")
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has no pixels")
	}
	return imaging.Clone(img), nil
}

// ReadImageFile decodes an image file.
func ReadImageFile(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FileDataURL reads an image file and returns it as a data URL without
// re-encoding.
func FileDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if _, err := DecodeBytes(data); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
