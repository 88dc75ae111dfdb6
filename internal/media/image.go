// Package media encodes uploaded featured images as self-contained data URIs.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

const (
	defaultContentType = "image/jpeg"
	jpegQuality        = 85
)

// Encoder turns image bytes into data URIs, shrinking raster images wider
// than MaxWidth. A MaxWidth of zero keeps images at their original size.
type Encoder struct {
	MaxWidth int
}

// NewEncoder returns an Encoder with the given width limit.
func NewEncoder(maxWidth int) *Encoder {
	return &Encoder{MaxWidth: maxWidth}
}

// DataURI encodes data with its declared content type. Empty input yields "".
// Images that cannot be decoded (SVG, WebP) are embedded as-is.
func (e *Encoder) DataURI(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	contentType = normalizeType(contentType)

	if e.MaxWidth > 0 {
		resized, ok, err := e.shrink(data)
		if err != nil {
			return "", err
		}
		if ok {
			data = resized
			contentType = "image/jpeg"
		}
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// shrink re-encodes data as JPEG when it decodes to an image wider than
// MaxWidth. ok is false when the original bytes should be kept.
func (e *Encoder) shrink(data []byte) ([]byte, bool, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= e.MaxWidth {
		return nil, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * e.MaxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, e.MaxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), true, nil
}

func normalizeType(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		return defaultContentType
	}
	return strings.ToLower(ct)
}
