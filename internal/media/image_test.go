package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func decodeURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		t.Fatalf("not a data URI: %.40s", uri)
	}
	ct, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		t.Fatalf("missing base64 marker: %.40s", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("bad base64: %v", err)
	}
	return ct, raw
}

func TestDataURI_Empty(t *testing.T) {
	uri, err := NewEncoder(100).DataURI(nil, "image/png")
	if err != nil || uri != "" {
		t.Errorf("expected empty result, got %q, %v", uri, err)
	}
}

func TestDataURI_SmallImageKept(t *testing.T) {
	data := pngBytes(t, 40, 20)
	uri, err := NewEncoder(100).DataURI(data, "image/png")
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	ct, raw := decodeURI(t, uri)
	if ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.Equal(raw, data) {
		t.Error("small image should be embedded unchanged")
	}
}

func TestDataURI_WideImageResized(t *testing.T) {
	uri, err := NewEncoder(100).DataURI(pngBytes(t, 400, 200), "image/png")
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	ct, raw := decodeURI(t, uri)
	if ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode resized: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("resized to %dx%d, want 100x50", cfg.Width, cfg.Height)
	}
}

func TestDataURI_UndecodableKeptWithType(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	uri, err := NewEncoder(100).DataURI(svg, "image/svg+xml")
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	ct, raw := decodeURI(t, uri)
	if ct != "image/svg+xml" || !bytes.Equal(raw, svg) {
		t.Errorf("got %q with %q", ct, raw)
	}
}

func TestDataURI_DefaultType(t *testing.T) {
	uri, _ := NewEncoder(0).DataURI([]byte("abc"), "")
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("unexpected prefix: %q", uri)
	}
	uri, _ = NewEncoder(0).DataURI([]byte("abc"), "application/octet-stream")
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("octet-stream should map to jpeg: %q", uri)
	}
}
