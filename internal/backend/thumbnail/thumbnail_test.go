package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func decodePNGSize(t *testing.T, data []byte) (int, int) {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result PNG: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestGenerate_ScalesDownPreservingAspect(t *testing.T) {
	input := encodeTestPNG(t, 400, 200)

	out, err := Generate(input, 100)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	width, height := decodePNGSize(t, out)
	if width != 100 {
		t.Errorf("width = %d; expected 100", width)
	}
	if height != 50 {
		t.Errorf("height = %d; expected 50 (aspect preserved)", height)
	}
}

func TestGenerate_DoesNotUpscale(t *testing.T) {
	input := encodeTestPNG(t, 40, 30)

	out, err := Generate(input, 320)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	width, height := decodePNGSize(t, out)
	if width != 40 || height != 30 {
		t.Errorf("got %dx%d; expected original 40x30", width, height)
	}
}

func TestGenerate_SVGInput(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="red"/></svg>`)

	out, err := Generate(svg, 200)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	width, height := decodePNGSize(t, out)
	if width != 200 {
		t.Errorf("width = %d; expected 200", width)
	}
	if height != 100 {
		t.Errorf("height = %d; expected 100 (view box aspect)", height)
	}
}

func TestGenerate_InvalidData(t *testing.T) {
	if _, err := Generate([]byte("not an image"), 100); err == nil {
		t.Fatalf("expected error for invalid image data")
	}
}

func TestGenerate_EmptyData(t *testing.T) {
	if _, err := Generate(nil, 100); err == nil {
		t.Fatalf("expected error for empty image data")
	}
}

func TestGenerate_InvalidWidth(t *testing.T) {
	input := encodeTestPNG(t, 10, 10)
	if _, err := Generate(input, 0); err == nil {
		t.Fatalf("expected error for non-positive width")
	}
}

func TestIsSVGData(t *testing.T) {
	if !isSVGData([]byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)) {
		t.Errorf("expected SVG detection for svg document")
	}
	if isSVGData(encodeTestPNG(t, 4, 4)) {
		t.Errorf("PNG misdetected as SVG")
	}
	if isSVGData(nil) {
		t.Errorf("nil misdetected as SVG")
	}
}
