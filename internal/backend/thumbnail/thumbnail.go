// Package thumbnail renders gallery listing thumbnails from stored uploads.
// Raster formats are decoded through the registered stdlib and x/image
// decoders; SVG input is rasterized before scaling.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Generate returns a PNG thumbnail of the given image data, scaled to the
// target width with aspect ratio preserved. Images narrower than the target
// are re-encoded without upscaling.
func Generate(imageData []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("thumbnail width must be positive, got %d", width)
	}
	if len(imageData) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	if isSVGData(imageData) {
		return renderSVG(imageData, width)
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	slog.Debug("thumbnail: decoded image",
		"format", format,
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", width)

	if originalWidth <= width {
		// Never upscale; normalize the format to PNG only.
		return encodePNG(img)
	}

	height := originalHeight * width / originalWidth
	if height < 1 {
		height = 1
	}

	scaled := scaleNearest(img, width, height)
	return encodePNG(scaled)
}

// scaleNearest performs nearest-neighbor scaling using precomputed source
// index maps and a parallel row loop.
func scaleNearest(src image.Image, width, height int) *image.RGBA {
	bounds := src.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	xMap := make([]int, width)
	yMap := make([]int, height)
	for x := 0; x < width; x++ {
		xMap[x] = x * originalWidth / width
		if xMap[x] >= originalWidth {
			xMap[x] = originalWidth - 1
		}
	}
	for y := 0; y < height; y++ {
		yMap[y] = y * originalHeight / height
		if yMap[y] >= originalHeight {
			yMap[y] = originalHeight - 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			dst.Set(x, y, src.At(bounds.Min.X+xMap[x], bounds.Min.Y+yMap[y]))
		}
	})
	return dst
}

// renderSVG rasterizes SVG data onto a white canvas of the target width,
// deriving the height from the SVG's own view box aspect ratio.
func renderSVG(svgData []byte, width int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	height := width
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		height = int(float64(width) * icon.ViewBox.H / icon.ViewBox.W)
	}
	if height < 1 {
		height = 1
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)

	return encodePNG(dst)
}

// isSVGData performs a lightweight detection of SVG content from raw bytes.
// It checks for an "<svg" tag or the SVG namespace in the initial portion of
// the data.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte(`xmlns="http://www.w3.org/2000/svg"`)) ||
		bytes.Contains(header, []byte(`xmlns='http://www.w3.org/2000/svg'`))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	bounds := img.Bounds()
	// Pre-grow buffer to reduce re-allocations; rough heuristic: 1 byte per pixel
	buf.Grow(bounds.Dx() * bounds.Dy())
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
