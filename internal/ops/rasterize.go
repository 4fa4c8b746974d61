package ops

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// cssDPI is the resolution at which SVG user units map 1:1 to pixels.
	cssDPI = 96.0

	// DefaultDPI is used when a template asks for rasterize(svg) without a dpi.
	DefaultDPI = 300

	maxRasterSide = 16384
)

// Rasterize renders svg to PNG at dpi.
func Rasterize(svg []byte, dpi float64) ([]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi must be positive, got %v", ErrRasterize, dpi)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrRasterize, ErrMalformedSVG, err)
	}

	scale := dpi / cssDPI
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty viewBox", ErrRasterize)
	}
	if w > maxRasterSide || h > maxRasterSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrRasterize, w, h, maxRasterSide)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	return buf.Bytes(), nil
}
