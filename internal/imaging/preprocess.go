package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Binarize converts img to grayscale and thresholds it: pixels with
// luminance at or above threshold become white (255), everything else black.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	return segment.Threshold(imaging.Grayscale(img), threshold)
}

// Upscale enlarges img by an integer factor using Lanczos resampling.
// A scale of 1 or less returns a copy at the original size.
func Upscale(img image.Image, scale int) *image.NRGBA {
	b := img.Bounds()
	if scale <= 1 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.Lanczos)
}

// Preprocess prepares a cropped field for the classical OCR engine: grayscale,
// binarize at threshold, upscale by scale, and encode as PNG.
func Preprocess(region image.Image, threshold uint8, scale int) ([]byte, error) {
	if region.Bounds().Empty() {
		return nil, fmt.Errorf("preprocess: %w", ErrEmptyRegion)
	}

	binary := Binarize(region, threshold)
	scaled := Upscale(binary, scale)

	raster, err := EncodePNG(scaled)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	return raster, nil
}
