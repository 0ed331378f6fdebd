package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a crop rectangle does not overlap the image.
var ErrEmptyRegion = errors.New("region does not overlap image")

// CropRegion copies the part of img inside rect. The rectangle is clamped to
// the image bounds, so a region that hangs off the edge of a smaller
// screenshot still yields its visible part. The result is a private copy with
// its origin at (0,0).
func CropRegion(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	clipped := rect.Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("%w: %v outside %v", ErrEmptyRegion, rect, bounds)
	}
	return imaging.Crop(img, clipped), nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRaster decodes bytes produced by EncodePNG (or any registered format).
func DecodeRaster(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}
	return img, nil
}
