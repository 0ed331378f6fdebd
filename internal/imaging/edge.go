package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Default Canny thresholds on the 0-255 gradient scale.
const (
	DefaultEdgeLow  = 50
	DefaultEdgeHigh = 150
	edgeBlurRadius  = 1.4
	edgeOn          = 255
)

// EdgeMap runs Canny-style edge detection and returns a binary map where
// edge pixels are 255 and everything else is 0. The map has its origin at
// (0,0) and the same size as img.
//
// # Algorithm
//
//  1. Grayscale conversion
//  2. Gaussian blur (sigma 1.4) to suppress compression and sensor noise
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: magnitudes >= high are edges; magnitudes >= low are edges
//     only when an 8-neighbour is a strong edge
func EdgeMap(img image.Image, low, high int) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out
	}

	blurred := blur.Gaussian(imaging.Grayscale(img), edgeBlurRadius)
	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Input is already gray, so any channel is the luminance.
			lum[y*width+x] = float64(blurred.Pix[blurred.PixOffset(x, y)]) / 255.0
		}
	}

	magnitude, direction := sobel(lum, width, height)
	suppressed := nonMaxSuppress(magnitude, direction, width, height)

	lowThresh := float64(low) / 255.0
	highThresh := float64(high) / 255.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			switch {
			case val >= highThresh:
				out.SetGray(x, y, color.Gray{Y: edgeOn})
			case val >= lowThresh && hasStrongNeighbor(suppressed, x, y, width, height, highThresh):
				out.SetGray(x, y, color.Gray{Y: edgeOn})
			}
		}
	}
	return out
}

// sobel computes gradient magnitude and direction with replicated borders.
func sobel(lum []float64, width, height int) (magnitude, direction []float64) {
	kx := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	ky := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	magnitude = make([]float64, width*height)
	direction = make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := lum[clamp(y+dy, 0, height-1)*width+clamp(x+dx, 0, width-1)]
					gx += v * kx[dy+1][dx+1]
					gy += v * ky[dy+1][dx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// nonMaxSuppress keeps only local maxima along the gradient direction. Border
// pixels are always suppressed.
func nonMaxSuppress(magnitude, direction []float64, width, height int) []float64 {
	out := make([]float64, width*height)
	at := func(x, y int) float64 { return magnitude[y*width+x] }

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			mag := at(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = at(x-1, y), at(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = at(x+1, y-1), at(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = at(x, y-1), at(x, y+1)
			default:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				out[y*width+x] = mag
			}
		}
	}
	return out
}

func hasStrongNeighbor(suppressed []float64, x, y, width, height int, high float64) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if suppressed[clamp(y+dy, 0, height-1)*width+clamp(x+dx, 0, width-1)] >= high {
				return true
			}
		}
	}
	return false
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
