package detection

import (
	"image"

	"go.uber.org/zap"

	hud "github.com/ironsheep/zwift-ocr/internal/imaging"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// PoseFeatures describes the silhouette found in an avatar edge map.
type PoseFeatures struct {
	// AspectRatio is bounding-box height over width, each side at least 1px.
	AspectRatio float64 `json:"aspect_ratio"`

	// CenterOfMass is the mean edge row divided by the image height, in
	// [0, 1]. It is 0.5 when there are no edges.
	CenterOfMass float64 `json:"center_of_mass"`

	// UpperDensity and LowerDensity are the edge fractions of each half.
	UpperDensity float64 `json:"upper_density"`
	LowerDensity float64 `json:"lower_density"`

	// Symmetry is 1 minus the fraction of left/right mirrored pixel pairs
	// that disagree.
	Symmetry float64 `json:"symmetry"`

	// EdgePixels is the number of edge pixels found.
	EdgePixels int `json:"edge_pixels"`
}

// ComputeFeatures measures a binary edge map as produced by imaging.EdgeMap.
// Any non-zero pixel is an edge. A nil or empty map yields the defaults.
func ComputeFeatures(edges *image.Gray) PoseFeatures {
	f := PoseFeatures{AspectRatio: 1, CenterOfMass: 0.5, Symmetry: 1}
	if edges == nil {
		return f
	}
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return f
	}

	on := func(x, y int) bool {
		return edges.Pix[edges.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0
	}

	minX, minY, maxX, maxY := w, h, -1, -1
	var count, rowSum, upper, lower int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !on(x, y) {
				continue
			}
			count++
			rowSum += y
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
			if y < h/2 {
				upper++
			} else {
				lower++
			}
		}
	}
	f.EdgePixels = count
	if count == 0 {
		return f
	}

	boxW := max(1, maxX-minX+1)
	boxH := max(1, maxY-minY+1)
	f.AspectRatio = float64(boxH) / float64(boxW)
	f.CenterOfMass = float64(rowSum) / float64(count) / float64(h)

	if upperPixels := (h / 2) * w; upperPixels > 0 {
		f.UpperDensity = float64(upper) / float64(upperPixels)
	}
	if lowerPixels := (h - h/2) * w; lowerPixels > 0 {
		f.LowerDensity = float64(lower) / float64(lowerPixels)
	}

	pairs, disagree := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			pairs++
			if on(x, y) != on(w-1-x, y) {
				disagree++
			}
		}
	}
	if pairs > 0 {
		f.Symmetry = 1 - float64(disagree)/float64(pairs)
	}
	return f
}

// poseRule matches a pose when both features fall in closed ranges.
type poseRule struct {
	pose                 telemetry.RiderPose
	minAspect, maxAspect float64
	minCOM, maxCOM       float64
}

func (r poseRule) matches(f PoseFeatures) bool {
	return f.AspectRatio >= r.minAspect && f.AspectRatio <= r.maxAspect &&
		f.CenterOfMass >= r.minCOM && f.CenterOfMass <= r.maxCOM
}

const unbounded = 1e9

// poseRules are evaluated in order; the first match wins.
var poseRules = []poseRule{
	{pose: telemetry.PoseStandingClimb, minAspect: 1.7, maxAspect: unbounded, minCOM: 0, maxCOM: 0.45},
	{pose: telemetry.PoseTucked, minAspect: 0, maxAspect: 1.2, minCOM: 0.55, maxCOM: 1},
	{pose: telemetry.PoseSeatedClimb, minAspect: 1.4, maxAspect: 1.7, minCOM: 0.45, maxCOM: 0.55},
	{pose: telemetry.PoseUpright, minAspect: 1.2, maxAspect: 1.5, minCOM: 0.4, maxCOM: 0.6},
}

// Classify maps features to a pose. Only aspect ratio and center of mass
// take part; density and symmetry are diagnostic.
func Classify(f PoseFeatures) telemetry.RiderPose {
	for _, r := range poseRules {
		if r.matches(f) {
			return r.pose
		}
	}
	return telemetry.PoseUnknown
}

// ClassifyAvatar runs edge detection over a cropped avatar image and
// classifies it. It never fails; a blank crop yields PoseUnknown.
func ClassifyAvatar(avatar image.Image, log *zap.Logger) (telemetry.RiderPose, PoseFeatures) {
	edges := hud.EdgeMap(avatar, hud.DefaultEdgeLow, hud.DefaultEdgeHigh)
	f := ComputeFeatures(edges)
	pose := Classify(f)

	if log != nil {
		log.Debug("pose features",
			zap.Float64("aspect_ratio", f.AspectRatio),
			zap.Float64("center_of_mass", f.CenterOfMass),
			zap.Float64("upper_density", f.UpperDensity),
			zap.Float64("lower_density", f.LowerDensity),
			zap.Float64("symmetry", f.Symmetry),
			zap.Int("edge_pixels", f.EdgePixels),
			zap.Stringer("pose", pose),
		)
	}
	return pose, f
}
