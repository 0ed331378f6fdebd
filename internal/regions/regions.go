// Package regions resolves where each telemetry field lives on screen.
//
// A region set is keyed by field name and expressed in source-image pixel
// coordinates. Sets come from versioned JSON files named after the screen
// resolution ("1920x1080_v1.67.json"), with compiled-in rectangles as the
// fallback when no file matches.
package regions

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/samber/lo"
)

// Field names used as region keys in configuration files.
const (
	Speed            = "speed"
	Distance         = "distance"
	Altitude         = "altitude"
	RaceTime         = "race_time"
	Power            = "power"
	Cadence          = "cadence"
	HeartRate        = "heart_rate"
	Gradient         = "gradient"
	DistanceToFinish = "distance_to_finish"
	Leaderboard      = "leaderboard"
	RiderPoseAvatar  = "rider_pose_avatar"
)

// BaseWidth and BaseHeight are the resolution the default rectangles were
// measured at.
const (
	BaseWidth  = 1920
	BaseHeight = 1080
)

// Region is a rectangle in source-image pixels.
type Region struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Note   string `json:"note,omitempty"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Scale returns the region scaled by independent x and y factors.
// Width and height never drop below one pixel.
func (r Region) Scale(sx, sy float64) Region {
	return Region{
		X:      int(math.Round(float64(r.X) * sx)),
		Y:      int(math.Round(float64(r.Y) * sy)),
		Width:  max(1, int(math.Round(float64(r.Width)*sx))),
		Height: max(1, int(math.Round(float64(r.Height)*sy))),
		Note:   r.Note,
	}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Set maps field names to regions.
type Set map[string]Region

// Names returns the field names in sorted order.
func (s Set) Names() []string {
	names := lo.Keys(s)
	sort.Strings(names)
	return names
}

// defaultRegions were measured on 1920x1080 screenshots.
var defaultRegions = Set{
	Speed:            {X: 693, Y: 44, Width: 71, Height: 61},
	Distance:         {X: 833, Y: 44, Width: 84, Height: 55},
	Altitude:         {X: 975, Y: 45, Width: 75, Height: 50},
	RaceTime:         {X: 1070, Y: 45, Width: 134, Height: 49},
	Power:            {X: 268, Y: 49, Width: 117, Height: 61},
	Cadence:          {X: 240, Y: 135, Width: 45, Height: 31},
	HeartRate:        {X: 341, Y: 129, Width: 69, Height: 38},
	Gradient:         {X: 1695, Y: 71, Width: 50, Height: 50},
	DistanceToFinish: {X: 1143, Y: 138, Width: 50, Height: 27},
	Leaderboard:      {X: 1500, Y: 200, Width: 420, Height: 600},
	RiderPoseAvatar:  {X: 860, Y: 400, Width: 200, Height: 300},
}

// Defaults returns the compiled-in regions for the given resolution. The
// 1920x1080 layout is scaled proportionally to other sizes.
func Defaults(width, height int) Set {
	sx := float64(width) / BaseWidth
	sy := float64(height) / BaseHeight

	out := make(Set, len(defaultRegions))
	for name, r := range defaultRegions {
		if width == BaseWidth && height == BaseHeight {
			out[name] = r
			continue
		}
		out[name] = r.Scale(sx, sy)
	}
	return out
}

// FieldNames lists every field the extractor knows about, in sorted order.
func FieldNames() []string {
	return defaultRegions.Names()
}

// ResolutionKey formats a resolution the way configuration files are named.
func ResolutionKey(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}
