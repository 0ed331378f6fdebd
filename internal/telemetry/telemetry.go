// Package telemetry defines the record produced by one screenshot extraction.
//
// Every scalar is a pointer: nil means the field was not recognized, which is
// different from a recognized zero. A TelemetryData value is built once per
// extraction call and never modified afterwards.
package telemetry

import (
	"encoding/json"
	"fmt"
)

// TelemetryData is the structured result of reading one HUD screenshot.
type TelemetryData struct {
	Speed            *uint32            `json:"speed,omitempty"`
	Distance         *float64           `json:"distance,omitempty"`
	Altitude         *int32             `json:"altitude,omitempty"`
	RaceTime         *string            `json:"race_time,omitempty"`
	Power            *uint32            `json:"power,omitempty"`
	Cadence          *uint32            `json:"cadence,omitempty"`
	HeartRate        *uint32            `json:"heart_rate,omitempty"`
	Gradient         *float64           `json:"gradient,omitempty"`
	DistanceToFinish *float64           `json:"distance_to_finish,omitempty"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard,omitempty"`
	RiderPose        *RiderPose         `json:"rider_pose,omitempty"`
}

// LeaderboardEntry is one row of the in-game leaderboard.
type LeaderboardEntry struct {
	Name    string   `json:"name"`
	Current bool     `json:"current"`
	Delta   *string  `json:"delta,omitempty"`
	Km      *float64 `json:"km,omitempty"`
	Wkg     *float64 `json:"wkg,omitempty"`
}

// RiderPose is the rider's body position inferred from the avatar silhouette.
type RiderPose int

const (
	PoseUnknown RiderPose = iota
	PoseTucked
	PoseUpright
	PoseSeatedClimb
	PoseStandingClimb
)

var poseNames = map[RiderPose]string{
	PoseUnknown:       "unknown",
	PoseTucked:        "tucked",
	PoseUpright:       "upright",
	PoseSeatedClimb:   "seated_climb",
	PoseStandingClimb: "standing_climb",
}

// String returns the snake_case name used in JSON output.
func (p RiderPose) String() string {
	if name, ok := poseNames[p]; ok {
		return name
	}
	return poseNames[PoseUnknown]
}

// ParseRiderPose maps a snake_case name back to a RiderPose.
func ParseRiderPose(s string) (RiderPose, error) {
	for pose, name := range poseNames {
		if name == s {
			return pose, nil
		}
	}
	return PoseUnknown, fmt.Errorf("unknown rider pose %q", s)
}

// MarshalJSON encodes the pose as its name.
func (p RiderPose) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a pose name.
func (p *RiderPose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pose, err := ParseRiderPose(s)
	if err != nil {
		return err
	}
	*p = pose
	return nil
}

// Ptr returns a pointer to v. It keeps optional-field construction on one line.
func Ptr[T any](v T) *T {
	return &v
}
