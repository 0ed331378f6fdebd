package extractor

import (
	"github.com/ironsheep/zwift-ocr/internal/detection"
	"github.com/ironsheep/zwift-ocr/internal/imaging"
	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// PoseReport is the pose classification of one screenshot with the features
// behind it.
type PoseReport struct {
	Pose     telemetry.RiderPose    `json:"rider_pose"`
	Features detection.PoseFeatures `json:"features"`
	Region   regions.Region         `json:"region"`
	Source   regions.Source         `json:"region_source"`
}

// AnalyzePose classifies only the rider pose, without any OCR. A region
// that misses the image reports PoseUnknown with default features.
func AnalyzePose(path string, opts Options) (*PoseReport, error) {
	b := newBase(opts)
	img, err := b.load(path)
	if err != nil {
		return nil, err
	}
	resolved := b.resolve(img)
	region := resolved.Regions[regions.RiderPoseAvatar]

	report := &PoseReport{
		Pose:     telemetry.PoseUnknown,
		Features: detection.ComputeFeatures(nil),
		Region:   region,
		Source:   resolved.Source,
	}
	crop, err := imaging.CropRegion(img, region.Rect())
	if err != nil {
		return report, nil
	}
	report.Pose, report.Features = detection.ClassifyAvatar(crop, b.log)
	return report, nil
}
