// Package extractor reads a TelemetryData record from a HUD screenshot.
//
// Two modes share every parsing step and differ only in how engines are
// obtained and work is scheduled. Sequential builds a classical and a neural
// engine per call and reads fields one after another. Parallel borrows
// engines from long-lived ocr.Resources and runs the numeric fields, the
// leaderboard and the pose classifier concurrently. For the same image both
// return identical records.
package extractor

import (
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/zwift-ocr/internal/detection"
	"github.com/ironsheep/zwift-ocr/internal/imaging"
	"github.com/ironsheep/zwift-ocr/internal/metrics"
	"github.com/ironsheep/zwift-ocr/internal/ocr"
	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// Mode names, also used as the metrics label.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// Extractor reads telemetry from a screenshot file.
type Extractor interface {
	Extract(path string) (*telemetry.TelemetryData, error)
}

// Options holds collaborators shared by both modes. Zero values are valid:
// no region directory, no image cache, a no-op logger and no metrics.
type Options struct {
	Regions *regions.Provider
	Images  *imaging.ImageCache
	Log     *zap.Logger
	Metrics *metrics.Recorder
}

// base implements the steps common to both modes.
type base struct {
	regions *regions.Provider
	images  *imaging.ImageCache
	log     *zap.Logger
	metrics *metrics.Recorder
}

func newBase(opts Options) base {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	provider := opts.Regions
	if provider == nil {
		provider = regions.NewProvider("", log)
	}
	return base{
		regions: provider,
		images:  opts.Images,
		log:     log.Named("extractor"),
		metrics: opts.Metrics,
	}
}

func (b *base) load(path string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if b.images != nil {
		img, err = b.images.Load(path)
	} else {
		img, err = imaging.Decode(path)
	}
	if err != nil {
		return nil, loadError(path, err)
	}
	return img, nil
}

func (b *base) resolve(img image.Image) regions.Resolved {
	bounds := img.Bounds()
	return b.regions.Resolve(bounds.Dx(), bounds.Dy())
}

// fieldText is the raw recognizer output for one numeric field.
type fieldText struct {
	raw string
	ok  bool
}

// readField crops, preprocesses and recognizes one numeric field. Only
// engine failures are returned; an empty crop or a recognition error leaves
// the field unread.
func (b *base) readField(img image.Image, spec fieldSpec, rect image.Rectangle, eng ocr.Engine) (fieldText, error) {
	crop, err := imaging.CropRegion(img, rect)
	if err != nil {
		b.log.Debug("field region outside image", zap.String("field", spec.name), zap.Error(err))
		return fieldText{}, nil
	}
	threshold, scale := spec.params()
	raster, err := imaging.Preprocess(crop, threshold, scale)
	if err != nil {
		b.log.Debug("field preprocess failed", zap.String("field", spec.name), zap.Error(err))
		return fieldText{}, nil
	}

	text, err := eng.Recognize(raster, ocr.Options{Whitelist: spec.whitelist, Mode: ocr.SegSingleLine})
	if err != nil {
		if isEngineFailure(err) {
			return fieldText{}, err
		}
		b.log.Debug("field recognition failed", zap.String("field", spec.name), zap.Error(err))
		return fieldText{}, nil
	}
	return fieldText{raw: text, ok: true}, nil
}

// readLeaderboard recognizes the colour leaderboard crop with the neural
// engine. A nil engine or an unavailable backend leaves the leaderboard
// absent; an engine that fails to load is fatal.
func (b *base) readLeaderboard(img image.Image, rect image.Rectangle, eng ocr.Engine) ([]telemetry.LeaderboardEntry, error) {
	if eng == nil {
		return nil, nil
	}
	crop, err := imaging.CropRegion(img, rect)
	if err != nil {
		b.log.Debug("leaderboard region outside image", zap.Error(err))
		return nil, nil
	}
	raster, err := imaging.EncodePNG(crop)
	if err != nil {
		b.log.Debug("leaderboard encode failed", zap.Error(err))
		return nil, nil
	}

	text, err := eng.Recognize(raster, ocr.Options{Mode: ocr.SegAuto})
	switch {
	case err == nil:
	case errors.Is(err, ocr.ErrNeuralUnavailable):
		b.log.Warn("neural ocr unavailable, skipping leaderboard", zap.Error(err))
		return nil, nil
	case isEngineFailure(err):
		return nil, err
	default:
		b.log.Warn("leaderboard recognition failed", zap.Error(err))
		return nil, nil
	}

	b.log.Debug("leaderboard recognized", zap.String("raw", text))
	entries := ParseLeaderboard(text)
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

// readPose classifies the avatar crop. It never fails.
func (b *base) readPose(img image.Image, rect image.Rectangle) *telemetry.RiderPose {
	crop, err := imaging.CropRegion(img, rect)
	if err != nil {
		b.log.Debug("avatar region outside image", zap.Error(err))
		return nil
	}
	pose, _ := detection.ClassifyAvatar(crop, b.log)
	return &pose
}

// assemble merges per-field results by field identity, so completion order
// does not matter.
func (b *base) assemble(texts []fieldText, board []telemetry.LeaderboardEntry, pose *telemetry.RiderPose) *telemetry.TelemetryData {
	td := &telemetry.TelemetryData{
		Leaderboard: board,
		RiderPose:   pose,
	}
	for i, spec := range numericFields {
		t := texts[i]
		cleaned := spec.clean(t.raw)
		if !t.ok || !spec.assign(td, cleaned) {
			b.metrics.FieldMiss(spec.name)
			b.log.Debug("field not recognized",
				zap.String("field", spec.name),
				zap.String("raw", t.raw),
				zap.String("cleaned", cleaned))
			continue
		}
		b.log.Debug("field recognized",
			zap.String("field", spec.name),
			zap.String("raw", t.raw),
			zap.String("cleaned", cleaned))
	}
	if board == nil {
		b.metrics.FieldMiss(regions.Leaderboard)
	}
	return td
}

// isEngineFailure reports errors that make any further extraction pointless.
func isEngineFailure(err error) bool {
	return errors.Is(err, ocr.ErrEngineInit) || errors.Is(err, ocr.ErrPoolClosed)
}
