package extractor

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/zwift-ocr/internal/ocr"
	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// Sequential builds fresh engines for every call and reads one field at a
// time. It is the reference the parallel mode is checked against.
type Sequential struct {
	base
	classical ocr.Factory
	neural    ocr.Factory
}

// NewSequential returns a Sequential extractor using the given factories.
func NewSequential(classical, neural ocr.Factory, opts Options) *Sequential {
	return &Sequential{
		base:      newBase(opts),
		classical: classical,
		neural:    neural,
	}
}

// Extract reads all telemetry from the screenshot at path.
func (s *Sequential) Extract(path string) (*telemetry.TelemetryData, error) {
	start := time.Now()

	img, err := s.load(path)
	if err != nil {
		return nil, err
	}
	resolved := s.resolve(img)

	classical, err := s.classical()
	if err != nil {
		return nil, engineError(path, err)
	}
	defer classical.Close()

	neural, err := s.neural()
	switch {
	case err == nil:
		defer neural.Close()
	case errors.Is(err, ocr.ErrNeuralUnavailable):
		s.log.Warn("neural ocr unavailable, skipping leaderboard", zap.Error(err))
		neural = nil
	default:
		return nil, engineError(path, err)
	}

	texts := make([]fieldText, len(numericFields))
	for i, spec := range numericFields {
		texts[i], err = s.readField(img, spec, resolved.Regions[spec.name].Rect(), classical)
		if err != nil {
			return nil, engineError(path, err)
		}
	}

	board, err := s.readLeaderboard(img, resolved.Regions[regions.Leaderboard].Rect(), neural)
	if err != nil {
		return nil, engineError(path, err)
	}
	pose := s.readPose(img, resolved.Regions[regions.RiderPoseAvatar].Rect())

	td := s.assemble(texts, board, pose)
	s.metrics.ObserveExtraction(ModeSequential, time.Since(start))
	return td, nil
}
