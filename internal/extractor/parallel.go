package extractor

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/zwift-ocr/internal/ocr"
	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// Parallel reuses pooled classical engines and one shared neural engine
// across calls. The nine numeric fields run as a batch bounded by the pool
// size while the leaderboard and pose run alongside.
type Parallel struct {
	base
	res *ocr.Resources
}

// NewParallel returns a Parallel extractor over res. The caller owns res.
func NewParallel(res *ocr.Resources, opts Options) *Parallel {
	return &Parallel{
		base: newBase(opts),
		res:  res,
	}
}

// Extract reads all telemetry from the screenshot at path. It blocks until
// every task has finished.
func (p *Parallel) Extract(path string) (*telemetry.TelemetryData, error) {
	start := time.Now()

	img, err := p.load(path)
	if err != nil {
		return nil, err
	}
	resolved := p.resolve(img)

	var (
		texts = make([]fieldText, len(numericFields))
		board []telemetry.LeaderboardEntry
		pose  *telemetry.RiderPose
		g     errgroup.Group
	)

	g.Go(func() error {
		var fields errgroup.Group
		fields.SetLimit(p.res.Classical.Size())
		for i, spec := range numericFields {
			rect := resolved.Regions[spec.name].Rect()
			fields.Go(func() error {
				t, err := p.readField(img, spec, rect, p.res.Classical)
				if err != nil {
					return err
				}
				texts[i] = t
				return nil
			})
		}
		return fields.Wait()
	})

	g.Go(func() error {
		var err error
		board, err = p.readLeaderboard(img, resolved.Regions[regions.Leaderboard].Rect(), p.res.Neural)
		return err
	})

	g.Go(func() error {
		pose = p.readPose(img, resolved.Regions[regions.RiderPoseAvatar].Rect())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, engineError(path, err)
	}

	td := p.assemble(texts, board, pose)
	p.metrics.ObserveExtraction(ModeParallel, time.Since(start))
	return td, nil
}
