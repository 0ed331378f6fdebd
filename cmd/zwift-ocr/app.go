package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ironsheep/zwift-ocr/internal/config"
	"github.com/ironsheep/zwift-ocr/internal/extractor"
	"github.com/ironsheep/zwift-ocr/internal/imaging"
	"github.com/ironsheep/zwift-ocr/internal/logging"
	"github.com/ironsheep/zwift-ocr/internal/metrics"
	"github.com/ironsheep/zwift-ocr/internal/ocr"
	"github.com/ironsheep/zwift-ocr/internal/regions"
)

// app holds what every command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
	opts    extractor.Options
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	rec := metrics.New()

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: rec,
		opts: extractor.Options{
			Regions: regions.Shared(cfg.RegionDir, log),
			Images:  imaging.NewImageCache(),
			Log:     log,
			Metrics: rec,
		},
	}, nil
}

func (a *app) classicalFactory() ocr.Factory {
	return ocr.TesseractFactory(a.cfg.Tesseract())
}

func (a *app) neuralFactory() ocr.Factory {
	return ocr.NeuralFactory(a.cfg.Neural())
}

// resources returns the process-wide engine pool, building it on first use.
func (a *app) resources() (*ocr.Resources, error) {
	return ocr.SharedResources(func() (*ocr.Resources, error) {
		size := a.cfg.EffectivePoolSize()
		a.log.Debug("building engine pool", zap.Int("pool_size", size))
		return ocr.NewResources(size, a.classicalFactory(), a.neuralFactory(),
			ocr.WithWaitObserver(a.metrics.ObservePoolWait))
	})
}

// extractor builds the extractor for mode.
func (a *app) extractor(mode string) (extractor.Extractor, error) {
	switch mode {
	case extractor.ModeSequential:
		return extractor.NewSequential(a.classicalFactory(), a.neuralFactory(), a.opts), nil
	case extractor.ModeParallel:
		res, err := a.resources()
		if err != nil {
			return nil, err
		}
		return extractor.NewParallel(res, a.opts), nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want %s or %s)", mode, extractor.ModeParallel, extractor.ModeSequential)
	}
}

// close releases shared engines and flushes the logger.
func (a *app) close() {
	if err := ocr.ResetShared(); err != nil {
		a.log.Warn("failed to close engines", zap.Error(err))
	}
	_ = a.log.Sync()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
