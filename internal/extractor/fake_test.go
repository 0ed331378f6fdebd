package extractor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/zwift-ocr/internal/ocr"
	"github.com/ironsheep/zwift-ocr/internal/regions"
)

// sizeEngine answers by the pixel size of the raster it is given. Every
// default field region has a distinct size once preprocessed, so the size
// identifies the field without any real recognition.
type sizeEngine struct {
	texts map[image.Point]string
	errs  map[image.Point]error

	mu     sync.Mutex
	closed bool
}

func (e *sizeEngine) Recognize(raster []byte, opts ocr.Options) (string, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(raster))
	if err != nil {
		return "", fmt.Errorf("fake engine: %w", err)
	}
	p := image.Pt(cfg.Width, cfg.Height)
	if err := e.errs[p]; err != nil {
		return "", err
	}
	return e.texts[p], nil
}

func (e *sizeEngine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

// textEngine returns the same text for every call.
type textEngine struct{ text string }

func (e textEngine) Recognize([]byte, ocr.Options) (string, error) { return e.text, nil }
func (e textEngine) Close() error                                  { return nil }

// hudText is what the fake classical engine "reads" from each field of a
// 1920x1080 screenshot.
var hudText = map[string]string{
	regions.Speed:            "35 ",
	regions.Distance:         "12.5",
	regions.Altitude:         "120",
	regions.RaceTime:         "1234",
	regions.Power:            "250",
	regions.Cadence:          "9O0", // the O is dropped by the whitelist
	regions.HeartRate:        "150",
	regions.Gradient:         "-3.5%",
	regions.DistanceToFinish: "8.2",
}

const leaderboardText = "J.Rider\n+01:23 3.2 w/kg 12.5 KM\n\nMe Myself\n4.1 12.0 km\nnoise"

// preprocessedSize returns the raster size the classical engine sees for a
// field region.
func preprocessedSize(spec fieldSpec, r regions.Region) image.Point {
	_, scale := spec.params()
	return image.Pt(r.Width*scale, r.Height*scale)
}

// newHUDEngine builds a sizeEngine for 1920x1080 defaults. failing lists
// fields whose recognition returns err.
func newHUDEngine(t *testing.T, err error, failing ...string) *sizeEngine {
	t.Helper()
	defaults := regions.Defaults(regions.BaseWidth, regions.BaseHeight)
	e := &sizeEngine{texts: map[image.Point]string{}, errs: map[image.Point]error{}}
	for _, spec := range numericFields {
		p := preprocessedSize(spec, defaults[spec.name])
		if _, dup := e.texts[p]; dup {
			t.Fatalf("field %s shares raster size %v with another field", spec.name, p)
		}
		e.texts[p] = hudText[spec.name]
	}
	for _, name := range failing {
		for _, spec := range numericFields {
			if spec.name == name {
				e.errs[preprocessedSize(spec, defaults[name])] = err
			}
		}
	}
	return e
}

func factoryFor(e ocr.Engine) ocr.Factory {
	return func() (ocr.Engine, error) { return e, nil }
}

func failingFactory(err error) ocr.Factory {
	return func() (ocr.Engine, error) { return nil, err }
}

// writeScreenshot writes a dark 1920x1080 PNG and returns its path.
func writeScreenshot(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, regions.BaseWidth, regions.BaseHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{30, 30, 40, 255}), image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "hud.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}
