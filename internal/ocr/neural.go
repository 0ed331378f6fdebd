//go:build !noneural

package ocr

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"gocv.io/x/gocv"

	"github.com/ironsheep/zwift-ocr/internal/detection"
	"github.com/ironsheep/zwift-ocr/internal/imaging"
)

// NeuralAvailable reports whether the neural backend is compiled in.
const NeuralAvailable = true

// NeuralEngine recognizes stylized text with a CRNN model run through
// OpenCV's DNN module. It is not safe for concurrent use.
type NeuralEngine struct {
	net    gocv.Net
	vocab  []string
	cfg    NeuralConfig
	lines  detection.LineOptions
	width  int
	height int
}

// NewNeuralEngine loads the CRNN model and vocabulary. Without a configured
// model it returns ErrNeuralUnavailable; a model that fails to load is an
// ErrEngineInit.
func NewNeuralEngine(cfg NeuralConfig) (*NeuralEngine, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: no neural model configured", ErrNeuralUnavailable)
	}
	// ReadNet aborts inside OpenCV on a missing file, so check first.
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: neural model: %v", ErrEngineInit, err)
	}

	vocab, err := LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to load neural model %s", ErrEngineInit, cfg.ModelPath)
	}

	w, h := cfg.inputSize()
	return &NeuralEngine{
		net:    net,
		vocab:  vocab,
		cfg:    cfg,
		lines:  detection.DefaultLineOptions(),
		width:  w,
		height: h,
	}, nil
}

// NeuralFactory returns a Factory building neural engines from cfg.
func NeuralFactory(cfg NeuralConfig) Factory {
	return func() (Engine, error) {
		e, err := NewNeuralEngine(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Recognize decodes the raster, finds its text lines (unless opts.Mode is
// SegSingleLine) and recognizes each word. Lines are joined with newlines
// and words with single spaces. The whitelist, if any, filters the output.
func (e *NeuralEngine) Recognize(raster []byte, opts Options) (string, error) {
	img, err := imaging.DecodeRaster(raster)
	if err != nil {
		return "", err
	}

	var lines []image.Rectangle
	if opts.Mode == SegSingleLine {
		lines = []image.Rectangle{img.Bounds()}
	} else {
		lines = detection.TextLines(img, e.lines)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var words []string
		for _, word := range detection.SplitWords(img, line, e.lines) {
			text, err := e.recognizeWord(img, word)
			if err != nil {
				return "", err
			}
			if text = filterWhitelist(text, opts.Whitelist); text != "" {
				words = append(words, text)
			}
		}
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return strings.Join(out, "\n"), nil
}

func (e *NeuralEngine) recognizeWord(img image.Image, rect image.Rectangle) (string, error) {
	crop, err := imaging.CropRegion(img, rect)
	if err != nil {
		return "", nil
	}

	var mat gocv.Mat
	if e.cfg.Grayscale {
		mat, err = gocv.ImageGrayToMatGray(effect.Grayscale(crop))
	} else {
		mat, err = gocv.ImageToMatRGB(crop)
	}
	if err != nil {
		return "", fmt.Errorf("failed to convert word image: %w", err)
	}
	defer mat.Close()

	// Scale to [-1, 1] as the CRNN models expect.
	mean := gocv.NewScalar(127.5, 127.5, 127.5, 0)
	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(e.width, e.height), mean, !e.cfg.Grayscale, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	prob := e.net.Forward("")
	defer prob.Close()

	dims := prob.Size()
	if len(dims) < 2 {
		return "", fmt.Errorf("unexpected neural output shape %v", dims)
	}
	scores, err := prob.DataPtrFloat32()
	if err != nil {
		return "", fmt.Errorf("failed to read neural output: %w", err)
	}
	return DecodeCTC(scores, dims[0], dims[len(dims)-1], e.vocab), nil
}

// Close releases the network.
func (e *NeuralEngine) Close() error {
	return e.net.Close()
}
