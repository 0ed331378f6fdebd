package ocr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/zwift-ocr/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// TesseractConfig configures a classical OCR engine.
type TesseractConfig struct {
	// TessdataPrefix is the directory holding *.traineddata files. Empty
	// means ResolveTessdata decides.
	TessdataPrefix string

	// Language is the Tesseract language code, "eng" by default.
	Language string
}

// TesseractEngine wraps one Tesseract instance. It is not safe for
// concurrent use: each Recognize call rewrites the whitelist, segmentation
// mode and loaded image.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates and warms up a Tesseract instance. The warm-up
// recognizes a blank image so that missing language data fails here rather
// than on the first real field.
func NewTesseractEngine(cfg TesseractConfig) (*TesseractEngine, error) {
	client := gosseract.NewClient()

	if prefix := ResolveTessdata(cfg.TessdataPrefix); prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: failed to set tessdata path: %v", ErrEngineInit, err)
		}
	}

	lang := cfg.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to set language: %v", ErrEngineInit, err)
	}

	blank, err := warmupRaster()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	if err := client.SetImageFromBytes(blank); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to set warm-up image: %v", ErrEngineInit, err)
	}
	if _, err := client.Text(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: tesseract (%s) failed to start: %v", ErrEngineInit, lang, err)
	}

	return &TesseractEngine{client: client}, nil
}

// TesseractFactory returns a Factory building engines from cfg.
func TesseractFactory(cfg TesseractConfig) Factory {
	return func() (Engine, error) {
		e, err := NewTesseractEngine(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Recognize runs Tesseract over an encoded raster.
func (e *TesseractEngine) Recognize(raster []byte, opts Options) (string, error) {
	if err := e.client.SetWhitelist(opts.Whitelist); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetPageSegMode(pageSegMode(opts.Mode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := e.client.SetImageFromBytes(raster); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the Tesseract instance.
func (e *TesseractEngine) Close() error {
	return e.client.Close()
}

func pageSegMode(m SegMode) gosseract.PageSegMode {
	switch m {
	case SegSingleLine:
		return gosseract.PSM_SINGLE_LINE
	case SegSingleBlock:
		return gosseract.PSM_SINGLE_BLOCK
	default:
		return gosseract.PSM_AUTO
	}
}

// ResolveTessdata picks the tessdata directory: the configured path, then
// TESSDATA_PREFIX, then a tessdata directory next to the executable. An empty
// result leaves the choice to Tesseract's compiled-in default.
func ResolveTessdata(configured string) string {
	if configured != "" {
		return configured
	}
	if env := os.Getenv("TESSDATA_PREFIX"); env != "" {
		return env
	}

	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	// Resolve symlinks to get actual binary location
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = resolved
	}

	dir := filepath.Join(filepath.Dir(exePath), "tessdata")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

var (
	warmupOnce sync.Once
	warmupPNG  []byte
	warmupErr  error
)

// warmupRaster is a small white PNG used to force Tesseract initialization.
func warmupRaster() ([]byte, error) {
	warmupOnce.Do(func() {
		img := image.NewGray(image.Rect(0, 0, 16, 16))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
		warmupPNG, warmupErr = imaging.EncodePNG(img)
	})
	return warmupPNG, warmupErr
}
