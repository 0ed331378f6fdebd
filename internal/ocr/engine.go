package ocr

import (
	"errors"
	"strings"
)

var (
	// ErrEngineInit marks failures to construct a recognition engine.
	ErrEngineInit = errors.New("ocr engine initialization failed")

	// ErrNeuralUnavailable is returned when the neural backend is not
	// compiled in or no model is configured.
	ErrNeuralUnavailable = errors.New("neural ocr backend unavailable")

	// ErrPoolClosed is returned when recognizing through a closed pool.
	ErrPoolClosed = errors.New("ocr engine pool closed")
)

// SegMode tells an engine how to split the input into text.
type SegMode int

const (
	// SegAuto lets the engine find lines and blocks itself.
	SegAuto SegMode = iota
	// SegSingleLine treats the whole input as one line of text.
	SegSingleLine
	// SegSingleBlock treats the input as one uniform block of text.
	SegSingleBlock
)

func (m SegMode) String() string {
	switch m {
	case SegSingleLine:
		return "single_line"
	case SegSingleBlock:
		return "single_block"
	default:
		return "auto"
	}
}

// Options controls a single recognition call.
type Options struct {
	// Whitelist restricts recognizable characters. Empty means no restriction.
	Whitelist string

	// Mode selects page segmentation.
	Mode SegMode
}

// Engine recognizes text in an encoded raster image.
//
// Implementations are not required to be safe for concurrent use; wrap them
// in a Pool or SharedEngine to share them.
type Engine interface {
	Recognize(raster []byte, opts Options) (string, error)
	Close() error
}

// Factory constructs a new Engine.
type Factory func() (Engine, error)

// filterWhitelist drops characters outside whitelist. Engines without native
// whitelist support apply it to their output.
func filterWhitelist(text, whitelist string) string {
	if whitelist == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(whitelist, r) {
			return r
		}
		return -1
	}, text)
}
