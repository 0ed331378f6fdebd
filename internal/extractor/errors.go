package extractor

import (
	"errors"
	"fmt"
)

// ErrImageLoad marks a screenshot that could not be read or decoded.
var ErrImageLoad = errors.New("failed to load image")

// Extraction stages reported by ExtractError.
const (
	StageLoad   = "load"
	StageEngine = "engine"
)

// ExtractError is a fatal extraction failure tagged with the stage that
// failed. It unwraps to the underlying cause.
type ExtractError struct {
	Stage string
	Path  string
	Err   error
}

func (e *ExtractError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Stage, e.Err)
	}
	return fmt.Sprintf("extract: %s: %v", e.Stage, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func loadError(path string, err error) error {
	return &ExtractError{Stage: StageLoad, Path: path, Err: fmt.Errorf("%w: %w", ErrImageLoad, err)}
}

func engineError(path string, err error) error {
	return &ExtractError{Stage: StageEngine, Path: path, Err: err}
}
