//go:build noneural

package ocr

import "fmt"

// NeuralAvailable reports whether the neural backend is compiled in.
const NeuralAvailable = false

// NeuralEngine is a placeholder when built with -tags noneural.
type NeuralEngine struct{}

// NewNeuralEngine always fails with ErrNeuralUnavailable.
func NewNeuralEngine(cfg NeuralConfig) (*NeuralEngine, error) {
	return nil, fmt.Errorf("%w: built with -tags noneural", ErrNeuralUnavailable)
}

// NeuralFactory returns a Factory that always fails with ErrNeuralUnavailable.
func NeuralFactory(cfg NeuralConfig) Factory {
	return func() (Engine, error) {
		e, err := NewNeuralEngine(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Recognize always fails with ErrNeuralUnavailable.
func (e *NeuralEngine) Recognize(raster []byte, opts Options) (string, error) {
	return "", ErrNeuralUnavailable
}

// Close is a no-op.
func (e *NeuralEngine) Close() error {
	return nil
}
