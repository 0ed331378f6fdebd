package ocr

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultVocabulary is the 94-symbol alphabet of OpenCV's crnn_cs model,
// in class order. Class 0 is the CTC blank and is not listed.
const DefaultVocabulary = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Default CRNN input size.
const (
	DefaultNeuralInputWidth  = 100
	DefaultNeuralInputHeight = 32
)

// NeuralConfig configures the neural OCR engine.
type NeuralConfig struct {
	// ModelPath is the CRNN ONNX model file.
	ModelPath string

	// VocabularyPath is an optional file with one symbol per line, in class
	// order starting at class 1. Empty means DefaultVocabulary.
	VocabularyPath string

	// Grayscale feeds single-channel input, for models like crnn.onnx.
	Grayscale bool

	// InputWidth and InputHeight are the model's input size; zero means
	// 100x32.
	InputWidth  int
	InputHeight int
}

func (c NeuralConfig) inputSize() (int, int) {
	w, h := c.InputWidth, c.InputHeight
	if w <= 0 {
		w = DefaultNeuralInputWidth
	}
	if h <= 0 {
		h = DefaultNeuralInputHeight
	}
	return w, h
}

// LoadVocabulary reads a vocabulary file, or splits DefaultVocabulary into
// symbols when path is empty.
func LoadVocabulary(path string) ([]string, error) {
	if path == "" {
		return strings.Split(DefaultVocabulary, ""), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	var vocab []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		symbol := strings.TrimRight(scanner.Text(), "\r")
		if symbol == "" {
			continue
		}
		vocab = append(vocab, symbol)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}
	return vocab, nil
}

// DecodeCTC performs greedy CTC decoding over a steps x classes score
// matrix laid out row-major. At each step the best class wins; repeats are
// collapsed and blanks (class 0) dropped. Classes past the vocabulary are
// ignored.
func DecodeCTC(scores []float32, steps, classes int, vocab []string) string {
	if steps <= 0 || classes <= 0 || len(scores) < steps*classes {
		return ""
	}

	var sb strings.Builder
	prev := 0
	for t := 0; t < steps; t++ {
		row := scores[t*classes : (t+1)*classes]
		best := 0
		for c := 1; c < classes; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		if best != 0 && best != prev && best-1 < len(vocab) {
			sb.WriteString(vocab[best-1])
		}
		prev = best
	}
	return sb.String()
}
