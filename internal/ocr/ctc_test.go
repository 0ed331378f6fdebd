package ocr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// scoreMatrix builds a one-hot steps x classes matrix from class indexes.
func scoreMatrix(classes int, best ...int) []float32 {
	scores := make([]float32, len(best)*classes)
	for t, c := range best {
		scores[t*classes+c] = 1
	}
	return scores
}

func TestDecodeCTC(t *testing.T) {
	vocab := []string{"a", "b", "c"}

	tests := []struct {
		name string
		best []int
		want string
	}{
		{"simple", []int{1, 2, 3}, "abc"},
		{"collapse repeats", []int{1, 1, 2, 2, 2, 3}, "abc"},
		{"blank separates repeats", []int{1, 0, 1}, "aa"},
		{"all blank", []int{0, 0, 0}, ""},
		{"leading and trailing blanks", []int{0, 2, 0}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCTC(scoreMatrix(4, tt.best...), len(tt.best), 4, vocab)
			if got != tt.want {
				t.Errorf("DecodeCTC = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCTC_IgnoresUnknownClasses(t *testing.T) {
	got := DecodeCTC(scoreMatrix(6, 1, 5, 2), 3, 6, []string{"x", "y"})
	if got != "xy" {
		t.Errorf("DecodeCTC = %q, want %q", got, "xy")
	}
}

func TestDecodeCTC_ShortInput(t *testing.T) {
	if got := DecodeCTC(make([]float32, 5), 2, 4, []string{"a"}); got != "" {
		t.Errorf("DecodeCTC with truncated scores = %q, want empty", got)
	}
	if got := DecodeCTC(nil, 0, 0, nil); got != "" {
		t.Errorf("DecodeCTC with no steps = %q, want empty", got)
	}
}

func TestLoadVocabulary_Default(t *testing.T) {
	vocab, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if len(vocab) != 94 {
		t.Errorf("default vocabulary has %d symbols, want 94", len(vocab))
	}
	if vocab[0] != "0" || vocab[10] != "a" {
		t.Errorf("unexpected vocabulary order: %q %q", vocab[0], vocab[10])
	}
}

func TestLoadVocabulary_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alphabet.txt")
	if err := os.WriteFile(path, []byte("0\r\n1\n\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if got := strings.Join(vocab, ","); got != "0,1,2" {
		t.Errorf("vocabulary = %s, want 0,1,2", got)
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	if _, err := LoadVocabulary("/nonexistent/alphabet.txt"); err == nil {
		t.Error("LoadVocabulary should fail for a missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(empty); err == nil {
		t.Error("LoadVocabulary should fail for an empty file")
	}
}

func TestNeuralConfig_InputSize(t *testing.T) {
	w, h := NeuralConfig{}.inputSize()
	if w != DefaultNeuralInputWidth || h != DefaultNeuralInputHeight {
		t.Errorf("default input size = %dx%d", w, h)
	}
	w, h = NeuralConfig{InputWidth: 128, InputHeight: 48}.inputSize()
	if w != 128 || h != 48 {
		t.Errorf("configured input size = %dx%d, want 128x48", w, h)
	}
}
