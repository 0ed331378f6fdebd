package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// createTestImage creates a solid-colour RGBA image.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// fillRect paints r onto img.
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// createPanelImage imitates a HUD panel: light glyph blocks on a dark
// background. The first line holds two words, the second one word.
func createPanelImage() *image.RGBA {
	img := createTestImage(100, 60, color.RGBA{20, 20, 30, 255})
	ink := color.White

	// Line one, word one: two glyphs two columns apart.
	fillRect(img, image.Rect(10, 10, 20, 20), ink)
	fillRect(img, image.Rect(22, 10, 30, 20), ink)
	// Line one, word two.
	fillRect(img, image.Rect(50, 10, 70, 20), ink)
	// Line two.
	fillRect(img, image.Rect(10, 35, 40, 45), ink)
	return img
}

func TestTextLines(t *testing.T) {
	lines := TextLines(createPanelImage(), DefaultLineOptions())

	want := []image.Rectangle{
		image.Rect(8, 8, 72, 22),
		image.Rect(8, 33, 42, 47),
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %v, want %v", i, lines[i], want[i])
		}
	}
}

func TestTextLines_Empty(t *testing.T) {
	img := createTestImage(80, 40, color.Black)
	if lines := TextLines(img, DefaultLineOptions()); len(lines) != 0 {
		t.Errorf("blank image produced lines: %v", lines)
	}
}

func TestTextLines_DropsShortBands(t *testing.T) {
	img := createTestImage(80, 40, color.Black)
	fillRect(img, image.Rect(10, 10, 60, 13), color.White) // 3 rows, under MinHeight

	if lines := TextLines(img, DefaultLineOptions()); len(lines) != 0 {
		t.Errorf("thin band should be dropped, got %v", lines)
	}
}

func TestTextLines_MergesSmallGaps(t *testing.T) {
	img := createTestImage(80, 40, color.Black)
	fillRect(img, image.Rect(10, 10, 60, 15), color.White)
	fillRect(img, image.Rect(10, 16, 60, 20), color.White) // one empty row between

	lines := TextLines(img, DefaultLineOptions())
	if len(lines) != 1 {
		t.Fatalf("bands one row apart should merge, got %v", lines)
	}
}

func TestTextLines_OffsetBounds(t *testing.T) {
	panel := createPanelImage()
	sub := panel.SubImage(image.Rect(5, 5, 100, 60))

	lines := TextLines(sub, DefaultLineOptions())
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != image.Rect(8, 8, 72, 22) {
		t.Errorf("line rectangle should be in the source coordinate space, got %v", lines[0])
	}
}

func TestSplitWords(t *testing.T) {
	img := createPanelImage()
	opts := DefaultLineOptions()
	lines := TextLines(img, opts)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	words := SplitWords(img, lines[0], opts)
	want := []image.Rectangle{
		image.Rect(8, 8, 32, 22),
		image.Rect(48, 8, 72, 22),
	}
	if len(words) != len(want) {
		t.Fatalf("got %d words %v, want %d", len(words), words, len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %v, want %v", i, words[i], want[i])
		}
	}

	if words := SplitWords(img, lines[1], opts); len(words) != 1 {
		t.Errorf("second line should be one word, got %v", words)
	}
}

func TestSplitWords_ExplicitGap(t *testing.T) {
	img := createPanelImage()
	opts := DefaultLineOptions()
	opts.WordGap = 2

	line := TextLines(img, opts)[0]
	if words := SplitWords(img, line, opts); len(words) != 3 {
		t.Errorf("a two-column gap should split with WordGap 2, got %v", words)
	}
}

func TestSplitWords_OutsideImage(t *testing.T) {
	img := createPanelImage()
	if words := SplitWords(img, image.Rect(200, 200, 300, 220), DefaultLineOptions()); words != nil {
		t.Errorf("expected no words outside the image, got %v", words)
	}
}

func TestRuns(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		minC   int
		gap    int
		want   []span
	}{
		{"empty", nil, 1, 0, nil},
		{"single run", []int{0, 1, 1, 0}, 1, 0, []span{{1, 3}}},
		{"split on gap", []int{1, 0, 0, 1}, 1, 1, []span{{0, 1}, {3, 4}}},
		{"merge within gap", []int{1, 0, 0, 1}, 1, 2, []span{{0, 4}}},
		{"min count", []int{1, 2, 3, 1}, 2, 0, []span{{1, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runs(tt.counts, tt.minC, tt.gap)
			if len(got) != len(tt.want) {
				t.Fatalf("runs = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("runs[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// drawText renders s in white with its baseline at y.
func drawText(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func TestTextLines_RenderedText(t *testing.T) {
	img := createTestImage(120, 60, color.RGBA{20, 20, 20, 255})
	drawText(img, 4, 20, "128")
	drawText(img, 4, 45, "342")

	lines := TextLines(img, DefaultLineOptions())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0].Max.Y > lines[1].Min.Y {
		t.Errorf("lines overlap: %v %v", lines[0], lines[1])
	}
	for _, l := range lines {
		if h := l.Dy(); h < 8 || h > 20 {
			t.Errorf("line %v height %d outside glyph range", l, h)
		}
		if l.Min.X > 4+7 || l.Max.X < 4+2*7 {
			t.Errorf("line %v does not span the text", l)
		}
	}
}
