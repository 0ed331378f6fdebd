package detection

import (
	"image"

	"github.com/disintegration/imaging"
)

// LineOptions tunes text line and word segmentation.
type LineOptions struct {
	// InkThreshold is the luminance at or above which a pixel counts as text.
	// HUD text is light on a dark, translucent panel.
	InkThreshold uint8

	// MinInk is the number of ink pixels a row needs to belong to a line.
	MinInk int

	// MinHeight drops bands shorter than this many rows.
	MinHeight int

	// MaxGap merges bands separated by at most this many empty rows.
	MaxGap int

	// WordGap splits a line at runs of at least this many empty columns.
	// Zero derives the gap from the line height.
	WordGap int

	// Padding is added around every returned rectangle, clamped to the image.
	Padding int
}

// DefaultLineOptions suits the leaderboard panel at 1080p and above.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		InkThreshold: 160,
		MinInk:       2,
		MinHeight:    6,
		MaxGap:       1,
		Padding:      2,
	}
}

// inkMask thresholds img into a row-major boolean mask with origin (0,0).
func inkMask(img image.Image, threshold uint8) ([]bool, int, int) {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask[y*w+x] = gray.Pix[gray.PixOffset(x, y)] >= threshold
		}
	}
	return mask, w, h
}

// span is a half-open [start, end) run along one axis.
type span struct{ start, end int }

// runs groups indexes whose count reaches minCount, merging runs separated
// by at most maxGap misses.
func runs(counts []int, minCount, maxGap int) []span {
	var out []span
	start, last := -1, -1
	for i, c := range counts {
		if c < minCount {
			continue
		}
		if start >= 0 && i-last-1 > maxGap {
			out = append(out, span{start, last + 1})
			start = -1
		}
		if start < 0 {
			start = i
		}
		last = i
	}
	if start >= 0 {
		out = append(out, span{start, last + 1})
	}
	return out
}

// TextLines finds horizontal bands of text using a row projection profile
// and trims each band to its inked columns. Rectangles are in img's
// coordinate space, top to bottom.
func TextLines(img image.Image, opts LineOptions) []image.Rectangle {
	mask, w, h := inkMask(img, opts.InkThreshold)
	if w == 0 || h == 0 {
		return nil
	}

	rowCounts := make([]int, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y*w+x] {
				rowCounts[y]++
			}
		}
	}

	origin := img.Bounds().Min
	var lines []image.Rectangle
	for _, band := range runs(rowCounts, max(1, opts.MinInk), opts.MaxGap) {
		if band.end-band.start < opts.MinHeight {
			continue
		}

		colCounts := columnCounts(mask, w, band)
		cols := runs(colCounts, 1, w)
		if len(cols) == 0 {
			continue
		}
		r := image.Rect(cols[0].start, band.start, cols[len(cols)-1].end, band.end)
		lines = append(lines, pad(r, opts.Padding, w, h).Add(origin))
	}
	return lines
}

// SplitWords splits one line rectangle (from TextLines) into word
// rectangles at wide column gaps, left to right.
func SplitWords(img image.Image, line image.Rectangle, opts LineOptions) []image.Rectangle {
	origin := img.Bounds().Min
	local := line.Sub(origin).Intersect(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	if local.Empty() {
		return nil
	}

	mask, w, h := inkMask(img, opts.InkThreshold)
	gap := opts.WordGap
	if gap <= 0 {
		// Inter-word spacing is roughly a third of the glyph height.
		gap = max(3, local.Dy()/3)
	}

	counts := columnCounts(mask, w, span{local.Min.Y, local.Max.Y})
	var words []image.Rectangle
	for _, s := range runs(counts[local.Min.X:local.Max.X], 1, gap-1) {
		// The line already carries vertical padding.
		r := image.Rect(local.Min.X+s.start-opts.Padding, local.Min.Y, local.Min.X+s.end+opts.Padding, local.Max.Y)
		words = append(words, r.Intersect(image.Rect(0, 0, w, h)).Add(origin))
	}
	return words
}

func columnCounts(mask []bool, w int, rows span) []int {
	counts := make([]int, w)
	for y := rows.start; y < rows.end; y++ {
		for x := 0; x < w; x++ {
			if mask[y*w+x] {
				counts[x]++
			}
		}
	}
	return counts
}

func pad(r image.Rectangle, n, w, h int) image.Rectangle {
	return image.Rect(r.Min.X-n, r.Min.Y-n, r.Max.X+n, r.Max.Y+n).Intersect(image.Rect(0, 0, w, h))
}
