package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createEdgeTestImage draws a black rectangle on a white background.
func createEdgeTestImage(width, height int, rect image.Rectangle) *image.RGBA {
	img := createInMemoryImage(width, height, color.White)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func countEdges(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v == edgeOn {
			n++
		}
	}
	return n
}

func TestEdgeMap_Rectangle(t *testing.T) {
	rect := image.Rect(30, 30, 70, 70)
	edges := EdgeMap(createEdgeTestImage(100, 100, rect), DefaultEdgeLow, DefaultEdgeHigh)

	if edges.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds: got %v", edges.Bounds())
	}
	if countEdges(edges) == 0 {
		t.Fatal("expected edges around the rectangle")
	}

	// Pixels far from the rectangle outline must stay clear.
	for _, p := range []image.Point{{50, 50}, {5, 5}, {95, 95}, {50, 10}} {
		if edges.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("unexpected edge at %v", p)
		}
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	edges := EdgeMap(createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}), DefaultEdgeLow, DefaultEdgeHigh)

	if n := countEdges(edges); n != 0 {
		t.Errorf("uniform image produced %d edge pixels", n)
	}
}

func TestEdgeMap_BinaryOutput(t *testing.T) {
	edges := EdgeMap(createEdgeTestImage(60, 60, image.Rect(10, 20, 50, 40)), 10, 50)

	for i, v := range edges.Pix {
		if v != 0 && v != edgeOn {
			t.Fatalf("pixel %d has non-binary value %d", i, v)
		}
	}
}

func TestEdgeMap_OffsetBounds(t *testing.T) {
	src := createEdgeTestImage(80, 80, image.Rect(20, 20, 60, 60))
	sub := src.SubImage(image.Rect(10, 10, 70, 70))

	edges := EdgeMap(sub, DefaultEdgeLow, DefaultEdgeHigh)
	if edges.Bounds() != image.Rect(0, 0, 60, 60) {
		t.Errorf("edge map should be rebased to origin, got %v", edges.Bounds())
	}
}

func TestEdgeMap_Empty(t *testing.T) {
	edges := EdgeMap(image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultEdgeLow, DefaultEdgeHigh)
	if !edges.Bounds().Empty() {
		t.Errorf("expected empty edge map, got %v", edges.Bounds())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}
