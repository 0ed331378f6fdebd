package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createInMemoryImage creates a solid-colour image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a solid-colour PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "screenshot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 64, 32, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache()

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Bounds().Dx() != 64 || img1.Bounds().Dy() != 32 {
		t.Errorf("dimensions: got %v, want 64x32", img1.Bounds())
	}

	// Second load should come from cache
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load should return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cache := NewImageCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for a corrupt file")
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	a := createTestImage(t, 8, 8, color.White)
	b := createTestImage(t, 8, 8, color.Black)

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict("never-loaded.png")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 32, 32, color.RGBA{0, 0, 255, 255})
	cache := NewImageCache()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}
