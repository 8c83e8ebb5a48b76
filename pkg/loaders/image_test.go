package loaders

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestSavePNG_RoundTrip(t *testing.T) {
	// Nested path exercises directory creation
	path := filepath.Join(t.TempDir(), "output", "default", "render.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{G: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{B: 128, A: 255})

	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG failed: %v", err)
	}
	if loaded.Bounds() != img.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", img.Bounds(), loaded.Bounds())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := img.RGBAAt(x, y)
			got := color.RGBAModel.Convert(loaded.At(x, y)).(color.RGBA)
			if got != want {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestLoadPNG_MissingFile(t *testing.T) {
	if _, err := LoadPNG(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}
