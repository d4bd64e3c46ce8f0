package camera

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a solid color PNG file for directory source tests
func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestOpenDirectory_ServesInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	writePNG(t, filepath.Join(dir, "a.png"), red)
	writePNG(t, filepath.Join(dir, "b.png"), green)
	writePNG(t, filepath.Join(dir, "c.png"), blue)

	src, err := OpenDirectory(dir)
	if err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	defer src.Close()

	for i, want := range []color.RGBA{red, green, blue} {
		frame, err := src.LatestFrame()
		if err != nil {
			t.Fatalf("pull %d failed: %v", i+1, err)
		}
		if frame.Seq != uint64(i+1) {
			t.Errorf("pull %d: Seq = %d, want %d", i+1, frame.Seq, i+1)
		}
		if got := frame.Image.RGBAAt(5, 5); got != want {
			t.Errorf("pull %d: pixel = %v, want %v", i+1, got, want)
		}
	}
}

func TestDirectory_HoldsOnLastFrame(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "b.png"), color.RGBA{B: 255, A: 255})

	src, err := OpenDirectory(dir)
	if err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	defer src.Close()

	for i := 0; i < 5; i++ {
		frame, err := src.LatestFrame()
		if err != nil {
			t.Fatalf("pull %d failed: %v", i+1, err)
		}
		if i >= 1 {
			if got := frame.Image.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
				t.Errorf("pull %d: expected the source to hold on the last image, got %v", i+1, got)
			}
		}
		if frame.Seq != uint64(i+1) {
			t.Errorf("pull %d: Seq = %d, want %d", i+1, frame.Seq, i+1)
		}
	}
}

func TestOpenDirectory_EmptyDir(t *testing.T) {
	_, err := OpenDirectory(t.TempDir())
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames for an empty directory, got %v", err)
	}
}

func TestOpenDirectory_NoDecodableImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := OpenDirectory(dir)
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames when nothing decodes, got %v", err)
	}
}

func TestDirectory_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "b.png"), color.RGBA{G: 255, A: 255})

	src, err := OpenDirectory(dir)
	if err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	defer src.Close()

	frame, err := src.LatestFrame()
	if err != nil {
		t.Fatalf("LatestFrame failed: %v", err)
	}
	if got := frame.Image.RGBAAt(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("expected the corrupt file to be skipped, got pixel %v", got)
	}
}

func TestDirectory_IgnoresNonImageFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "page.png"), color.RGBA{R: 255, A: 255})

	src, err := OpenDirectory(dir)
	if err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	defer src.Close()

	frame, err := src.LatestFrame()
	if err != nil {
		t.Fatalf("LatestFrame failed: %v", err)
	}
	if got := frame.Image.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected the png to be served, got pixel %v", got)
	}
}

func TestDirectory_Close(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.RGBA{R: 255, A: 255})

	src, err := OpenDirectory(dir)
	if err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := src.LatestFrame(); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed after Close, got %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestOpenDirectory_MissingDir(t *testing.T) {
	if _, err := OpenDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
