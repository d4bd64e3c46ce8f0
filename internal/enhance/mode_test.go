package enhance

import (
	"image"
	"image/color"
	"testing"
)

func TestSuggestMode_InkOnPaper(t *testing.T) {
	// Neutral gray paper with darker gray "text": zero chroma everywhere.
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(210)
			if y%20 < 3 {
				v = 60
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	if mode := SuggestMode(img); mode != ModeMonochrome {
		t.Errorf("gray page should suggest monochrome, got %s", mode)
	}
}

func TestSuggestMode_ColorfulPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			c := color.RGBA{R: 220, G: 60, B: 40, A: 255}
			if x >= 64 {
				c = color.RGBA{R: 40, G: 90, B: 200, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	if mode := SuggestMode(img); mode != ModeColor {
		t.Errorf("colorful page should suggest color, got %s", mode)
	}
}

func TestSuggestMode_EmptyImage(t *testing.T) {
	if mode := SuggestMode(image.NewRGBA(image.Rectangle{})); mode != ModeColor {
		t.Errorf("empty image should default to color, got %s", mode)
	}
}

func TestSettings_Resolve(t *testing.T) {
	gray := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			gray.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	t.Run("auto takes the suggestion", func(t *testing.T) {
		s := DefaultSettings().Resolve(gray)
		if s.Mode != ModeMonochrome {
			t.Errorf("auto on a gray page should resolve to monochrome, got %s", s.Mode)
		}
	})

	t.Run("explicit mode wins", func(t *testing.T) {
		s := Settings{Mode: ModeColor}.Resolve(gray)
		if s.Mode != ModeColor {
			t.Errorf("explicit color should stay color, got %s", s.Mode)
		}
	})

	t.Run("empty mode is automatic", func(t *testing.T) {
		s := Settings{}.Resolve(gray)
		if s.Mode != ModeMonochrome {
			t.Errorf("empty mode should resolve like auto, got %s", s.Mode)
		}
	})
}
