package rectify

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/brightpage/docscan/internal/geometry"
)

// createSolidImage creates a solid color test image
func createSolidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRectify_OutputDimensions(t *testing.T) {
	src := createSolidImage(300, 200, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	r := Rectifier{Width: 120, Height: 160}

	out, usedFallback := r.Rectify(src, geometry.FullFrame(300, 200))

	if usedFallback {
		t.Error("full-frame quad should not trigger the fallback")
	}
	b := out.Bounds()
	if b.Dx() != 120 || b.Dy() != 160 {
		t.Errorf("output is %dx%d, want 120x160", b.Dx(), b.Dy())
	}
}

func TestRectify_DegenerateQuadFallsBack(t *testing.T) {
	src := createSolidImage(300, 200, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	r := Rectifier{Width: 80, Height: 100}

	p := geometry.Point{X: 50, Y: 50}
	out, usedFallback := r.Rectify(src, geometry.Quad{TopLeft: p, TopRight: p, BottomRight: p, BottomLeft: p})

	if !usedFallback {
		t.Error("coincident corners should trigger the fallback")
	}
	b := out.Bounds()
	if b.Dx() != 80 || b.Dy() != 100 {
		t.Errorf("fallback output is %dx%d, want 80x100", b.Dx(), b.Dy())
	}
}

func TestRectify_QuadrantMapping(t *testing.T) {
	// Four colored quadrants; a full-frame quad should land each quadrant
	// in the matching region of the output.
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	yellow := color.RGBA{R: 255, G: 255, A: 255}

	src := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			switch {
			case x < 100 && y < 100:
				src.SetRGBA(x, y, red)
			case x >= 100 && y < 100:
				src.SetRGBA(x, y, green)
			case x < 100:
				src.SetRGBA(x, y, blue)
			default:
				src.SetRGBA(x, y, yellow)
			}
		}
	}

	r := Rectifier{Width: 100, Height: 100}
	out, usedFallback := r.Rectify(src, geometry.FullFrame(200, 200))
	if usedFallback {
		t.Fatal("unexpected fallback")
	}

	checks := []struct {
		x, y int
		want color.RGBA
		name string
	}{
		{10, 10, red, "top-left"},
		{90, 10, green, "top-right"},
		{10, 90, blue, "bottom-left"},
		{90, 90, yellow, "bottom-right"},
	}
	for _, c := range checks {
		if got := out.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("%s quadrant: pixel (%d,%d) = %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}
}

func TestRectify_IdentityQuad(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 100, A: 255})
		}
	}

	r := Rectifier{Width: 50, Height: 50}
	out, usedFallback := r.Rectify(src, geometry.FullFrame(50, 50))
	if usedFallback {
		t.Fatal("unexpected fallback")
	}

	for _, p := range []image.Point{{X: 7, Y: 31}, {X: 25, Y: 25}, {X: 48, Y: 3}} {
		got := out.RGBAAt(p.X, p.Y)
		want := src.RGBAAt(p.X, p.Y)
		if chanDiff(got.R, want.R) > 1 || chanDiff(got.G, want.G) > 1 || chanDiff(got.B, want.B) > 1 {
			t.Errorf("pixel (%d,%d) = %v, want ~%v", p.X, p.Y, got, want)
		}
	}
}

func TestRectify_OutsideFrameIsBlack(t *testing.T) {
	src := createSolidImage(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	r := Rectifier{Width: 60, Height: 60}

	quad := geometry.Quad{
		TopLeft:     geometry.Point{X: -40, Y: -40},
		TopRight:    geometry.Point{X: 60, Y: 0},
		BottomRight: geometry.Point{X: 70, Y: 70},
		BottomLeft:  geometry.Point{X: 0, Y: 60},
	}
	out, usedFallback := r.Rectify(src, quad)
	if usedFallback {
		t.Fatal("unexpected fallback")
	}

	if got := out.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("corner mapping outside the frame should be black, got %v", got)
	}
	if got := out.RGBAAt(59, 59); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner mapping inside the frame should be white, got %v", got)
	}
}

func TestComputeHomography_RoundTrip(t *testing.T) {
	from := [4]geometry.Point{{X: 0, Y: 0}, {X: 99, Y: 0}, {X: 99, Y: 149}, {X: 0, Y: 149}}
	to := [4]geometry.Point{{X: 10, Y: 5}, {X: 90, Y: 12}, {X: 85, Y: 140}, {X: 4, Y: 130}}

	h, ok := computeHomography(from, to)
	if !ok {
		t.Fatal("expected a solvable system")
	}

	for i := 0; i < 4; i++ {
		x, y, ok := h.apply(from[i].X, from[i].Y)
		if !ok {
			t.Fatalf("corner %d mapped to infinity", i)
		}
		if math.Abs(x-to[i].X) > 1e-6 || math.Abs(y-to[i].Y) > 1e-6 {
			t.Errorf("corner %d: mapped to (%f, %f), want (%f, %f)", i, x, y, to[i].X, to[i].Y)
		}
	}
}

func TestComputeHomography_Singular(t *testing.T) {
	from := [4]geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 99, Y: 149}, {X: 0, Y: 149}}
	to := [4]geometry.Point{{X: 10, Y: 5}, {X: 90, Y: 12}, {X: 85, Y: 140}, {X: 4, Y: 130}}

	if _, ok := computeHomography(from, to); ok {
		t.Error("duplicate source corners should make the system singular")
	}
}

func chanDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
