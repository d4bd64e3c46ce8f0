package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeMap_VerticalBoundary(t *testing.T) {
	// Dark left half, bright right half.
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if x < 25 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := edgeMap(img, DefaultLowThreshold, DefaultHighThreshold)

	found := false
	for y := 5; y < 45 && !found; y++ {
		for x := 22; x <= 28; x++ {
			if edges[y][x] {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected edge pixels near the brightness boundary at x=25")
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	img := createTestImage(50, 50, color.RGBA{128, 128, 128, 255})

	edges := edgeMap(img, DefaultLowThreshold, DefaultHighThreshold)

	count := 0
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				count++
			}
		}
	}
	if count != 0 {
		t.Errorf("uniform image should have 0 edge pixels, got %d", count)
	}
}

func TestEdgeMap_LowContrastIgnored(t *testing.T) {
	// A brightness step of 10/255 sits below the hysteresis low threshold.
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if x < 25 {
				img.Set(x, y, color.RGBA{120, 120, 120, 255})
			} else {
				img.Set(x, y, color.RGBA{130, 130, 130, 255})
			}
		}
	}

	edges := edgeMap(img, DefaultLowThreshold, DefaultHighThreshold)

	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				t.Fatalf("low contrast step should not register, got edge at (%d, %d)", x, y)
			}
		}
	}
}

func TestDilate(t *testing.T) {
	edges := make([][]bool, 10)
	for y := range edges {
		edges[y] = make([]bool, 10)
	}
	edges[5][5] = true

	out := dilate(edges, 10, 10)

	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			if !out[y][x] {
				t.Errorf("dilation should set (%d, %d)", x, y)
			}
		}
	}
	if out[5][8] || out[2][5] {
		t.Error("dilation grew more than one pixel")
	}
}
