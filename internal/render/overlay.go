package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/brightpage/docscan/internal/geometry"
)

// markerRadius is the half-size of the square corner markers.
const markerRadius = 2

// DrawQuad returns a copy of frame with the quad's boundary and corner
// markers drawn in c. The input frame is never modified; points outside the
// frame are clipped.
func DrawQuad(frame image.Image, quad geometry.Quad, c color.RGBA) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	corners := quad.Corners()
	for i := 0; i < 4; i++ {
		drawSegment(out, corners[i], corners[(i+1)%4], c)
	}
	for _, p := range corners {
		drawMarker(out, p, c)
	}
	return out
}

// drawSegment walks the segment one pixel per step along its longer axis.
func drawSegment(img *image.RGBA, a, b geometry.Point, c color.RGBA) {
	steps := int(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if steps == 0 {
		setClipped(img, int(math.Round(a.X)), int(math.Round(a.Y)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + t*(b.X-a.X)))
		y := int(math.Round(a.Y + t*(b.Y-a.Y)))
		setClipped(img, x, y, c)
	}
}

// drawMarker fills a small square centered on p so corners stand out from
// the one-pixel boundary lines.
func drawMarker(img *image.RGBA, p geometry.Point, c color.RGBA) {
	cx := int(math.Round(p.X))
	cy := int(math.Round(p.Y))
	for dy := -markerRadius; dy <= markerRadius; dy++ {
		for dx := -markerRadius; dx <= markerRadius; dx++ {
			setClipped(img, cx+dx, cy+dy, c)
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
