package detection

import (
	"math"

	"github.com/brightpage/docscan/internal/geometry"
)

// Point is a 2D coordinate in the downsampled analysis buffer.
//
// Analysis-space points must never be used against the full-resolution frame;
// Quad.ScaleToFrame performs the conversion.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is a detected document boundary in analysis space, with corners
// ordered clockwise from the top-left.
type Quad struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomRight Point `json:"bottom_right"`
	BottomLeft  Point `json:"bottom_left"`

	// Confidence estimates how likely the quad is the true document
	// boundary, from 0 (noise) to 1 (certain). Results below the caller's
	// threshold must be treated the same as no detection.
	Confidence float64 `json:"confidence"`
}

// Corners returns the four corners in clockwise order from the top-left.
func (q Quad) Corners() [4]Point {
	return [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Area returns the enclosed area in square analysis pixels.
func (q Quad) Area() float64 {
	c := q.Corners()
	var sum float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(sum) / 2
}

// ScaleToFrame maps the quad's corners into full-resolution frame space by
// multiplying each coordinate by the downsample factor. This is the corner
// scaler: the only conversion between analysis and frame coordinates.
func (q Quad) ScaleToFrame(factor float64) geometry.Quad {
	scale := func(p Point) geometry.Point {
		return geometry.Point{X: p.X * factor, Y: p.Y * factor}
	}
	return geometry.Quad{
		TopLeft:     scale(q.TopLeft),
		TopRight:    scale(q.TopRight),
		BottomRight: scale(q.BottomRight),
		BottomLeft:  scale(q.BottomLeft),
	}
}
