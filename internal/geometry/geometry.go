package geometry

import "math"

// minCornerSeparation is the smallest distance, in pixels, at which two quad
// corners are still considered distinct.
const minCornerSeparation = 2.0

// collinearSin is the smallest |sin| of the angle at a corner before three
// consecutive corners are treated as collinear.
const collinearSin = 1e-3

// Point is a 2D coordinate in full-resolution pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to another point.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Quad is a quadrilateral with corners ordered clockwise from the top-left.
type Quad struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomRight Point `json:"bottom_right"`
	BottomLeft  Point `json:"bottom_left"`
}

// FullFrame returns the quadrilateral covering an entire width×height frame.
// It is the fallback boundary used when no confident detection is available.
func FullFrame(width, height int) Quad {
	w := float64(width - 1)
	h := float64(height - 1)
	return Quad{
		TopLeft:     Point{X: 0, Y: 0},
		TopRight:    Point{X: w, Y: 0},
		BottomRight: Point{X: w, Y: h},
		BottomLeft:  Point{X: 0, Y: h},
	}
}

// Corners returns the four corners in clockwise order from the top-left.
func (q Quad) Corners() [4]Point {
	return [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Area returns the enclosed area in square pixels using the shoelace formula.
func (q Quad) Area() float64 {
	c := q.Corners()
	var sum float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(sum) / 2
}

// Centroid returns the arithmetic mean of the four corners.
func (q Quad) Centroid() Point {
	c := q.Corners()
	return Point{
		X: (c[0].X + c[1].X + c[2].X + c[3].X) / 4,
		Y: (c[0].Y + c[1].Y + c[2].Y + c[3].Y) / 4,
	}
}

// IsDegenerate reports whether the quadrilateral is unusable as the source of
// a perspective transform: two corners coincide, or three consecutive corners
// are collinear. Degenerate quads must be replaced by a FullFrame fallback
// before rectification.
func (q Quad) IsDegenerate() bool {
	c := q.Corners()

	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if c[i].Dist(c[j]) < minCornerSeparation {
				return true
			}
		}
	}

	// Collinearity: for each corner, the sine of the angle formed with its
	// two neighbors must be clearly non-zero.
	for i := 0; i < 4; i++ {
		a := c[(i+3)%4]
		b := c[i]
		d := c[(i+1)%4]
		abX, abY := a.X-b.X, a.Y-b.Y
		dbX, dbY := d.X-b.X, d.Y-b.Y
		cross := abX*dbY - abY*dbX
		lenAB := math.Hypot(abX, abY)
		lenDB := math.Hypot(dbX, dbY)
		if lenAB == 0 || lenDB == 0 {
			return true
		}
		if math.Abs(cross)/(lenAB*lenDB) < collinearSin {
			return true
		}
	}

	return false
}
