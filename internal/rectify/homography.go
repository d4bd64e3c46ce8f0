package rectify

import (
	"math"

	"github.com/brightpage/docscan/internal/geometry"
)

// homography is a 3x3 projective transform in row-major order, with the
// bottom-right element fixed at 1.
type homography [9]float64

// computeHomography solves for the transform taking from[i] to to[i]. The
// boolean is false when the correspondences are degenerate and the system
// has no unique solution.
func computeHomography(from, to [4]geometry.Point) (homography, bool) {
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		x, y := from[i].X, from[i].Y
		u, v := to[i].X, to[i].Y
		r := 2 * i
		a[r] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[r] = u
		a[r+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[r+1] = v
	}

	h, ok := solveLinear(a, b)
	if !ok {
		return homography{}, false
	}
	return homography{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// solveLinear solves the 8x8 system a*x = b by Gauss-Jordan elimination with
// partial pivoting. The arrays are copies, so they can be mutated in place.
func solveLinear(a [8][8]float64, b [8]float64) ([8]float64, bool) {
	for col := 0; col < 8; col++ {
		pivot := col
		max := math.Abs(a[col][col])
		for r := col + 1; r < 8; r++ {
			if v := math.Abs(a[r][col]); v > max {
				max = v
				pivot = r
			}
		}
		if max < 1e-12 {
			return [8]float64{}, false
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}

		div := a[col][col]
		for c := col; c < 8; c++ {
			a[col][c] /= div
		}
		b[col] /= div

		for r := 0; r < 8; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c < 8; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	return b, true
}

// apply projects (x, y) through the homography. The boolean is false when
// the point maps to infinity.
func (h homography) apply(x, y float64) (float64, float64, bool) {
	denom := h[6]*x + h[7]*y + h[8]
	if math.Abs(denom) < 1e-12 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / denom, (h[3]*x + h[4]*y + h[5]) / denom, true
}
