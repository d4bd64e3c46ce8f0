package detection

import (
	"image"
	"math"
	"sort"
)

// numThetas is the angular resolution of the Hough accumulator (1° bins).
const numThetas = 180

// maxBoundaryLines caps how many Hough peaks are considered when pairing
// boundary lines; peaks beyond the strongest few are accumulator noise.
const maxBoundaryLines = 16

// polarLine is a line in Hough normal form: x·cos(θ) + y·sin(θ) = ρ,
// with θ in [0, π) and ρ possibly negative.
type polarLine struct {
	rho   float64
	theta float64
	votes int
}

// houghLines runs a Hough line transform restricted to the given pixels
// (typically a single contour rather than the whole edge map) and returns
// accumulator peaks sorted by votes, strongest first.
//
// A peak must collect at least voteThreshold votes and be a local maximum in
// a 5x5 accumulator neighborhood; both conditions together suppress the
// cloud of near-duplicate lines a straight pixel run would otherwise emit.
func houghLines(points []image.Point, width, height, voteThreshold int) []polarLine {
	if len(points) == 0 || voteThreshold <= 0 {
		return nil
	}

	maxRho := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	accumulator := make([][]int, 2*maxRho+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numThetas)
	}

	cosTheta := make([]float64, numThetas)
	sinTheta := make([]float64, numThetas)
	for t := 0; t < numThetas; t++ {
		theta := float64(t) * math.Pi / numThetas
		cosTheta[t] = math.Cos(theta)
		sinTheta[t] = math.Sin(theta)
	}

	for _, p := range points {
		for t := 0; t < numThetas; t++ {
			rho := float64(p.X)*cosTheta[t] + float64(p.Y)*sinTheta[t]
			rhoIdx := int(math.Round(rho)) + maxRho
			if rhoIdx >= 0 && rhoIdx < 2*maxRho+1 {
				accumulator[rhoIdx][t]++
			}
		}
	}

	lines := make([]polarLine, 0, maxBoundaryLines)
	for rhoIdx := 0; rhoIdx < 2*maxRho+1; rhoIdx++ {
		for t := 0; t < numThetas; t++ {
			votes := accumulator[rhoIdx][t]
			if votes < voteThreshold {
				continue
			}

			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (t + dt + numThetas) % numThetas
					if nr >= 0 && nr < 2*maxRho+1 {
						if accumulator[nr][nt] > votes {
							isMax = false
						}
					}
				}
			}
			if isMax {
				lines = append(lines, polarLine{
					rho:   float64(rhoIdx - maxRho),
					theta: float64(t) * math.Pi / numThetas,
					votes: votes,
				})
			}
		}
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].votes > lines[j].votes
	})
	if len(lines) > maxBoundaryLines {
		lines = lines[:maxBoundaryLines]
	}
	return lines
}

// isHorizontal reports whether the line's normal points mostly vertically,
// i.e. the line itself runs left-right.
func (l polarLine) isHorizontal() bool {
	return l.theta > math.Pi/4 && l.theta < 3*math.Pi/4
}

// yAt returns the line's y coordinate at the given x. Only meaningful for
// horizontal lines, where sin(θ) is bounded away from zero.
func (l polarLine) yAt(x float64) float64 {
	return (l.rho - x*math.Cos(l.theta)) / math.Sin(l.theta)
}

// xAt returns the line's x coordinate at the given y. Only meaningful for
// vertical lines, where cos(θ) is bounded away from zero.
func (l polarLine) xAt(y float64) float64 {
	return (l.rho - y*math.Sin(l.theta)) / math.Cos(l.theta)
}

// lineIntersection returns the intersection of two lines in normal form.
// The boolean is false for (near-)parallel lines.
func lineIntersection(a, b polarLine) (Point, bool) {
	c1, s1 := math.Cos(a.theta), math.Sin(a.theta)
	c2, s2 := math.Cos(b.theta), math.Sin(b.theta)

	det := c1*s2 - c2*s1
	if math.Abs(det) < 1e-10 {
		return Point{}, false
	}

	x := (s2*a.rho - s1*b.rho) / det
	y := (c1*b.rho - c2*a.rho) / det
	return Point{X: x, Y: y}, true
}
