package detection

import (
	"image"
	"math"
)

// Default detector tuning. These values were chosen against downsampled
// analysis frames (longest side around DefaultAnalysisMaxDim) and are not
// meaningful for full-resolution input.
const (
	DefaultLowThreshold    = 50
	DefaultHighThreshold   = 150
	DefaultMinContourSize  = 40
	DefaultMinAreaFraction = 0.05
	DefaultMaxAreaFraction = 0.98
)

const (
	// minVoteThreshold is the floor for Hough peak votes regardless of
	// contour size.
	minVoteThreshold = 15

	// minSideSeparation is the minimum distance in pixels between a quad's
	// opposite boundary lines.
	minSideSeparation = 8.0

	// frameMarginFrac is how far outside the analysis frame a corner may
	// land before the candidate is rejected, as a fraction of the frame
	// dimension. Page corners sit slightly out of frame surprisingly often.
	frameMarginFrac = 0.05

	// minCornerDist rejects candidates whose corners collapse together.
	minCornerDist = 3.0

	// edgeFitDist is the max distance from a contour point to a quad side
	// for the point to count toward edge straightness.
	edgeFitDist = 2.5

	// confidenceTieBand treats candidates this close in confidence as
	// equals, tie-broken by area.
	confidenceTieBand = 0.05

	// minDetectDim is the smallest frame edge Detect will analyze; the
	// Gaussian and Sobel kernels need room to operate.
	minDetectDim = 16
)

// Config holds the detector's tuning knobs. The zero value of any field is
// replaced with the package default by NewDetector.
type Config struct {
	// LowThreshold and HighThreshold are the Canny hysteresis thresholds
	// on the 0-255 gradient magnitude scale.
	LowThreshold  int
	HighThreshold int

	// MinContourSize drops edge contours with fewer pixels than this
	// before any quad fitting happens.
	MinContourSize int

	// MinAreaFraction and MaxAreaFraction bound the candidate's bounding
	// box area as a fraction of the analysis frame. Below the window is
	// clutter (text blocks, photos on the page); above it is the frame
	// border itself.
	MinAreaFraction float64
	MaxAreaFraction float64
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		LowThreshold:    DefaultLowThreshold,
		HighThreshold:   DefaultHighThreshold,
		MinContourSize:  DefaultMinContourSize,
		MinAreaFraction: DefaultMinAreaFraction,
		MaxAreaFraction: DefaultMaxAreaFraction,
	}
}

// Detector locates a document quad in a downsampled analysis frame. It is
// stateless and safe for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector builds a detector, filling zero-valued config fields with the
// package defaults.
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.LowThreshold <= 0 {
		cfg.LowThreshold = def.LowThreshold
	}
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = def.HighThreshold
	}
	if cfg.MinContourSize <= 0 {
		cfg.MinContourSize = def.MinContourSize
	}
	if cfg.MinAreaFraction <= 0 {
		cfg.MinAreaFraction = def.MinAreaFraction
	}
	if cfg.MaxAreaFraction <= 0 {
		cfg.MaxAreaFraction = def.MaxAreaFraction
	}
	return &Detector{cfg: cfg}
}

// Detect searches the analysis frame for the strongest document-shaped quad.
// The boolean is false when nothing plausible was found; a miss is a normal
// outcome, not an error. Coordinates in the returned quad are in analysis
// space and must go through ScaleToFrame before touching the full frame.
func (d *Detector) Detect(img image.Image) (Quad, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < minDetectDim || height < minDetectDim {
		return Quad{}, false
	}

	edges := edgeMap(img, d.cfg.LowThreshold, d.cfg.HighThreshold)
	contours := findContours(edges, width, height, d.cfg.MinContourSize)

	frameArea := float64(width * height)
	var best Quad
	bestArea := 0.0
	found := false

	for _, contour := range contours {
		box := boundingBox(contour)
		boxFrac := float64(box.Dx()*box.Dy()) / frameArea
		if boxFrac < d.cfg.MinAreaFraction || boxFrac > d.cfg.MaxAreaFraction {
			continue
		}

		quad, ok := d.quadFromContour(contour, box, width, height)
		if !ok {
			continue
		}
		quad.Confidence = d.confidence(quad, contour, frameArea)
		area := quad.Area()

		replace := !found ||
			quad.Confidence > best.Confidence+confidenceTieBand ||
			(quad.Confidence > best.Confidence-confidenceTieBand && area > bestArea)
		if replace {
			best = quad
			bestArea = area
			found = true
		}
	}

	if !found {
		return Quad{}, false
	}
	return best, true
}

// quadFromContour fits a quad to one contour: Hough boundary lines first,
// extreme contour points as a fallback when line fitting comes up short.
func (d *Detector) quadFromContour(contour []image.Point, box image.Rectangle, width, height int) (Quad, bool) {
	voteThreshold := box.Dx()
	if box.Dy() < voteThreshold {
		voteThreshold = box.Dy()
	}
	voteThreshold /= 4
	if voteThreshold < minVoteThreshold {
		voteThreshold = minVoteThreshold
	}

	lines := houghLines(contour, width, height, voteThreshold)
	if quad, ok := quadFromLines(lines, box); ok && d.plausible(quad, width, height) {
		return quad, true
	}

	quad := quadFromExtremes(contour)
	if d.plausible(quad, width, height) {
		return quad, true
	}
	return Quad{}, false
}

// quadFromLines pairs the detected boundary lines into a quad: the
// near-horizontal lines with extreme y at the box's x midpoint become top
// and bottom, the near-vertical lines with extreme x at the y midpoint
// become left and right, and the four pairwise intersections are the
// corners.
func quadFromLines(lines []polarLine, box image.Rectangle) (Quad, bool) {
	var horizontal, vertical []polarLine
	for _, l := range lines {
		if l.isHorizontal() {
			horizontal = append(horizontal, l)
		} else {
			vertical = append(vertical, l)
		}
	}
	if len(horizontal) < 2 || len(vertical) < 2 {
		return Quad{}, false
	}

	midX := float64(box.Min.X+box.Max.X) / 2
	midY := float64(box.Min.Y+box.Max.Y) / 2

	top, bottom := horizontal[0], horizontal[0]
	for _, l := range horizontal[1:] {
		if l.yAt(midX) < top.yAt(midX) {
			top = l
		}
		if l.yAt(midX) > bottom.yAt(midX) {
			bottom = l
		}
	}
	left, right := vertical[0], vertical[0]
	for _, l := range vertical[1:] {
		if l.xAt(midY) < left.xAt(midY) {
			left = l
		}
		if l.xAt(midY) > right.xAt(midY) {
			right = l
		}
	}

	if bottom.yAt(midX)-top.yAt(midX) < minSideSeparation ||
		right.xAt(midY)-left.xAt(midY) < minSideSeparation {
		return Quad{}, false
	}

	corners := make([]Point, 0, 4)
	for _, pair := range [4][2]polarLine{
		{top, left}, {top, right}, {bottom, right}, {bottom, left},
	} {
		p, ok := lineIntersection(pair[0], pair[1])
		if !ok {
			return Quad{}, false
		}
		corners = append(corners, p)
	}
	return orderCorners(corners), true
}

// quadFromExtremes picks corners directly from the contour by scoring each
// point against the contour centroid. Curved or broken page edges often
// defeat the Hough transform but still have well-defined extreme points.
func quadFromExtremes(contour []image.Point) Quad {
	var cx, cy float64
	for _, p := range contour {
		cx += float64(p.X)
		cy += float64(p.Y)
	}
	n := float64(len(contour))
	cx /= n
	cy /= n

	corners := make([]Point, 0, len(contour))
	for _, p := range contour {
		corners = append(corners, Point{X: float64(p.X), Y: float64(p.Y)})
	}
	return orderExtremes(corners, cx, cy)
}

// orderCorners arranges four corner points clockwise from top-left using
// centroid-relative scoring: top-left minimizes x+y relative to the
// centroid, top-right maximizes x-y, and so on.
func orderCorners(corners []Point) Quad {
	var cx, cy float64
	for _, p := range corners {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(corners))
	cy /= float64(len(corners))
	return orderExtremes(corners, cx, cy)
}

func orderExtremes(points []Point, cx, cy float64) Quad {
	scores := [4]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	var ordered [4]Point
	for _, p := range points {
		dx := p.X - cx
		dy := p.Y - cy
		for i, s := range [4]float64{-dx - dy, dx - dy, dx + dy, -dx + dy} {
			if s > scores[i] {
				scores[i] = s
				ordered[i] = p
			}
		}
	}
	return Quad{
		TopLeft:     ordered[0],
		TopRight:    ordered[1],
		BottomRight: ordered[2],
		BottomLeft:  ordered[3],
	}
}

// plausible rejects quads whose corners land well outside the frame or
// collapse onto each other. Pairing two near-parallel Hough lines can put
// an intersection arbitrarily far from the image.
func (d *Detector) plausible(q Quad, width, height int) bool {
	marginX := float64(width) * frameMarginFrac
	marginY := float64(height) * frameMarginFrac
	corners := q.Corners()
	for _, p := range corners {
		if p.X < -marginX || p.X > float64(width)+marginX ||
			p.Y < -marginY || p.Y > float64(height)+marginY {
			return false
		}
	}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if dist(corners[i], corners[j]) < minCornerDist {
				return false
			}
		}
	}
	return true
}

// confidence blends three signals into [0, 1]: how much of the contour hugs
// the fitted quad's sides, how close the interior angles are to 90 degrees,
// and how reasonable the covered area is.
func (d *Detector) confidence(q Quad, contour []image.Point, frameArea float64) float64 {
	c := 0.5*edgeStraightness(q, contour) +
		0.3*rightAngleScore(q) +
		0.2*areaScore(q.Area()/frameArea, d.cfg.MinAreaFraction, d.cfg.MaxAreaFraction)
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// edgeStraightness is the fraction of contour points within edgeFitDist of
// the nearest quad side.
func edgeStraightness(q Quad, contour []image.Point) float64 {
	if len(contour) == 0 {
		return 0
	}
	corners := q.Corners()
	inliers := 0
	for _, cp := range contour {
		p := Point{X: float64(cp.X), Y: float64(cp.Y)}
		for i := 0; i < 4; i++ {
			if pointSegmentDist(p, corners[i], corners[(i+1)%4]) <= edgeFitDist {
				inliers++
				break
			}
		}
	}
	return float64(inliers) / float64(len(contour))
}

// rightAngleScore averages how close each interior angle is to 90 degrees,
// 1.0 for a perfect rectangle falling linearly to 0 at 45 degrees off.
func rightAngleScore(q Quad) float64 {
	corners := q.Corners()
	total := 0.0
	for i := 0; i < 4; i++ {
		angle := interiorAngle(corners[(i+3)%4], corners[i], corners[(i+1)%4])
		dev := math.Abs(90-angle) / 45
		if dev > 1 {
			dev = 1
		}
		total += 1 - dev
	}
	return total / 4
}

// areaScore is 1.0 for quads covering a comfortable share of the frame and
// ramps down to 0.3 at the edges of the configured area window.
func areaScore(frac, minFrac, maxFrac float64) float64 {
	const lo, hi = 0.15, 0.85
	switch {
	case frac >= lo && frac <= hi:
		return 1
	case frac < lo:
		if frac <= minFrac {
			return 0.3
		}
		return 0.3 + 0.7*(frac-minFrac)/(lo-minFrac)
	default:
		if frac >= maxFrac {
			return 0.3
		}
		return 0.3 + 0.7*(maxFrac-frac)/(maxFrac-hi)
	}
}

// interiorAngle returns the angle at vertex b of the path a-b-c, in degrees.
func interiorAngle(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	n1 := math.Hypot(v1x, v1y)
	n2 := math.Hypot(v2x, v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// pointSegmentDist is the distance from p to the closest point on the
// segment ab.
func pointSegmentDist(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return dist(p, Point{X: a.X + t*abx, Y: a.Y + t*aby})
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
