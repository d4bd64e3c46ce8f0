package camera

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"sync"
	"time"
)

const (
	defaultSynthWidth  = 1280
	defaultSynthHeight = 960

	ruleSpacing = 96
	ruleInset   = 40
)

var (
	synthBackground = color.RGBA{R: 40, G: 40, B: 46, A: 255}
	synthPage       = color.RGBA{R: 235, G: 235, B: 228, A: 255}
	synthRule       = color.RGBA{R: 216, G: 216, B: 210, A: 255}
)

// Synthetic generates frames of a bright ruled page on a dark background.
// Without jitter every frame is identical, which keeps tests deterministic.
type Synthetic struct {
	mu     sync.Mutex
	width  int
	height int
	page   image.Rectangle
	static *image.RGBA
	jitter int
	rng    *rand.Rand
	seq    uint64
	closed bool
}

// NewSynthetic builds a synthetic source producing width x height frames.
// Non-positive dimensions fall back to 1280x960.
func NewSynthetic(width, height int) *Synthetic {
	if width <= 0 || height <= 0 {
		width, height = defaultSynthWidth, defaultSynthHeight
	}
	s := &Synthetic{
		width:  width,
		height: height,
		page:   image.Rect(width*15/100, height*12/100, width*85/100, height*88/100),
		rng:    rand.New(rand.NewSource(42)),
	}
	s.static = s.render(0, 0)
	return s
}

// Jitter makes each frame shift the page by up to amp pixels in both axes.
// The offsets come from a fixed-seed generator, so a jittered sequence is
// still reproducible run to run. Returns s for chaining.
func (s *Synthetic) Jitter(amp int) *Synthetic {
	s.mu.Lock()
	s.jitter = amp
	s.mu.Unlock()
	return s
}

// PageBounds reports where the page sits in an unjittered frame.
func (s *Synthetic) PageBounds() image.Rectangle {
	return s.page
}

// LatestFrame returns the current synthetic frame.
func (s *Synthetic) LatestFrame() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	img := s.static
	if s.jitter > 0 {
		dx := s.rng.Intn(2*s.jitter+1) - s.jitter
		dy := s.rng.Intn(2*s.jitter+1) - s.jitter
		img = s.render(dx, dy)
	}

	s.seq++
	return &Frame{Image: img, Seq: s.seq, Timestamp: time.Now()}, nil
}

// Close shuts the source down. Idempotent.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// render draws the scene with the page offset by (dx, dy).
func (s *Synthetic) render(dx, dy int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: synthBackground}, image.Point{}, draw.Src)

	page := s.page.Add(image.Pt(dx, dy)).Intersect(img.Bounds())
	draw.Draw(img, page, &image.Uniform{C: synthPage}, image.Point{}, draw.Src)

	// Faint notebook rules. Kept low-contrast so they read as page content
	// rather than page boundary.
	for y := page.Min.Y + ruleSpacing; y < page.Max.Y-ruleInset; y += ruleSpacing {
		rule := image.Rect(page.Min.X+ruleInset, y, page.Max.X-ruleInset, y+2)
		draw.Draw(img, rule, &image.Uniform{C: synthRule}, image.Point{}, draw.Src)
	}

	return img
}
